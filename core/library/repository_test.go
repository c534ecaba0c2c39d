package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vibestream/vibestream/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "library.db")
	repo, err := NewSQLiteRepository(dsn, nil)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	return repo
}

func sampleTrack(id string) core.SavedTrack {
	return core.SavedTrack{
		TrackID:                id,
		Title:                  "Song",
		Artist:                 "Artist",
		Album:                  "Album",
		DurationSeconds:        225,
		PreviewDurationSeconds: 30,
		Source:                 "jiosaavn",
		FullURL:                "https://cdn.example/full.mp4",
	}
}

func TestPlaylistLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pl, err := repo.CreatePlaylist(ctx, "Road Trip")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_a")); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_b")); err != nil {
		t.Fatalf("add track: %v", err)
	}

	loaded, err := repo.GetPlaylist(ctx, pl.ID)
	if err != nil {
		t.Fatalf("get playlist: %v", err)
	}
	if len(loaded.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(loaded.Tracks))
	}
	if loaded.Tracks[0].TrackID != "jiosaavn_a" || loaded.Tracks[1].TrackID != "jiosaavn_b" {
		t.Fatalf("insertion order lost: %+v", loaded.Tracks)
	}

	if err := repo.RemoveTrack(ctx, pl.ID, "jiosaavn_a"); err != nil {
		t.Fatalf("remove track: %v", err)
	}
	loaded, _ = repo.GetPlaylist(ctx, pl.ID)
	if len(loaded.Tracks) != 1 {
		t.Fatalf("expected 1 track after removal, got %d", len(loaded.Tracks))
	}

	if err := repo.DeletePlaylist(ctx, pl.ID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}
	if _, err := repo.GetPlaylist(ctx, pl.ID); err == nil {
		t.Fatal("expected error loading deleted playlist")
	}
}

func TestAddTrackDuplicateIsNoOp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pl, err := repo.CreatePlaylist(ctx, "Mix")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_a")); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_a")); err != nil {
		t.Fatalf("duplicate add must not fail: %v", err)
	}

	loaded, _ := repo.GetPlaylist(ctx, pl.ID)
	if len(loaded.Tracks) != 1 {
		t.Fatalf("duplicate add must not create a second row, got %d", len(loaded.Tracks))
	}
	if loaded.Tracks[0].Title != "Song" {
		t.Fatalf("existing entry must be untouched: %+v", loaded.Tracks[0])
	}
}

func TestAddRemoveReAdd(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pl, err := repo.CreatePlaylist(ctx, "Mix")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_a")); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if err := repo.RemoveTrack(ctx, pl.ID, "jiosaavn_a"); err != nil {
		t.Fatalf("remove track: %v", err)
	}
	if err := repo.AddTrack(ctx, pl.ID, sampleTrack("jiosaavn_a")); err != nil {
		t.Fatalf("re-adding a removed track must succeed: %v", err)
	}

	loaded, err := repo.GetPlaylist(ctx, pl.ID)
	if err != nil {
		t.Fatalf("get playlist: %v", err)
	}
	if len(loaded.Tracks) != 1 {
		t.Fatalf("expected 1 track after re-add, got %d", len(loaded.Tracks))
	}
}

func TestLikeUnlikeRelike(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.LikeTrack(ctx, sampleTrack("itunes_1")); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := repo.UnlikeTrack(ctx, "itunes_1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if err := repo.LikeTrack(ctx, sampleTrack("itunes_1")); err != nil {
		t.Fatalf("re-liking an unliked track must succeed: %v", err)
	}

	liked, err := repo.IsLiked(ctx, "itunes_1")
	if err != nil || !liked {
		t.Fatalf("expected liked=true after re-like, got %v %v", liked, err)
	}
	list, err := repo.ListLiked(ctx)
	if err != nil {
		t.Fatalf("list liked: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly 1 liked row, got %d", len(list))
	}
}

func TestLikedTracks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.LikeTrack(ctx, sampleTrack("itunes_1")); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := repo.LikeTrack(ctx, sampleTrack("itunes_1")); err != nil {
		t.Fatalf("double like must be a no-op: %v", err)
	}

	liked, err := repo.IsLiked(ctx, "itunes_1")
	if err != nil || !liked {
		t.Fatalf("expected liked=true, got %v %v", liked, err)
	}

	list, err := repo.ListLiked(ctx)
	if err != nil {
		t.Fatalf("list liked: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 liked track, got %d", len(list))
	}

	if err := repo.UnlikeTrack(ctx, "itunes_1"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if liked, _ := repo.IsLiked(ctx, "itunes_1"); liked {
		t.Fatal("expected liked=false after unlike")
	}
}
