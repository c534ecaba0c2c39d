package core

import "context"

// Logger is the minimal logging abstraction used across modules.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config provides typed access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
}

// WorkerPool limits concurrency for background tasks.
type WorkerPool interface {
	Submit(task func()) error
	SubmitWait(task func() error) error
	Shutdown(ctx context.Context) error
	Size() int
}

// LibraryRepository defines storage operations for the user's local library:
// playlists and liked songs. The playback core never writes through this
// interface; it exists for the UI layer and survives process restarts.
type LibraryRepository interface {
	CreatePlaylist(ctx context.Context, name string) (*PlaylistInfo, error)
	DeletePlaylist(ctx context.Context, playlistID uint) error
	GetPlaylist(ctx context.Context, playlistID uint) (*PlaylistInfo, error)
	ListPlaylists(ctx context.Context) ([]PlaylistInfo, error)
	AddTrack(ctx context.Context, playlistID uint, track SavedTrack) error
	RemoveTrack(ctx context.Context, playlistID uint, trackID string) error
	LikeTrack(ctx context.Context, track SavedTrack) error
	UnlikeTrack(ctx context.Context, trackID string) error
	IsLiked(ctx context.Context, trackID string) (bool, error)
	ListLiked(ctx context.Context) ([]SavedTrack, error)
}
