package library

import (
	"time"

	"github.com/vibestream/vibestream/core"
	"gorm.io/gorm"
)

// PlaylistModel mirrors the playlists schema.
type PlaylistModel struct {
	gorm.Model
	Name   string               `gorm:"not null"`
	Tracks []PlaylistTrackModel `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
}

func (PlaylistModel) TableName() string {
	return "playlists"
}

// PlaylistTrackModel stores one track inside a playlist. Position keeps
// insertion order; the unique index makes duplicate adds detectable.
// Removal is a hard delete, never a soft delete: a soft-deleted row would
// still occupy the unique index and block re-adding the track.
type PlaylistTrackModel struct {
	ID                     uint `gorm:"primarykey"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	PlaylistID             uint   `gorm:"not null;index:idx_playlist_track,unique"`
	TrackID                string `gorm:"not null;index:idx_playlist_track,unique"`
	Position               int    `gorm:"not null"`
	Title                  string
	Artist                 string
	Album                  string
	DurationSeconds        int
	PreviewDurationSeconds int
	ArtworkURL             string
	Source                 string
	PreviewURL             string
	FullURL                string
}

func (PlaylistTrackModel) TableName() string {
	return "playlist_tracks"
}

// LikedTrackModel stores one liked song, unique per track ID. Unliking
// hard-deletes the row so the song can be liked again.
type LikedTrackModel struct {
	ID                     uint `gorm:"primarykey"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	TrackID                string `gorm:"uniqueIndex;not null"`
	Title                  string
	Artist                 string
	Album                  string
	DurationSeconds        int
	PreviewDurationSeconds int
	ArtworkURL             string
	Source                 string
	PreviewURL             string
	FullURL                string
}

func (LikedTrackModel) TableName() string {
	return "liked_tracks"
}

func trackToInternal(m PlaylistTrackModel) core.SavedTrack {
	return core.SavedTrack{
		TrackID:                m.TrackID,
		Title:                  m.Title,
		Artist:                 m.Artist,
		Album:                  m.Album,
		DurationSeconds:        m.DurationSeconds,
		PreviewDurationSeconds: m.PreviewDurationSeconds,
		ArtworkURL:             m.ArtworkURL,
		Source:                 m.Source,
		PreviewURL:             m.PreviewURL,
		FullURL:                m.FullURL,
	}
}

func likedToInternal(m LikedTrackModel) core.SavedTrack {
	return core.SavedTrack{
		TrackID:                m.TrackID,
		Title:                  m.Title,
		Artist:                 m.Artist,
		Album:                  m.Album,
		DurationSeconds:        m.DurationSeconds,
		PreviewDurationSeconds: m.PreviewDurationSeconds,
		ArtworkURL:             m.ArtworkURL,
		Source:                 m.Source,
		PreviewURL:             m.PreviewURL,
		FullURL:                m.FullURL,
	}
}

func playlistToInternal(m PlaylistModel) *core.PlaylistInfo {
	info := &core.PlaylistInfo{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		Tracks:    make([]core.SavedTrack, 0, len(m.Tracks)),
	}
	for _, t := range m.Tracks {
		info.Tracks = append(info.Tracks, trackToInternal(t))
	}
	return info
}
