package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/vibestream/vibestream/core"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Repository provides access to the local library database.
// It implements core.LibraryRepository.
type Repository struct {
	db *gorm.DB
}

// NewSQLiteRepository creates a repository backed by SQLite.
func NewSQLiteRepository(dsn string, gormLogger logger.Interface) (*Repository, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn required")
	}

	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	dbDir := filepath.Dir(dsn)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if err := applySQLitePragmas(db); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&PlaylistModel{}, &PlaylistTrackModel{}, &LikedTrackModel{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Repository{db: db}, nil
}

func applySQLitePragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// ConfigurePool updates the database connection pool settings.
func (r *Repository) ConfigurePool(maxOpen, maxIdle int, maxLifetime time.Duration) error {
	if r == nil || r.db == nil {
		return errors.New("repository not configured")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	if maxOpen >= 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime >= 0 {
		sqlDB.SetConnMaxLifetime(maxLifetime)
	}
	return nil
}

// CreatePlaylist creates an empty playlist.
func (r *Repository) CreatePlaylist(ctx context.Context, name string) (*core.PlaylistInfo, error) {
	if name == "" {
		return nil, errors.New("playlist name required")
	}
	model := PlaylistModel{Name: name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, err
	}
	return playlistToInternal(model), nil
}

// DeletePlaylist removes a playlist and its tracks.
func (r *Repository) DeletePlaylist(ctx context.Context, playlistID uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("playlist_id = ?", playlistID).Delete(&PlaylistTrackModel{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&PlaylistModel{}, playlistID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPlaylist loads a playlist with its tracks in insertion order.
func (r *Repository) GetPlaylist(ctx context.Context, playlistID uint) (*core.PlaylistInfo, error) {
	var model PlaylistModel
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, playlistID).Error
	if err != nil {
		return nil, err
	}
	return playlistToInternal(model), nil
}

// ListPlaylists returns all playlists with their tracks.
func (r *Repository) ListPlaylists(ctx context.Context) ([]core.PlaylistInfo, error) {
	var models []PlaylistModel
	err := r.db.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	playlists := make([]core.PlaylistInfo, 0, len(models))
	for _, m := range models {
		playlists = append(playlists, *playlistToInternal(m))
	}
	return playlists, nil
}

// AddTrack appends a track to a playlist. Re-adding a track that is
// already present is a no-op: the existing entry keeps its position.
func (r *Repository) AddTrack(ctx context.Context, playlistID uint, track core.SavedTrack) error {
	if track.TrackID == "" {
		return errors.New("track id required")
	}
	tx := r.db.WithContext(ctx)

	var playlist PlaylistModel
	if err := tx.First(&playlist, playlistID).Error; err != nil {
		return err
	}

	var existing int64
	if err := tx.Model(&PlaylistTrackModel{}).
		Where("playlist_id = ? AND track_id = ?", playlistID, track.TrackID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var maxPosition int
	row := tx.Model(&PlaylistTrackModel{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), 0)").
		Row()
	if err := row.Scan(&maxPosition); err != nil {
		return err
	}

	model := PlaylistTrackModel{
		PlaylistID:             playlistID,
		TrackID:                track.TrackID,
		Position:               maxPosition + 1,
		Title:                  track.Title,
		Artist:                 track.Artist,
		Album:                  track.Album,
		DurationSeconds:        track.DurationSeconds,
		PreviewDurationSeconds: track.PreviewDurationSeconds,
		ArtworkURL:             track.ArtworkURL,
		Source:                 track.Source,
		PreviewURL:             track.PreviewURL,
		FullURL:                track.FullURL,
	}
	return tx.Create(&model).Error
}

// RemoveTrack removes a track from a playlist by its prefixed ID.
func (r *Repository) RemoveTrack(ctx context.Context, playlistID uint, trackID string) error {
	return r.db.WithContext(ctx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&PlaylistTrackModel{}).Error
}

// LikeTrack marks a track as liked. Liking twice is a no-op.
func (r *Repository) LikeTrack(ctx context.Context, track core.SavedTrack) error {
	if track.TrackID == "" {
		return errors.New("track id required")
	}
	tx := r.db.WithContext(ctx)

	var existing int64
	if err := tx.Model(&LikedTrackModel{}).
		Where("track_id = ?", track.TrackID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	model := LikedTrackModel{
		TrackID:                track.TrackID,
		Title:                  track.Title,
		Artist:                 track.Artist,
		Album:                  track.Album,
		DurationSeconds:        track.DurationSeconds,
		PreviewDurationSeconds: track.PreviewDurationSeconds,
		ArtworkURL:             track.ArtworkURL,
		Source:                 track.Source,
		PreviewURL:             track.PreviewURL,
		FullURL:                track.FullURL,
	}
	return tx.Create(&model).Error
}

// UnlikeTrack removes a liked song.
func (r *Repository) UnlikeTrack(ctx context.Context, trackID string) error {
	return r.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Delete(&LikedTrackModel{}).Error
}

// IsLiked reports whether the track is in the liked songs list.
func (r *Repository) IsLiked(ctx context.Context, trackID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LikedTrackModel{}).
		Where("track_id = ?", trackID).
		Count(&count).Error
	return count > 0, err
}

// ListLiked returns all liked songs, most recently liked first.
func (r *Repository) ListLiked(ctx context.Context) ([]core.SavedTrack, error) {
	var models []LikedTrackModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	tracks := make([]core.SavedTrack, 0, len(models))
	for _, m := range models {
		tracks = append(tracks, likedToInternal(m))
	}
	return tracks, nil
}
