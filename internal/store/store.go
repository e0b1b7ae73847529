// Package store keeps recently edited photo log projects and the images
// they reference in a local sqlite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/glebarez/sqlite"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gompdf/photolog/internal/model"
)

// DefaultCapacity is the number of projects kept before the least recently
// saved ones are evicted
const DefaultCapacity = 50

// ErrNotFound is returned for unknown projects and images. It matches
// fs.ErrNotExist so image loaders treat a missing asset as no image.
var ErrNotFound = fmt.Errorf("store: %w", fs.ErrNotExist)

// Repository manages projects ordered by recency
type Repository interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id string) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	// List returns projects, most recently saved first
	List(ctx context.Context) ([]model.Project, error)
	// EvictOldest removes the least recently saved project and returns its id
	EvictOldest(ctx context.Context) (string, error)
}

// AssetStore manages image payloads referenced by projects
type AssetStore interface {
	PutImage(ctx context.Context, data []byte) (string, error)
	GetImage(ctx context.Context, id string) ([]byte, error)
	DeleteImage(ctx context.Context, id string) error
	HasImage(ctx context.Context, id string) (bool, error)
}

// Store implements Repository and AssetStore on gorm
type Store struct {
	db       *gorm.DB
	capacity int
	log      *zap.Logger
}

var (
	_ Repository = (*Store)(nil)
	_ AssetStore = (*Store)(nil)
)

// Open opens or creates the sqlite database at path and migrates it
func Open(ctx context.Context, path string, capacity int, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open store %q: %w", path, err)
	}
	s := New(db, capacity, log)
	if err := s.Init(ctx); err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	return s, nil
}

// New wraps an open database. capacity below 1 means DefaultCapacity.
func New(db *gorm.DB, capacity int, log *zap.Logger) *Store {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, capacity: capacity, log: log.Named("store")}
}

// Init creates the tables
func (s *Store) Init(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&projectRecord{}, &imageRecord{}, &imageReference{}); err != nil {
		return fmt.Errorf("unable to migrate store: %w", err)
	}
	return nil
}

// Capacity returns the number of projects kept
func (s *Store) Capacity() int {
	return s.capacity
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w", what, id, err)
}
