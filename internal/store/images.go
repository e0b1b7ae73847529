package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// imageNamespace derives image ids from content so identical photos are
// stored once
var imageNamespace = uuid.MustParse("6f1d3c2e-8a41-4c55-9f0b-2b7d2e4a9c11")

// PutImage stores data and returns its id
func (s *Store) PutImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image")
	}
	id := uuid.NewSHA1(imageNamespace, data).String()
	rec := imageRecord{ID: id, Data: data}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("unable to store image: %w", err)
	}
	return id, nil
}

// GetImage returns the payload of an image. Unknown ids yield ErrNotFound.
func (s *Store) GetImage(ctx context.Context, id string) ([]byte, error) {
	var rec imageRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "image", id)
	}
	return rec.Data, nil
}

// DeleteImage removes an image and every reference to it
func (s *Store) DeleteImage(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&imageRecord{})
		if res.Error != nil {
			return fmt.Errorf("image %q: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("image %q: %w", id, ErrNotFound)
		}
		return tx.Where("image_id = ?", id).Delete(&imageReference{}).Error
	})
}

// HasImage reports whether an image is stored
func (s *Store) HasImage(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&imageRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("image %q: %w", id, err)
	}
	return count > 0, nil
}
