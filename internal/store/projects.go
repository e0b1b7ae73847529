package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gompdf/photolog/internal/model"
)

// Put saves p and marks it as the most recent project. A missing id is
// generated. Projects beyond capacity are evicted, oldest first.
func (s *Store) Put(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now().UTC()

	var evicted []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var touched int64
		if err := tx.Model(&projectRecord{}).Select("COALESCE(MAX(touched), 0)").Scan(&touched).Error; err != nil {
			return err
		}

		var previous []string
		if err := tx.Model(&imageReference{}).Where("project_id = ?", p.ID).Pluck("image_id", &previous).Error; err != nil {
			return err
		}

		rec := projectRecord{
			ID:        p.ID,
			Name:      p.Name,
			Report:    p.Report,
			Touched:   touched + 1,
			UpdatedAt: p.UpdatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rec).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", p.ID).Delete(&imageReference{}).Error; err != nil {
			return err
		}
		ids := p.ImageIDs()
		if len(ids) > 0 {
			refs := make([]imageReference, 0, len(ids))
			for _, id := range ids {
				refs = append(refs, imageReference{ProjectID: p.ID, ImageID: id})
			}
			if err := tx.Create(&refs).Error; err != nil {
				return err
			}
		}
		// images this project no longer uses may now be orphaned
		if err := deleteUnreferenced(tx, previous); err != nil {
			return err
		}

		for {
			var count int64
			if err := tx.Model(&projectRecord{}).Count(&count).Error; err != nil {
				return err
			}
			if count <= int64(s.capacity) {
				return nil
			}
			id, err := evictOldest(tx)
			if err != nil {
				return err
			}
			evicted = append(evicted, id)
		}
	})
	if err != nil {
		return fmt.Errorf("unable to save project %q: %w", p.ID, err)
	}

	for _, id := range evicted {
		s.log.Info("Project evicted", zap.String("id", id), zap.Int("capacity", s.capacity))
	}
	return nil
}

// Get loads a project by id
func (s *Store) Get(ctx context.Context, id string) (*model.Project, error) {
	var rec projectRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	p := rec.project()
	return &p, nil
}

// Delete removes a project together with the images only it referenced
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProject(tx, id)
	})
}

// List returns every stored project, most recently saved first
func (s *Store) List(ctx context.Context) ([]model.Project, error) {
	var recs []projectRecord
	if err := s.db.WithContext(ctx).Order("touched desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("unable to list projects: %w", err)
	}
	projects := make([]model.Project, 0, len(recs))
	for i := range recs {
		projects = append(projects, recs[i].project())
	}
	return projects, nil
}

// EvictOldest removes the least recently saved project
func (s *Store) EvictOldest(ctx context.Context) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = evictOldest(tx)
		return err
	})
	if err != nil {
		return "", err
	}
	s.log.Info("Project evicted", zap.String("id", id))
	return id, nil
}

func evictOldest(tx *gorm.DB) (string, error) {
	var rec projectRecord
	if err := tx.Select("id").Order("touched asc").First(&rec).Error; err != nil {
		return "", notFound(err, "project", "oldest")
	}
	return rec.ID, deleteProject(tx, rec.ID)
}

func deleteProject(tx *gorm.DB, id string) error {
	var ids []string
	if err := tx.Model(&imageReference{}).Where("project_id = ?", id).Pluck("image_id", &ids).Error; err != nil {
		return err
	}

	res := tx.Where("id = ?", id).Delete(&projectRecord{})
	if res.Error != nil {
		return fmt.Errorf("project %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if err := tx.Where("project_id = ?", id).Delete(&imageReference{}).Error; err != nil {
		return err
	}
	return deleteUnreferenced(tx, ids)
}

// deleteUnreferenced removes those of ids that no project references anymore
func deleteUnreferenced(tx *gorm.DB, ids []string) error {
	var errs error
	for _, id := range ids {
		var refs int64
		if err := tx.Model(&imageReference{}).Where("image_id = ?", id).Count(&refs).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("image %q: %w", id, err))
			continue
		}
		if refs > 0 {
			continue
		}
		if err := tx.Where("id = ?", id).Delete(&imageRecord{}).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("image %q: %w", id, err))
		}
	}
	return errs
}
