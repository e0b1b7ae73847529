package store

import (
	"time"

	"github.com/gompdf/photolog/internal/model"
)

type projectRecord struct {
	ID     string       `gorm:"primaryKey;size:36"`
	Name   string       `gorm:"size:255;not null;default:''"`
	Report model.Report `gorm:"serializer:json;type:text"`
	// Touched orders projects by recency, timestamps alone can tie
	Touched   int64     `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (projectRecord) TableName() string { return "projects" }

func (r *projectRecord) project() model.Project {
	return model.Project{
		ID:        r.ID,
		Name:      r.Name,
		Report:    r.Report,
		UpdatedAt: r.UpdatedAt,
	}
}

type imageRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Data      []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (imageRecord) TableName() string { return "images" }

// imageReference links a project to an image it uses
type imageReference struct {
	ProjectID string `gorm:"primaryKey;size:36"`
	ImageID   string `gorm:"primaryKey;size:36;index"`
}

func (imageReference) TableName() string { return "image_references" }
