package model

import (
	"sync/atomic"
	"time"
)

// HeaderRecord holds the report metadata shown in the running header
type HeaderRecord struct {
	Proponent     string `yaml:"proponent" json:"proponent"`
	ProjectName   string `yaml:"project_name" json:"project_name"`
	Location      string `yaml:"location" json:"location"`
	Date          string `yaml:"date" json:"date"`
	ProjectNumber string `yaml:"project_number" json:"project_number"`
}

// ImageRef points at the photo of an entry. At most one source is used, in
// order of precedence: Data, URL (data: or file path), AssetID.
type ImageRef struct {
	Data    []byte `yaml:"-" json:"data,omitempty"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
	AssetID string `yaml:"asset_id,omitempty" json:"asset_id,omitempty"`
}

// IsZero reports whether the reference carries no image at all
func (r ImageRef) IsZero() bool {
	return len(r.Data) == 0 && r.URL == "" && r.AssetID == ""
}

// Key returns a stable identifier used for caching the resolved image
func (r ImageRef) Key() string {
	switch {
	case r.AssetID != "":
		return "asset:" + r.AssetID
	case r.URL != "":
		return "url:" + r.URL
	}
	return ""
}

// Entry is a single photo record of a report
type Entry struct {
	ID            int64    `yaml:"-" json:"id"`
	SequenceLabel string   `yaml:"-" json:"sequence_label"`
	Date          string   `yaml:"date" json:"date"`
	Location      string   `yaml:"location" json:"location"`
	Description   string   `yaml:"description" json:"description"`
	Direction     string   `yaml:"direction" json:"direction"`
	Image         ImageRef `yaml:"image" json:"image"`
}

// Report is the input of the pagination engine
type Report struct {
	Header  HeaderRecord `yaml:"header" json:"header"`
	Entries Entries      `yaml:"entries" json:"entries"`
}

// Project is a report as kept in the local store
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Report    Report    `json:"report"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageIDs returns the distinct asset identifiers referenced by the project,
// in entry order
func (p *Project) ImageIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range p.Report.Entries {
		id := e.Image.AssetID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

var lastID atomic.Int64

// NextID returns a process unique entry identifier
func NextID() int64 {
	return lastID.Add(1)
}
