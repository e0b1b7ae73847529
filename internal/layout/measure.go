package layout

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/res"
)

// ImageResolver loads the image an entry references
type ImageResolver interface {
	Resolve(ctx context.Context, ref model.ImageRef) (*res.Image, error)
}

// Measurement is the vertical footprint of one entry
type Measurement struct {
	TextHeight  float64
	ImageHeight float64
	Fields      []FieldBox
	Image       *res.Image
}

// Height is the resolved entry height
func (m Measurement) Height() float64 {
	return Resolve(m.TextHeight, m.ImageHeight)
}

// Resolve combines the two column heights of an entry. Text and image sit
// side by side, so the taller column wins.
func Resolve(textHeight, imageHeight float64) float64 {
	return max(textHeight, imageHeight)
}

// SizeVector holds resolved entry heights aligned by index with the entry list
type SizeVector []float64

// Measurer measures entries against a text metrics provider. Text metrics
// are not assumed to be safe for concurrent use and are serialized; image
// probing runs in parallel.
type Measurer struct {
	style   *Style
	columns Columns
	images  ImageResolver
	log     *zap.Logger

	mu      sync.Mutex
	metrics Metrics

	// Concurrency bounds parallel image probes, 0 means GOMAXPROCS
	Concurrency int
}

// NewMeasurer creates a measurer for entries laid out in columns
func NewMeasurer(metrics Metrics, style *Style, columns Columns, images ImageResolver, log *zap.Logger) *Measurer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Measurer{
		style:   style,
		columns: columns,
		images:  images,
		log:     log,
		metrics: metrics,
	}
}

// MeasureEntry computes the text and image heights of e. A failed image probe
// is not fatal: the measurement is still returned with zero image height
// together with the probe error so the caller can report it. An entry without
// an image yields res.ErrNoImage.
func (m *Measurer) MeasureEntry(ctx context.Context, e *model.Entry) (Measurement, error) {
	var (
		ms       Measurement
		probeErr error
	)
	if m.images != nil {
		img, err := m.images.Resolve(ctx, e.Image)
		if err != nil {
			probeErr = err
		} else {
			ms.Image = img
			ms.ImageHeight = img.HeightAt(m.columns.ImageWidth)
		}
	} else {
		probeErr = res.ErrNoImage
	}

	m.mu.Lock()
	ms.Fields, ms.TextHeight = LayoutFields(m.metrics, m.style, e, m.columns.TextWidth)
	m.mu.Unlock()

	return ms, probeErr
}

// MeasureAll measures every entry concurrently and returns the measurements
// and the size vector, both aligned with entries. Probe failures are logged
// and degrade to zero image height. Only context cancellation is returned.
func (m *Measurer) MeasureAll(ctx context.Context, entries model.Entries) ([]Measurement, SizeVector, error) {
	results := make([]Measurement, len(entries))

	limit := m.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range entries {
		g.Go(func() error {
			ms, err := m.MeasureEntry(gctx, &entries[i])
			if err := gctx.Err(); err != nil {
				return err
			}
			if err != nil && !errors.Is(err, res.ErrNoImage) {
				m.log.Warn("Unable to probe entry image, measuring text only",
					zap.Int64("entry", entries[i].ID),
					zap.String("sequence", entries[i].SequenceLabel),
					zap.Error(err))
			}
			results[i] = ms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sizes := make(SizeVector, len(results))
	for i, ms := range results {
		sizes[i] = ms.Height()
	}
	return results, sizes, nil
}
