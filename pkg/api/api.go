package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/gompdf/photolog/internal/layout"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/pagination"
	"github.com/gompdf/photolog/internal/render/pdf"
	"github.com/gompdf/photolog/internal/res"
)

// Document describes the layout of an exported report
type Document struct {
	PageCount int
	// Groups holds the entry indices of every content page
	Groups []pagination.PageGroup
	// Gaps holds the allocated spacing of every content page
	Gaps [][]float64
	// Sizes are the resolved entry heights
	Sizes layout.SizeVector
}

// Exporter is the main API for turning photo log reports into PDF documents.
// Exports on one Exporter run one at a time.
type Exporter struct {
	mu      sync.Mutex
	options Options
	loader  *res.Loader
	log     *zap.Logger
}

// New creates a new exporter with default options. assets resolves entry
// images stored by id and may be nil.
func New(assets res.AssetGetter, opts ...Option) *Exporter {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options, assets)
}

// NewWithOptions creates a new exporter with the specified options
func NewWithOptions(options Options, assets res.AssetGetter) *Exporter {
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loader := res.NewLoader(options.BaseURL, assets, log)
	for _, path := range options.ResourcePaths {
		loader.AddSearchPath(path)
	}
	return &Exporter{
		options: options,
		loader:  loader,
		log:     log.Named("export"),
	}
}

// Options returns the exporter options
func (x *Exporter) Options() Options {
	return x.options
}

// Export lays out report and writes the PDF to w. Nothing is written when
// an error is returned.
func (x *Exporter) Export(ctx context.Context, report *model.Report, w io.Writer) (*Document, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var buf bytes.Buffer
	doc, err := x.export(ctx, report, &buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return doc, nil
}

// ExportBytes lays out report and returns the PDF bytes
func (x *Exporter) ExportBytes(ctx context.Context, report *model.Report) ([]byte, *Document, error) {
	var buf bytes.Buffer
	doc, err := x.Export(ctx, report, &buf)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), doc, nil
}

// ExportFile lays out report and writes the PDF to outputPath
func (x *Exporter) ExportFile(ctx context.Context, report *model.Report, outputPath string) (*Document, error) {
	data, doc, err := x.ExportBytes(ctx, report)
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return doc, nil
}

func (x *Exporter) export(ctx context.Context, report *model.Report, out io.Writer) (*Document, error) {
	if report == nil {
		return nil, errors.New("no report")
	}
	style := x.options.Style
	if err := style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}

	engine := pagination.NewEngine()
	engine.SetOptions(x.options.paginationOptions())
	pageSize := engine.Options().PageSize

	// Entries are numbered from their position regardless of stored labels
	entries := slices.Clone(report.Entries)
	entries.Renumber()

	branding := pdf.Branding{Title: x.options.Title}
	if !x.options.Logo.IsZero() {
		logo, err := x.loader.Resolve(ctx, x.options.Logo)
		switch {
		case err == nil:
			branding.Logo = logo
		case errors.Is(err, res.ErrNoImage):
		default:
			x.log.Warn("Logo skipped", zap.Error(err))
		}
	}
	renderer := pdf.NewRenderer(&style, engine.Options(), branding, x.log)

	// Pass 1: measure on a throwaway surface and plan the pages
	measuring := pdf.NewMeasuringSurface(pageSize, style.FontFamily)
	measurer := layout.NewMeasurer(measuring, &style, renderer.Columns(), x.loader, x.log)
	measurer.Concurrency = x.options.Concurrency
	ms, sizes, err := measurer.MeasureAll(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to measure entries: %w", err)
	}

	contentTop := renderer.HeaderHeight(measuring, &report.Header)
	if budget := engine.ContentBudget(contentTop); budget <= 0 {
		return nil, fmt.Errorf("header and footer leave no room for entries (%.1fpt)", budget)
	}
	pages := engine.Paginate(sizes, contentTop)

	// Pass 2: draw every planned page on the output surface
	surface := pdf.NewSurface(pageSize, style.FontFamily, pdf.DocumentInfo{
		Title:    x.options.Title,
		Author:   x.options.Author,
		Subject:  x.options.Subject,
		Keywords: x.options.Keywords,
		Creator:  x.options.Creator,
		Producer: "photolog",
	})

	doc := &Document{
		Groups: make([]pagination.PageGroup, 0, len(pages)),
		Gaps:   make([][]float64, 0, len(pages)),
		Sizes:  sizes,
	}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := renderer.DrawPage(surface, &report.Header, page, entries, ms); err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", page.Number, err)
		}
		doc.Groups = append(doc.Groups, page.Group)
		doc.Gaps = append(doc.Gaps, page.Gaps)
	}
	if len(pages) == 0 {
		if err := renderer.DrawBlankPage(surface, &report.Header); err != nil {
			return nil, fmt.Errorf("failed to render page: %w", err)
		}
	}
	renderer.DrawPageNumbers(surface)
	doc.PageCount = surface.PageCount()

	if err := surface.Output(out); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	x.log.Info("Report exported",
		zap.Int("entries", len(entries)),
		zap.Int("pages", doc.PageCount))
	return doc, nil
}
