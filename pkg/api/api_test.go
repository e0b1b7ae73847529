package api

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/pagination"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		img.Set(w/2, y, color.NRGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testReport(n int) *model.Report {
	r := &model.Report{Header: model.HeaderRecord{
		Proponent:     "Northwind Energy",
		ProjectName:   "Substation upgrade",
		Location:      "Lot 12",
		Date:          "2024-05-01",
		ProjectNumber: "NW-2291",
	}}
	for i := 0; i < n; i++ {
		r.Entries.Append(model.Entry{
			Date:        "2024-05-01",
			Location:    "North fence",
			Direction:   "NE",
			Description: "Existing transformer pad, looking north east.",
		})
	}
	return r
}

func newTestExporter(t *testing.T, opts ...Option) *Exporter {
	return New(nil, append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func TestExportEmptyReportHasOnePage(t *testing.T) {
	var buf bytes.Buffer
	doc, err := newTestExporter(t).Export(context.Background(), testReport(0), &buf)
	require.NoError(t, err)
	assert.Empty(t, doc.Groups)
	assert.Equal(t, 1, doc.PageCount)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportPairsTextEntries(t *testing.T) {
	data, doc, err := newTestExporter(t).ExportBytes(context.Background(), testReport(5))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, []pagination.PageGroup{{0, 1}, {2, 3}, {4}}, doc.Groups)
	assert.Equal(t, 3, doc.PageCount)
	require.Len(t, doc.Gaps, 3)
	assert.Len(t, doc.Gaps[0], 4)
	assert.Len(t, doc.Gaps[2], 4)
	require.Len(t, doc.Sizes, 5)
	for _, h := range doc.Sizes {
		assert.Greater(t, h, 0.0)
	}
}

func TestExportBrokenImageFallsBackToText(t *testing.T) {
	report := testReport(2)
	report.Entries[1].Image = model.ImageRef{Data: []byte("definitely not a photo")}

	_, doc, err := newTestExporter(t).ExportBytes(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, doc.Sizes[0], doc.Sizes[1])
}

func TestExportTallImageGetsOwnPage(t *testing.T) {
	report := testReport(3)
	report.Entries[1].Image = model.ImageRef{Data: pngOf(t, 20, 400)}

	_, doc, err := newTestExporter(t).ExportBytes(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, []pagination.PageGroup{{0}, {1}, {2}}, doc.Groups)
	assert.Greater(t, doc.Sizes[1], doc.Sizes[0])
}

func TestExportWithLogoAndLandscape(t *testing.T) {
	x := newTestExporter(t,
		WithLogo(model.ImageRef{Data: pngOf(t, 60, 20)}),
		WithPageSizeLetter(),
		WithPageOrientation(PageOrientationLandscape),
		WithTitle("Site Photos"),
	)
	report := testReport(1)
	report.Entries[0].Image = model.ImageRef{Data: pngOf(t, 40, 30)}

	_, doc, err := x.ExportBytes(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount)
}

func TestExportInvalidStyleWritesNothing(t *testing.T) {
	x := newTestExporter(t)
	x.options.Style.Fields = nil

	var buf bytes.Buffer
	_, err := x.Export(context.Background(), testReport(2), &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestExportHeaderTooTall(t *testing.T) {
	x := newTestExporter(t, WithMargins(400, 36, 400, 36))
	_, err := x.Export(context.Background(), testReport(1), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	_, err := newTestExporter(t).Export(ctx, testReport(3), &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestExportFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "log.pdf")
	doc, err := newTestExporter(t).ExportFile(context.Background(), testReport(2), out)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportConcurrentCallsAreDeterministic(t *testing.T) {
	x := newTestExporter(t)
	report := testReport(7)

	var wg sync.WaitGroup
	docs := make([]*Document, 4)
	errs := make([]error, 4)
	for i := range docs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, docs[i], errs[i] = x.ExportBytes(context.Background(), report)
		}(i)
	}
	wg.Wait()

	for i := range docs {
		require.NoError(t, errs[i])
		assert.Equal(t, docs[0].Groups, docs[i].Groups)
		assert.Equal(t, docs[0].Sizes, docs[i].Sizes)
	}
}

func TestExportDoesNotMutateReport(t *testing.T) {
	report := testReport(2)
	report.Entries[0].SequenceLabel = "A"
	_, _, err := newTestExporter(t).ExportBytes(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "A", report.Entries[0].SequenceLabel)
}
