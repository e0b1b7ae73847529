package pdf

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/photolog/internal/layout"
	"github.com/gompdf/photolog/internal/pagination"
	"github.com/gompdf/photolog/internal/res"
	"github.com/gompdf/photolog/internal/text"
)

// Surface is the set of drawing operations the renderer needs. Coordinates
// are in points from the top left corner of the current page.
type Surface interface {
	layout.Metrics

	// SplitText wraps s into lines no wider than width in the current font
	SplitText(s string, width float64) []string
	// DrawText writes s with its baseline at y
	DrawText(x, y float64, s string)
	DrawImage(img *res.Image, x, y, w, h float64)
	DrawLine(x1, y1, x2, y2, width float64)

	AddPage()
	SetPage(n int)
	PageCount() int
	PageSize() (width, height float64)

	// Err reports the first error the surface ran into
	Err() error
}

// DocumentInfo is written into the document metadata
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// FpdfSurface draws onto an fpdf document
type FpdfSurface struct {
	doc    *fpdf.Fpdf
	family string
	width  float64
	height float64
	images map[string]bool
}

var _ Surface = (*FpdfSurface)(nil)

// NewSurface creates an empty document of the given page size. Core fonts
// are used, text is translated to Windows-1252 before it reaches them.
func NewSurface(size pagination.PageSize, family string, info DocumentInfo) *FpdfSurface {
	// fpdf takes the portrait size and swaps it for landscape pages
	orient, portrait := "P", fpdf.SizeType{Wd: size.Width, Ht: size.Height}
	if size.Width > size.Height {
		orient, portrait = "L", fpdf.SizeType{Wd: size.Height, Ht: size.Width}
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           portrait,
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(info.Title, true)
	doc.SetAuthor(info.Author, true)
	doc.SetSubject(info.Subject, true)
	doc.SetKeywords(info.Keywords, true)
	doc.SetCreator(info.Creator, true)
	doc.SetProducer(info.Producer, true)

	if family == "" {
		family = "Helvetica"
	}
	doc.SetFont(family, "", 10)

	w, h := doc.GetPageSize()
	return &FpdfSurface{
		doc:    doc,
		family: family,
		width:  w,
		height: h,
		images: make(map[string]bool),
	}
}

// NewMeasuringSurface creates a throwaway surface used only for text
// metrics and header measurement
func NewMeasuringSurface(size pagination.PageSize, family string) *FpdfSurface {
	s := NewSurface(size, family, DocumentInfo{})
	s.AddPage()
	return s
}

// SetFont selects the font style ("", "B", "I", "BI") and size
func (s *FpdfSurface) SetFont(style string, size float64) {
	s.doc.SetFont(s.family, style, size)
}

// MeasureText returns the width of str in the current font
func (s *FpdfSurface) MeasureText(str string) float64 {
	return s.doc.GetStringWidth(text.ToCP1252(str))
}

func (s *FpdfSurface) SplitText(str string, width float64) []string {
	return text.SplitTextToLines(str, width, s.MeasureText)
}

func (s *FpdfSurface) DrawText(x, y float64, str string) {
	if str == "" {
		return
	}
	s.doc.SetTextColor(0, 0, 0)
	s.doc.Text(x, y, text.ToCP1252(str))
}

// DrawImage places img scaled to w x h. Each distinct image is embedded once
// and referenced from every page it appears on.
func (s *FpdfSurface) DrawImage(img *res.Image, x, y, w, h float64) {
	if img == nil || !s.doc.Ok() {
		return
	}
	opts := fpdf.ImageOptions{ImageType: img.Type, ReadDpi: false}
	if !s.images[img.Key] {
		s.doc.RegisterImageOptionsReader(img.Key, opts, bytes.NewReader(img.Data))
		if !s.doc.Ok() {
			return
		}
		s.images[img.Key] = true
	}
	s.doc.ImageOptions(img.Key, x, y, w, h, false, opts, 0, "")
}

func (s *FpdfSurface) DrawLine(x1, y1, x2, y2, width float64) {
	s.doc.SetDrawColor(128, 128, 128)
	s.doc.SetLineWidth(width)
	s.doc.Line(x1, y1, x2, y2)
}

func (s *FpdfSurface) AddPage() {
	s.doc.AddPage()
}

func (s *FpdfSurface) SetPage(n int) {
	s.doc.SetPage(n)
}

func (s *FpdfSurface) PageCount() int {
	return s.doc.PageCount()
}

func (s *FpdfSurface) PageSize() (float64, float64) {
	return s.width, s.height
}

func (s *FpdfSurface) Err() error {
	return s.doc.Error()
}

// Output writes the finished document to w
func (s *FpdfSurface) Output(w io.Writer) error {
	if err := s.doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := s.doc.Output(w); err != nil {
		return fmt.Errorf("pdf output: %w", err)
	}
	return nil
}
