package pdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gompdf/photolog/internal/layout"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/pagination"
	"github.com/gompdf/photolog/internal/res"
)

const (
	ruleWidth      = 0.8
	separatorWidth = 0.5
)

// Branding is the fixed part of the running header
type Branding struct {
	Title string
	Logo  *res.Image
}

// Renderer draws report pages onto a Surface
type Renderer struct {
	style    *layout.Style
	options  pagination.Options
	branding Branding
	log      *zap.Logger
}

// NewRenderer creates a renderer for pages laid out with the given options
func NewRenderer(style *layout.Style, options pagination.Options, branding Branding, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		style:    style,
		options:  options,
		branding: branding,
		log:      log,
	}
}

func (r *Renderer) left() float64 { return r.options.Margins.Left }

func (r *Renderer) contentWidth() float64 {
	return r.options.PageSize.Width - r.options.Margins.Left - r.options.Margins.Right
}

func (r *Renderer) footerTop() float64 {
	return r.options.PageSize.Height - r.options.Margins.Bottom - r.options.FooterHeight
}

// Columns is the entry geometry of the content area
func (r *Renderer) Columns() layout.Columns {
	return r.style.Columns(r.left(), r.contentWidth())
}

// baseline positions text of size fs vertically centered in a line box of
// height lh starting at top
func baseline(top, lh, fs float64) float64 {
	return top + (lh-fs)/2 + 0.8*fs
}

// HeaderHeight lays the header out on m without drawing and returns the y
// coordinate where page content starts
func (r *Renderer) HeaderHeight(m layout.Metrics, h *model.HeaderRecord) float64 {
	_, bottom := r.layoutHeader(m, h)
	return bottom
}

type headerLayout struct {
	logoWidth   float64
	brandHeight float64
	rowsTop     float64
	rows        []layout.HeaderRow
	ruleY       float64
}

func (r *Renderer) layoutHeader(m layout.Metrics, h *model.HeaderRecord) (headerLayout, float64) {
	st := r.style
	var hl headerLayout

	if r.branding.Logo != nil {
		hl.logoWidth = r.branding.Logo.WidthAt(st.LogoHeight)
		hl.brandHeight = st.LogoHeight
	}
	if r.branding.Title != "" {
		hl.brandHeight = max(hl.brandHeight, st.TitleFontSize*st.LineSpacing)
	}

	y := r.options.Margins.Top
	if hl.brandHeight > 0 {
		y += hl.brandHeight + st.HeaderRowGap
	}

	hl.rowsTop = y
	hl.rows = layout.LayoutHeaderRows(m, st, h, r.contentWidth())
	for i, row := range hl.rows {
		if i > 0 {
			y += st.HeaderRowGap
		}
		y += row.Height
	}

	y += st.HeaderRuleGap
	hl.ruleY = y
	y += st.HeaderRuleGap
	return hl, y
}

// DrawHeader draws the running header on the current page and returns the
// y coordinate where page content starts
func (r *Renderer) DrawHeader(s Surface, h *model.HeaderRecord) float64 {
	st := r.style
	hl, bottom := r.layoutHeader(s, h)
	left, top := r.left(), r.options.Margins.Top

	if r.branding.Logo != nil {
		s.DrawImage(r.branding.Logo, left, top, hl.logoWidth, st.LogoHeight)
	}
	if r.branding.Title != "" {
		x := left
		if hl.logoWidth > 0 {
			x += hl.logoWidth + st.HeaderColumnGap
		}
		s.SetFont("B", st.TitleFontSize)
		s.DrawText(x, baseline(top, hl.brandHeight, st.TitleFontSize), r.branding.Title)
	}

	colWidth := (r.contentWidth() - st.HeaderColumnGap) / 2
	y := hl.rowsTop
	for i, row := range hl.rows {
		if i > 0 {
			y += st.HeaderRowGap
		}
		r.drawField(s, row.Left, left, y)
		if row.Right.Label != "" {
			r.drawField(s, row.Right, left+colWidth+st.HeaderColumnGap, y)
		}
		y += row.Height
	}

	s.DrawLine(left, hl.ruleY, left+r.contentWidth(), hl.ruleY, ruleWidth)
	return bottom
}

func (r *Renderer) drawField(s Surface, fb layout.FieldBox, x, y float64) {
	st := r.style
	labelH := st.LabelLineHeight()
	valueH := st.ValueLineHeight()

	s.SetFont("B", st.LabelFontSize)
	s.DrawText(x, baseline(y, labelH, st.LabelFontSize), fb.Label)

	vx, vy := x+fb.LabelWidth+st.LabelGap, y
	if fb.Block {
		vx, vy = x, y+labelH
	}
	s.SetFont("", st.ValueFontSize)
	for i, line := range fb.Lines {
		s.DrawText(vx, baseline(vy+float64(i)*valueH, valueH, st.ValueFontSize), line)
	}
}

// DrawEntry draws one entry with its top at y and returns the height it
// occupied. The image is shrunk to maxHeight when it would not fit.
func (r *Renderer) DrawEntry(s Surface, e *model.Entry, ms layout.Measurement, y, maxHeight float64) float64 {
	cols := r.Columns()

	fy := y
	for i, fb := range ms.Fields {
		if i > 0 {
			fy += r.style.FieldGap
		}
		r.drawField(s, fb, cols.TextX, fy)
		fy += fb.Height
	}

	imageHeight := ms.ImageHeight
	if ms.Image != nil && imageHeight > 0 {
		w, h := cols.ImageWidth, imageHeight
		if maxHeight > 0 && h > maxHeight {
			h = maxHeight
			w = ms.Image.WidthAt(h)
			r.log.Warn("Image shrunk to fit page",
				zap.Int64("entry", e.ID),
				zap.String("sequence", e.SequenceLabel),
				zap.Float64("height", imageHeight),
				zap.Float64("available", maxHeight))
		}
		s.DrawImage(ms.Image, cols.ImageX+(cols.ImageWidth-w)/2, y, w, h)
		imageHeight = h
	}
	return layout.Resolve(ms.TextHeight, imageHeight)
}

// DrawEntries draws the entries of page below contentTop. Each entry is
// framed by its two allocated gaps and followed by a separator, except the
// last of several. A lone entry always gets its closing separator.
func (r *Renderer) DrawEntries(s Surface, page pagination.Page, entries model.Entries, ms []layout.Measurement, contentTop float64) error {
	sep := r.options.SeparatorHeight
	left, right := r.left(), r.left()+r.contentWidth()
	n := len(page.Group)
	if len(page.Gaps) < 2*n {
		return fmt.Errorf("page %d: %d gaps for %d entries", page.Number, len(page.Gaps), n)
	}

	y := contentTop
	for i, idx := range page.Group {
		if idx < 0 || idx >= len(entries) || idx >= len(ms) {
			return fmt.Errorf("page %d: entry index %d out of range", page.Number, idx)
		}
		y += page.Gaps[2*i]
		maxHeight := r.footerTop() - y - page.Gaps[2*i+1] - sep
		y += r.DrawEntry(s, &entries[idx], ms[idx], y, maxHeight)
		y += page.Gaps[2*i+1]

		if i < n-1 || n == 1 {
			s.DrawLine(left, y+sep/2, right, y+sep/2, separatorWidth)
			y += sep
		}
	}
	return nil
}

// DrawFooter draws the footer rule on the current page
func (r *Renderer) DrawFooter(s Surface) {
	y := r.footerTop()
	s.DrawLine(r.left(), y, r.left()+r.contentWidth(), y, ruleWidth)
}

// DrawPage adds a page and draws the header, the entries of page and the footer
func (r *Renderer) DrawPage(s Surface, h *model.HeaderRecord, page pagination.Page, entries model.Entries, ms []layout.Measurement) error {
	s.AddPage()
	contentTop := r.DrawHeader(s, h)
	if err := r.DrawEntries(s, page, entries, ms, contentTop); err != nil {
		return err
	}
	r.DrawFooter(s)
	return s.Err()
}

// DrawBlankPage adds a page holding only the header and the footer
func (r *Renderer) DrawBlankPage(s Surface, h *model.HeaderRecord) error {
	s.AddPage()
	r.DrawHeader(s, h)
	r.DrawFooter(s)
	return s.Err()
}

// DrawPageNumbers stamps "Page i of N" centered in the footer of every page.
// It must run after all pages exist.
func (r *Renderer) DrawPageNumbers(s Surface) {
	total := s.PageCount()
	fs := r.style.ValueFontSize
	top := r.footerTop()
	for i := 1; i <= total; i++ {
		s.SetPage(i)
		label := fmt.Sprintf("Page %d of %d", i, total)
		s.SetFont("", fs)
		x := r.left() + (r.contentWidth()-s.MeasureText(label))/2
		s.DrawText(x, baseline(top, r.options.FooterHeight, fs), label)
	}
}
