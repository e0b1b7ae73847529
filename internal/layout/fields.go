package layout

import (
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/text"
)

// FieldBox is a measured label/value pair
type FieldBox struct {
	Label      string
	LabelWidth float64
	Lines      []string
	Block      bool
	Height     float64
}

// LayoutField wraps value next to (or, for block fields, below) its label
// within width and computes the resulting height
func LayoutField(m Metrics, st *Style, label, value string, block bool, width float64) FieldBox {
	m.SetFont("B", st.LabelFontSize)
	fb := FieldBox{
		Label:      label,
		LabelWidth: m.MeasureText(label),
		Block:      block,
	}

	valueWidth := width
	if !block {
		valueWidth = width - fb.LabelWidth - st.LabelGap
	}
	m.SetFont("", st.ValueFontSize)
	fb.Lines = text.SplitTextToLines(value, valueWidth, m.MeasureText)

	valueHeight := float64(len(fb.Lines)) * st.ValueLineHeight()
	if block {
		fb.Height = st.LabelLineHeight() + valueHeight
	} else {
		fb.Height = max(st.LabelLineHeight(), valueHeight)
	}
	return fb
}

// LayoutFields lays out every configured field of e in a column of the given
// width. The returned height includes the gaps between fields but not after
// the last one.
func LayoutFields(m Metrics, st *Style, e *model.Entry, width float64) ([]FieldBox, float64) {
	boxes := make([]FieldBox, 0, len(st.Fields))
	total := 0.0
	for i, f := range st.Fields {
		fb := LayoutField(m, st, f.Label, f.Key.Value(e), f.Block, width)
		boxes = append(boxes, fb)
		total += fb.Height
		if i > 0 {
			total += st.FieldGap
		}
	}
	return boxes, total
}

// HeaderRow is one row of the two-column header metadata block
type HeaderRow struct {
	Left, Right FieldBox
	Height      float64
}

// LayoutHeaderRows pairs the header fields two per row. Each column is half
// the content width minus the column gap, the row height is the taller of the two.
func LayoutHeaderRows(m Metrics, st *Style, h *model.HeaderRecord, width float64) []HeaderRow {
	colWidth := (width - st.HeaderColumnGap) / 2
	var rows []HeaderRow
	for i := 0; i < len(st.HeaderFields); i += 2 {
		var row HeaderRow
		left := st.HeaderFields[i]
		row.Left = LayoutField(m, st, left.Label, left.Key.Value(h), false, colWidth)
		row.Height = row.Left.Height
		if i+1 < len(st.HeaderFields) {
			right := st.HeaderFields[i+1]
			row.Right = LayoutField(m, st, right.Label, right.Key.Value(h), false, colWidth)
			row.Height = max(row.Height, row.Right.Height)
		}
		rows = append(rows, row)
	}
	return rows
}
