package layout

import (
	"fmt"

	"github.com/gompdf/photolog/internal/model"
)

// Metrics measures text in the font most recently selected. Style is "" for
// regular and "B" for bold, sizes are in points.
type Metrics interface {
	SetFont(style string, size float64)
	MeasureText(s string) float64
}

// FieldKey names an entry field
type FieldKey string

const (
	FieldSequence    FieldKey = "sequence"
	FieldDate        FieldKey = "date"
	FieldLocation    FieldKey = "location"
	FieldDirection   FieldKey = "direction"
	FieldDescription FieldKey = "description"
)

// Value returns the text of the field for entry e
func (k FieldKey) Value(e *model.Entry) string {
	switch k {
	case FieldSequence:
		return e.SequenceLabel
	case FieldDate:
		return e.Date
	case FieldLocation:
		return e.Location
	case FieldDirection:
		return e.Direction
	case FieldDescription:
		return e.Description
	}
	return ""
}

// Valid reports whether k names a known entry field
func (k FieldKey) Valid() bool {
	switch k {
	case FieldSequence, FieldDate, FieldLocation, FieldDirection, FieldDescription:
		return true
	}
	return false
}

// Field describes how one entry field is laid out. Block fields put the label
// on its own line above the wrapped value.
type Field struct {
	Key   FieldKey `yaml:"key"`
	Label string   `yaml:"label"`
	Block bool     `yaml:"block"`
}

// HeaderKey names a header metadata field
type HeaderKey string

const (
	HeaderProponent     HeaderKey = "proponent"
	HeaderProjectName   HeaderKey = "project_name"
	HeaderLocation      HeaderKey = "location"
	HeaderDate          HeaderKey = "date"
	HeaderProjectNumber HeaderKey = "project_number"
)

// Value returns the text of the header field
func (k HeaderKey) Value(h *model.HeaderRecord) string {
	switch k {
	case HeaderProponent:
		return h.Proponent
	case HeaderProjectName:
		return h.ProjectName
	case HeaderLocation:
		return h.Location
	case HeaderDate:
		return h.Date
	case HeaderProjectNumber:
		return h.ProjectNumber
	}
	return ""
}

// Valid reports whether k names a known header field
func (k HeaderKey) Valid() bool {
	switch k {
	case HeaderProponent, HeaderProjectName, HeaderLocation, HeaderDate, HeaderProjectNumber:
		return true
	}
	return false
}

// HeaderField is one labelled value of the running header metadata block
type HeaderField struct {
	Key   HeaderKey `yaml:"key"`
	Label string    `yaml:"label"`
}

// Style holds every typographic and geometric constant of a report variant.
// All lengths are in points.
type Style struct {
	FontFamily    string  `yaml:"font_family"`
	LabelFontSize float64 `yaml:"label_font_size"`
	ValueFontSize float64 `yaml:"value_font_size"`
	TitleFontSize float64 `yaml:"title_font_size"`
	// LineSpacing is the line height as a multiple of the font size
	LineSpacing float64 `yaml:"line_spacing"`
	LabelGap    float64 `yaml:"label_gap"`
	FieldGap    float64 `yaml:"field_gap"`

	TextColumnRatio  float64 `yaml:"text_column_ratio"`
	ImageColumnRatio float64 `yaml:"image_column_ratio"`

	LogoHeight      float64 `yaml:"logo_height"`
	HeaderRowGap    float64 `yaml:"header_row_gap"`
	HeaderColumnGap float64 `yaml:"header_column_gap"`
	HeaderRuleGap   float64 `yaml:"header_rule_gap"`

	Fields       []Field       `yaml:"fields"`
	HeaderFields []HeaderField `yaml:"header_fields"`
}

// DefaultStyle returns the standard photo log layout
func DefaultStyle() Style {
	return Style{
		FontFamily:    "Helvetica",
		LabelFontSize: 10,
		ValueFontSize: 9,
		TitleFontSize: 16,
		LineSpacing:   1.25,
		LabelGap:      4,
		FieldGap:      6,

		TextColumnRatio:  0.42,
		ImageColumnRatio: 0.55,

		LogoHeight:      36,
		HeaderRowGap:    4,
		HeaderColumnGap: 12,
		HeaderRuleGap:   6,

		Fields: []Field{
			{Key: FieldSequence, Label: "Photo No.:"},
			{Key: FieldDate, Label: "Date:"},
			{Key: FieldLocation, Label: "Location:"},
			{Key: FieldDirection, Label: "Direction:"},
			{Key: FieldDescription, Label: "Description:", Block: true},
		},
		HeaderFields: []HeaderField{
			{Key: HeaderProponent, Label: "Proponent:"},
			{Key: HeaderProjectName, Label: "Project:"},
			{Key: HeaderLocation, Label: "Location:"},
			{Key: HeaderDate, Label: "Date:"},
			{Key: HeaderProjectNumber, Label: "Project No.:"},
		},
	}
}

// Validate checks the style for values the layout cannot work with
func (s *Style) Validate() error {
	if s.LabelFontSize <= 0 || s.ValueFontSize <= 0 || s.TitleFontSize <= 0 {
		return fmt.Errorf("font sizes must be positive")
	}
	if s.LineSpacing < 1 {
		return fmt.Errorf("line spacing %.2f is less than 1", s.LineSpacing)
	}
	if s.TextColumnRatio <= 0 || s.ImageColumnRatio <= 0 || s.TextColumnRatio+s.ImageColumnRatio > 1 {
		return fmt.Errorf("column ratios %.2f/%.2f must be positive and sum to at most 1",
			s.TextColumnRatio, s.ImageColumnRatio)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("no entry fields configured")
	}
	for _, f := range s.Fields {
		if !f.Key.Valid() {
			return fmt.Errorf("unknown entry field %q", f.Key)
		}
	}
	for _, f := range s.HeaderFields {
		if !f.Key.Valid() {
			return fmt.Errorf("unknown header field %q", f.Key)
		}
	}
	return nil
}

// LabelLineHeight is the height of one label line
func (s *Style) LabelLineHeight() float64 { return s.LabelFontSize * s.LineSpacing }

// ValueLineHeight is the height of one value line
func (s *Style) ValueLineHeight() float64 { return s.ValueFontSize * s.LineSpacing }

// Columns is the horizontal geometry of an entry row
type Columns struct {
	TextX      float64
	TextWidth  float64
	ImageX     float64
	ImageWidth float64
}

// Columns splits the content area starting at x into the text column and the
// image column. What is left between them is the column gap.
func (s *Style) Columns(x, width float64) Columns {
	tw := width * s.TextColumnRatio
	iw := width * s.ImageColumnRatio
	return Columns{
		TextX:      x,
		TextWidth:  tw,
		ImageX:     x + width - iw,
		ImageWidth: iw,
	}
}
