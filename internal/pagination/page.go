package pagination

import "strings"

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
)

// LookupPageSize finds a standard page size by name, case insensitive
func LookupPageSize(name string) (PageSize, bool) {
	for _, ps := range []PageSize{PageSizeA4, PageSizeLetter, PageSizeLegal, PageSizeA3, PageSizeA5} {
		if strings.EqualFold(ps.Name, name) {
			return ps, true
		}
	}
	return PageSize{}, false
}

// Landscape returns the size with width and height swapped so that width is the longer side
func (p PageSize) Landscape() PageSize {
	if p.Width < p.Height {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// Portrait returns the size with height being the longer side
func (p PageSize) Portrait() PageSize {
	if p.Width > p.Height {
		p.Width, p.Height = p.Height, p.Width
	}
	return p
}

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// PageGroup is the ordered list of entry indices placed on one page
type PageGroup []int

// Page is one planned output page
type Page struct {
	// Number is 1-based
	Number  int
	Group   PageGroup
	Heights []float64
	// Gaps as computed by Spacing.Allocate; the first gap of each pair
	// precedes its entry, the second follows it
	Gaps []float64
}
