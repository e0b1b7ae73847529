package api

import (
	"go.uber.org/zap"

	"github.com/gompdf/photolog/internal/layout"
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/internal/pagination"
)

// Options represents configuration options for the photo log exporter
type Options struct {
	// Page dimensions, see PageOrientation for the final orientation
	PageSize PageSize
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation
	Margins         Margins

	// SeparatorHeight is the space taken by the rule between entries
	SeparatorHeight float64
	// FooterHeight is reserved above the bottom margin for the page number
	FooterHeight float64
	// MaxPerPage caps the number of entries per page
	MaxPerPage int
	Spacing    Spacing

	// Style holds fonts, column ratios and the field set
	Style layout.Style

	// Logo is drawn in the running header, it is optional
	Logo model.ImageRef
	// BaseURL resolves relative image paths and URLs
	BaseURL string
	// Resource paths searched for relative image paths
	ResourcePaths []string

	// Document metadata, Title also appears in the running header
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string

	// Concurrency bounds parallel image probing, 0 means GOMAXPROCS
	Concurrency int

	Logger *zap.Logger
}

// Option is a function that modifies Options
type Option func(*Options)

// PageSize is a page size in points
type PageSize = pagination.PageSize

// Margins are page margins in points
type Margins = pagination.Margins

// Spacing is the page balancing policy
type Spacing = pagination.Spacing

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA3     = pagination.PageSizeA3
	PageSizeA4     = pagination.PageSizeA4
	PageSizeA5     = pagination.PageSizeA5
	PageSizeLetter = pagination.PageSizeLetter
	PageSizeLegal  = pagination.PageSizeLegal
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	p := pagination.DefaultOptions()
	return Options{
		PageSize:        p.PageSize,
		PageOrientation: PageOrientationPortrait,
		Margins:         p.Margins,
		SeparatorHeight: p.SeparatorHeight,
		FooterHeight:    p.FooterHeight,
		MaxPerPage:      p.MaxPerPage,
		Spacing:         p.Spacing,
		Style:           layout.DefaultStyle(),
		Title:           "Photographic Log",
		Creator:         "photolog",
	}
}

// orientedPageSize applies the orientation to the configured page size
func (o *Options) orientedPageSize() PageSize {
	if o.PageOrientation == PageOrientationLandscape {
		return o.PageSize.Landscape()
	}
	return o.PageSize.Portrait()
}

// paginationOptions converts the options for the pagination engine
func (o *Options) paginationOptions() pagination.Options {
	return pagination.Options{
		PageSize:        o.orientedPageSize(),
		Margins:         o.Margins,
		SeparatorHeight: o.SeparatorHeight,
		FooterHeight:    o.FooterHeight,
		MaxPerPage:      o.MaxPerPage,
		Spacing:         o.Spacing,
	}
}

// WithPageSize sets the page size
func WithPageSize(size PageSize) Option {
	return func(o *Options) {
		o.PageSize = size
	}
}

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetter)
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.Margins = Margins{Top: top, Right: right, Bottom: bottom, Left: left}
	}
}

// WithSeparatorHeight sets the space taken by entry separators
func WithSeparatorHeight(h float64) Option {
	return func(o *Options) {
		o.SeparatorHeight = h
	}
}

// WithFooterHeight sets the space reserved for the footer
func WithFooterHeight(h float64) Option {
	return func(o *Options) {
		o.FooterHeight = h
	}
}

// WithMaxPerPage sets the page capacity
func WithMaxPerPage(n int) Option {
	return func(o *Options) {
		o.MaxPerPage = n
	}
}

// WithSpacing sets the page balancing policy
func WithSpacing(s Spacing) Option {
	return func(o *Options) {
		o.Spacing = s
	}
}

// WithStyle sets the layout style
func WithStyle(st layout.Style) Option {
	return func(o *Options) {
		o.Style = st
	}
}

// WithLogo sets the header logo
func WithLogo(ref model.ImageRef) Option {
	return func(o *Options) {
		o.Logo = ref
	}
}

// WithBaseURL sets the location relative image references are resolved against
func WithBaseURL(base string) Option {
	return func(o *Options) {
		o.BaseURL = base
	}
}

// WithResourcePath adds a path to search for images
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithConcurrency bounds parallel image probing
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}
