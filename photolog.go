package photolog

import (
	"github.com/gompdf/photolog/internal/model"
	"github.com/gompdf/photolog/pkg/api"
)

type Exporter = api.Exporter
type Document = api.Document
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type PageSize = api.PageSize

type Report = model.Report
type HeaderRecord = model.HeaderRecord
type Entry = model.Entry
type Entries = model.Entries
type ImageRef = model.ImageRef

var (
	New            = api.New
	NewWithOptions = api.NewWithOptions
	DefaultOptions = api.DefaultOptions
)

var (
	WithPageSize        = api.WithPageSize
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageOrientation = api.WithPageOrientation
	WithMargins         = api.WithMargins
	WithSeparatorHeight = api.WithSeparatorHeight
	WithFooterHeight    = api.WithFooterHeight
	WithMaxPerPage      = api.WithMaxPerPage
	WithSpacing         = api.WithSpacing
	WithStyle           = api.WithStyle
	WithLogo            = api.WithLogo
	WithBaseURL         = api.WithBaseURL
	WithResourcePath    = api.WithResourcePath
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithConcurrency     = api.WithConcurrency
	WithLogger          = api.WithLogger
)

var (
	PageSizeA3     = api.PageSizeA3
	PageSizeA4     = api.PageSizeA4
	PageSizeA5     = api.PageSizeA5
	PageSizeLetter = api.PageSizeLetter
	PageSizeLegal  = api.PageSizeLegal
)

const (
	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
