package pagination

// Options represents options for the pagination engine
type Options struct {
	PageSize PageSize
	Margins  Margins

	// SeparatorHeight is the vertical space a separator rule occupies
	SeparatorHeight float64
	// FooterHeight is reserved above the bottom margin for the footer rule
	// and the page number
	FooterHeight float64
	MaxPerPage   int
	Spacing      Spacing
}

// DefaultOptions returns A4 portrait pagination with half inch margins
func DefaultOptions() Options {
	return Options{
		PageSize:        PageSizeA4,
		Margins:         Margins{Top: 36, Right: 36, Bottom: 36, Left: 36},
		SeparatorHeight: 12,
		FooterHeight:    24,
		MaxPerPage:      DefaultMaxPerPage,
		Spacing:         DefaultSpacing(),
	}
}

// Engine plans the pages of a report from measured entry heights
type Engine struct {
	options Options
}

// NewEngine creates a new pagination engine
func NewEngine() *Engine {
	return &Engine{options: DefaultOptions()}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(options Options) {
	e.options = options
}

// Options returns the current options
func (e *Engine) Options() Options {
	return e.options
}

// ContentWidth is the page width between the side margins
func (e *Engine) ContentWidth() float64 {
	return e.options.PageSize.Width - e.options.Margins.Left - e.options.Margins.Right
}

// FooterTop is the y coordinate where the footer area starts
func (e *Engine) FooterTop() float64 {
	return e.options.PageSize.Height - e.options.Margins.Bottom - e.options.FooterHeight
}

// ContentBudget is the vertical space available to entries on a page whose
// running header ends at contentTop
func (e *Engine) ContentBudget(contentTop float64) float64 {
	return e.FooterTop() - contentTop
}

// Paginate packs sizes into pages and allocates the spacing of each page.
// Separators are taken out of the budget before the leftover is distributed:
// one between each pair of entries, or the closing one under a lone entry.
func (e *Engine) Paginate(sizes []float64, contentTop float64) []Page {
	budget := e.ContentBudget(contentTop)
	sep := e.options.SeparatorHeight

	groups := PackN(sizes, budget, sep, e.options.MaxPerPage)
	pages := make([]Page, 0, len(groups))
	for i, g := range groups {
		heights := make([]float64, len(g))
		for j, idx := range g {
			heights[j] = sizes[idx]
		}

		separators := len(g) - 1
		if len(g) == 1 {
			separators = 1
		}
		available := budget - float64(separators)*sep

		pages = append(pages, Page{
			Number:  i + 1,
			Group:   g,
			Heights: heights,
			Gaps:    e.options.Spacing.Allocate(heights, available),
		})
	}
	return pages
}
