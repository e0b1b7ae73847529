package pagination

// Spacing computes the whitespace that vertically balances a page
type Spacing struct {
	// MinGap is used for every gap when the content does not fit
	MinGap float64
	// LoneEntryFactor scales the height of a single entry on a page before the
	// leftover is split, giving a lone entry a generous envelope
	LoneEntryFactor float64
}

// DefaultSpacing returns the standard spacing policy
func DefaultSpacing() Spacing {
	return Spacing{MinGap: 4, LoneEntryFactor: 2}
}

// Allocate returns two gaps per entry, one before and one after it. For
// several entries the leftover of available is split into 2n equal gaps. A
// single entry counts as LoneEntryFactor times its height and the leftover is
// split into four gaps. When nothing is left every gap is MinGap and the
// content is allowed to overflow.
func (s Spacing) Allocate(heights []float64, available float64) []float64 {
	n := len(heights)
	if n == 0 {
		return nil
	}

	var content float64
	for _, h := range heights {
		content += h
	}

	parts := 2 * n
	if n == 1 {
		content *= s.LoneEntryFactor
		parts = 4
	}

	gap := s.MinGap
	if leftover := available - content; leftover > 0 {
		gap = leftover / float64(parts)
	}

	gaps := make([]float64, parts)
	for i := range gaps {
		gaps[i] = gap
	}
	return gaps
}
