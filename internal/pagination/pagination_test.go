package pagination

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackGroupsPairs(t *testing.T) {
	groups := Pack([]float64{40, 40, 40}, 100, 10)
	assert.Equal(t, []PageGroup{{0, 1}, {2}}, groups)
}

func TestPackEmpty(t *testing.T) {
	assert.Empty(t, Pack(nil, 100, 10))
	assert.Empty(t, Pack([]float64{}, 100, 10))
}

func TestPackSeparatorCausesBreak(t *testing.T) {
	// 45 + 10 + 50 = 105 exceeds the budget even though 95 would fit
	groups := Pack([]float64{45, 50}, 100, 10)
	assert.Equal(t, []PageGroup{{0}, {1}}, groups)
}

func TestPackOversizedEntryAlone(t *testing.T) {
	groups := Pack([]float64{20, 300, 20, 20}, 100, 10)
	assert.Equal(t, []PageGroup{{0}, {1}, {2, 3}}, groups)
}

func TestPackNCap(t *testing.T) {
	sizes := []float64{10, 10, 10, 10, 10, 10, 10}
	assert.Equal(t, []PageGroup{{0, 1, 2}, {3, 4, 5}, {6}}, PackN(sizes, 1000, 1, 3))
	assert.Equal(t, []PageGroup{{0}, {1}}, PackN(sizes[:2], 1000, 1, 0))
}

func TestPackProperties(t *testing.T) {
	const (
		budget = 500.0
		sep    = 12.0
	)
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		sizes := make([]float64, rng.Intn(30))
		for i := range sizes {
			sizes[i] = 20 + rng.Float64()*600
		}

		groups := Pack(sizes, budget, sep)

		// every index exactly once, in order
		next := 0
		for _, g := range groups {
			require.NotEmpty(t, g)
			assert.LessOrEqual(t, len(g), DefaultMaxPerPage)
			for _, idx := range g {
				assert.Equal(t, next, idx)
				next++
			}
			if len(g) > 1 {
				used := sep * float64(len(g)-1)
				for _, idx := range g {
					used += sizes[idx]
				}
				assert.LessOrEqual(t, used, budget, "round %d group %v", round, g)
			}
		}
		assert.Equal(t, len(sizes), next)

		assert.Equal(t, groups, Pack(sizes, budget, sep))
	}
}

func TestAllocateLoneEntry(t *testing.T) {
	gaps := DefaultSpacing().Allocate([]float64{30}, 100)
	assert.Equal(t, []float64{10, 10, 10, 10}, gaps)
}

func TestAllocatePair(t *testing.T) {
	gaps := DefaultSpacing().Allocate([]float64{30, 50}, 120)
	require.Len(t, gaps, 4)
	for _, g := range gaps {
		assert.InDelta(t, 10.0, g, 1e-9)
	}
}

func TestAllocateNoLeftoverUsesMinimum(t *testing.T) {
	s := Spacing{MinGap: 3, LoneEntryFactor: 2}
	assert.Equal(t, []float64{3, 3, 3, 3}, s.Allocate([]float64{60}, 100))
	assert.Equal(t, []float64{3, 3, 3, 3}, s.Allocate([]float64{60, 60}, 100))
}

func TestAllocateLoneFactorIsPolicy(t *testing.T) {
	s := Spacing{MinGap: 0, LoneEntryFactor: 1}
	assert.Equal(t, []float64{17.5, 17.5, 17.5, 17.5}, s.Allocate([]float64{30}, 100))
}

func TestAllocateEmpty(t *testing.T) {
	assert.Nil(t, DefaultSpacing().Allocate(nil, 100))
}

func TestEngineBudgetAndPaginate(t *testing.T) {
	e := NewEngine()
	e.SetOptions(Options{
		PageSize:        PageSize{Width: 300, Height: 200},
		Margins:         Margins{Top: 10, Right: 20, Bottom: 10, Left: 20},
		SeparatorHeight: 10,
		FooterHeight:    20,
		MaxPerPage:      2,
		Spacing:         Spacing{MinGap: 1, LoneEntryFactor: 2},
	})
	assert.InDelta(t, 260.0, e.ContentWidth(), 1e-9)
	assert.InDelta(t, 170.0, e.FooterTop(), 1e-9)
	// header ends at 70 so each page has 100 for entries
	require.InDelta(t, 100.0, e.ContentBudget(70), 1e-9)

	pages := e.Paginate([]float64{40, 40, 30}, 70)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, PageGroup{0, 1}, pages[0].Group)
	assert.Equal(t, []float64{40, 40}, pages[0].Heights)
	// 100 - one separator - 80 leaves 10 for four gaps
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, pages[0].Gaps)

	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, PageGroup{2}, pages[1].Group)
	// 100 - closing separator - 2*30 leaves 30 for four gaps
	assert.Equal(t, []float64{7.5, 7.5, 7.5, 7.5}, pages[1].Gaps)
}

func TestEnginePaginateEmpty(t *testing.T) {
	assert.Empty(t, NewEngine().Paginate(nil, 100))
}

func TestLookupPageSize(t *testing.T) {
	ps, ok := LookupPageSize("letter")
	require.True(t, ok)
	assert.Equal(t, PageSizeLetter, ps)

	_, ok = LookupPageSize("B5")
	assert.False(t, ok)

	l := PageSizeA4.Landscape()
	assert.Greater(t, l.Width, l.Height)
	assert.Equal(t, PageSizeA4, l.Portrait())
}
