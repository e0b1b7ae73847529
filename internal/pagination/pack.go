package pagination

// DefaultMaxPerPage is the number of entries a page holds at most
const DefaultMaxPerPage = 2

// Pack partitions entry indices into pages with a single greedy,
// order-preserving pass. Adding an entry to a non-empty group costs its
// height plus one separator. An entry starts a new group when the current one
// is full or the entry would overflow pageBudget; an entry taller than the
// whole budget still gets a page of its own.
func Pack(sizes []float64, pageBudget, separatorHeight float64) []PageGroup {
	return PackN(sizes, pageBudget, separatorHeight, DefaultMaxPerPage)
}

// PackN is Pack with a configurable per-page cap
func PackN(sizes []float64, pageBudget, separatorHeight float64, maxPerPage int) []PageGroup {
	if maxPerPage < 1 {
		maxPerPage = 1
	}

	var (
		groups  []PageGroup
		current PageGroup
		used    float64
	)
	for i, h := range sizes {
		cost := h
		if len(current) > 0 {
			cost += separatorHeight
		}
		if len(current) < maxPerPage && used+cost <= pageBudget {
			current = append(current, i)
			used += cost
			continue
		}
		if len(current) > 0 {
			groups = append(groups, current)
		}
		current = PageGroup{i}
		used = h
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
