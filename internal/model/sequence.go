package model

import (
	"fmt"
	"strconv"
)

// Entries is the ordered entry list of a report. Every structural mutation
// renumbers the sequence so that SequenceLabel always equals the 1-based position.
type Entries []Entry

// Renumber assigns sequence labels from positions and gives ids to entries
// that have none yet
func (es Entries) Renumber() {
	for i := range es {
		if es[i].ID == 0 {
			es[i].ID = NextID()
		}
		es[i].SequenceLabel = strconv.Itoa(i + 1)
	}
}

// Append adds the entry at the end of the list
func (es *Entries) Append(e Entry) {
	*es = append(*es, e)
	es.Renumber()
}

// Insert places the entry at position at, shifting later entries down
func (es *Entries) Insert(at int, e Entry) error {
	if at < 0 || at > len(*es) {
		return fmt.Errorf("insert position %d out of range [0,%d]", at, len(*es))
	}
	*es = append(*es, Entry{})
	copy((*es)[at+1:], (*es)[at:])
	(*es)[at] = e
	es.Renumber()
	return nil
}

// Delete removes the entry at position at and returns it
func (es *Entries) Delete(at int) (Entry, error) {
	if at < 0 || at >= len(*es) {
		return Entry{}, fmt.Errorf("delete position %d out of range [0,%d)", at, len(*es))
	}
	removed := (*es)[at]
	*es = append((*es)[:at], (*es)[at+1:]...)
	es.Renumber()
	return removed, nil
}

// Move relocates the entry at from so that it ends up at position to
func (es *Entries) Move(from, to int) error {
	n := len(*es)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	e := (*es)[from]
	if from < to {
		copy((*es)[from:to], (*es)[from+1:to+1])
	} else {
		copy((*es)[to+1:from+1], (*es)[to:from])
	}
	(*es)[to] = e
	es.Renumber()
	return nil
}
