package mapwork

import (
	"fmt"
	"strings"
)

// ExplainLevel is the verbosity of a plan-explain rendering.
type ExplainLevel int

const (
	ExplainUser ExplainLevel = iota
	ExplainDefault
	ExplainExtended
)

// ExplainEntry is one displayable fact about the stage: its display name, the
// minimum verbosity at which it appears, and the rendered value. This is
// display metadata only; nothing parses it back.
type ExplainEntry struct {
	Name     string
	MinLevel ExplainLevel
	Value    string
}

// ExplainEntries returns the entries visible at the given verbosity, skipping
// empty values.
func (w *Work) ExplainEntries(level ExplainLevel) []ExplainEntry {
	all := []ExplainEntry{
		{Name: "Execution mode", MinLevel: ExplainUser, Value: w.Flags.ExecutionMode()},
		{Name: "IO cache", MinLevel: ExplainDefault, Value: w.explainCacheEligibility()},
		{Name: "Path -> Alias", MinLevel: ExplainExtended, Value: w.explainLocationAliases()},
		{Name: "Path -> Partition", MinLevel: ExplainExtended, Value: w.explainLocationPartitions()},
		{Name: "Path -> Bucketed Columns", MinLevel: ExplainExtended, Value: w.explainBucketColumns()},
		{Name: "Path -> Sorted Columns", MinLevel: ExplainExtended, Value: w.explainSortColumns()},
		{Name: "Split Sample", MinLevel: ExplainExtended, Value: w.explainSplitSamples()},
		{Name: "Sampling", MinLevel: ExplainExtended, Value: w.Split.Sampling.String()},
	}
	var visible []ExplainEntry
	for _, e := range all {
		if e.MinLevel <= level && e.Value != "" {
			visible = append(visible, e)
		}
	}
	return visible
}

func (w *Work) explainCacheEligibility() string {
	verdict, derived := w.CacheEligibility()
	if !derived {
		return ""
	}
	return verdict.String()
}

func (w *Work) explainLocationAliases() string {
	var lines []string
	for _, loc := range w.locationAliases.keys {
		aliases, _ := w.locationAliases.Get(loc)
		lines = append(lines, fmt.Sprintf("%s -> [%s]", loc, strings.Join(aliases, ", ")))
	}
	return strings.Join(lines, "; ")
}

func (w *Work) explainLocationPartitions() string {
	var lines []string
	for _, loc := range w.locationPartition.keys {
		d, _ := w.locationPartition.Get(loc)
		if d == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", loc, d.EffectiveInputFormat()))
	}
	return strings.Join(lines, "; ")
}

func (w *Work) explainBucketColumns() string {
	var lines []string
	for _, loc := range w.bucketCols.keys {
		cols, _ := w.bucketCols.Get(loc)
		var names []string
		for _, c := range cols {
			names = append(names, strings.Join(c.Names, "|"))
		}
		lines = append(lines, fmt.Sprintf("%s -> [%s]", loc, strings.Join(names, ", ")))
	}
	return strings.Join(lines, "; ")
}

func (w *Work) explainSortColumns() string {
	var lines []string
	for _, loc := range w.sortCols.keys {
		cols, _ := w.sortCols.Get(loc)
		var names []string
		for _, c := range cols {
			dir := "-"
			if c.Ascending {
				dir = "+"
			}
			names = append(names, strings.Join(c.Names, "|")+dir)
		}
		lines = append(lines, fmt.Sprintf("%s -> [%s]", loc, strings.Join(names, ", ")))
	}
	return strings.Join(lines, "; ")
}

func (w *Work) explainSplitSamples() string {
	var lines []string
	for _, name := range w.splitSamples.keys {
		s, _ := w.splitSamples.Get(name)
		if s == nil {
			continue
		}
		switch {
		case s.RowCount > 0:
			lines = append(lines, fmt.Sprintf("%s: %d rows", name, s.RowCount))
		case s.Percent > 0:
			lines = append(lines, fmt.Sprintf("%s: %.2f%%", name, s.Percent))
		default:
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "; ")
}
