// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package enrich tests gene sets for over- and under-representation of
// annotation categories against a background population using the exact
// hypergeometric test, with empirical multiple-testing correction by
// resampling.
package enrich

import (
	"fmt"

	"github.com/gattools/gat/hyperg"
	"github.com/gattools/gat/ontology"
)

// ConsistencyError reports counts that violate the foreground-within-
// background assumption. It usually means the foreground was not a subset
// of the background.
type ConsistencyError struct {
	TermID string
	What   string
	Count  int
	Limit  int
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("enrich: %s: %s: %d exceeds %d", e.TermID, e.What, e.Count, e.Limit)
}

// Tally holds the per-category occurrence counts for one gene set.
type Tally struct {
	// Total is the number of gene-category pairs seen.
	Total int
	// Counts maps category id to occurrence count.
	Counts map[string]int
	// Annotated is the subset of input genes that had any assignment.
	Annotated map[string]bool
}

// NewTally counts the category assignments of genes. Genes without any
// assignment are skipped; they are counted by neither Total nor Annotated.
func NewTally(genes []string, ann map[string][]ontology.Assignment) *Tally {
	t := &Tally{Counts: make(map[string]int), Annotated: make(map[string]bool)}
	for _, gene := range genes {
		as, ok := ann[gene]
		if !ok || len(as) == 0 {
			continue
		}
		t.Annotated[gene] = true
		for _, a := range as {
			t.Counts[a.TermID]++
			t.Total++
		}
	}
	return t
}

// Result is the enrichment comparison of one category between a sample and
// the background population.
type Result struct {
	TermID string

	SampleCount     int
	SampleTotal     int
	BackgroundCount int
	BackgroundTotal int

	// Ratio is the sample fraction over the background fraction. It is
	// meaningless when HasRatio is false.
	Ratio    float64
	HasRatio bool

	POver  float64
	PUnder float64
}

// P returns the combined p-value, the smaller of the over- and under-
// representation tails.
func (r *Result) P() float64 {
	if r.POver < r.PUnder {
		return r.POver
	}
	return r.PUnder
}

// Code returns "+" for over-represented categories, "-" for under-
// represented ones and "?" when no direction can be assigned.
func (r *Result) Code() string {
	switch {
	case !r.HasRatio:
		return "?"
	case r.Ratio > 1:
		return "+"
	case r.Ratio < 1:
		return "-"
	}
	return "?"
}

// RatioString renders the ratio, using "na" when it is undefined.
func (r *Result) RatioString() string {
	if !r.HasRatio {
		return "na"
	}
	return fmt.Sprintf("%6.4f", r.Ratio)
}

func percent(part, total int) string {
	if total == 0 {
		return "na"
	}
	return fmt.Sprintf("%5.1f", float64(part)/float64(total)*100)
}

// Columns returns the count, percentage and probability fields of the
// result row shared by all output sections.
func (r *Result) Columns() string {
	return fmt.Sprintf("%d\t%d\t%s\t%d\t%d\t%s\t%s\t%6.4e\t%6.4e\t%6.4e",
		r.SampleCount, r.SampleTotal, percent(r.SampleCount, r.SampleTotal),
		r.BackgroundCount, r.BackgroundTotal, percent(r.BackgroundCount, r.BackgroundTotal),
		r.RatioString(), r.P(), r.POver, r.PUnder)
}

// Analysis is the outcome of comparing a foreground gene set against a
// background population.
type Analysis struct {
	// Results holds one entry for every category present in the
	// background, including categories absent from the foreground.
	Results map[string]*Result

	// NumGenes is the size of the input foreground list.
	NumGenes int

	Sample     *Tally
	Background *Tally
}

// Analyze compares the category make-up of the foreground genes against the
// background genes under ann. One Result is produced per category observed
// in the background.
func Analyze(ann map[string][]ontology.Assignment, foreground, background []string) (*Analysis, error) {
	bg := NewTally(background, ann)
	fg := NewTally(foreground, ann)
	results, err := evaluate(fg, bg)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Results:    results,
		NumGenes:   len(foreground),
		Sample:     fg,
		Background: bg,
	}, nil
}

// evaluate computes per-category enrichment of sample against background.
// The background tally is shared across calls by the sampler; it is never
// modified here.
func evaluate(sample, background *Tally) (map[string]*Result, error) {
	n := len(sample.Annotated)
	N := len(background.Annotated)

	results := make(map[string]*Result, len(background.Counts))
	for id, K := range background.Counts {
		k := sample.Counts[id]
		r := &Result{
			TermID:          id,
			SampleCount:     k,
			SampleTotal:     n,
			BackgroundCount: K,
			BackgroundTotal: N,
		}
		if N == 0 {
			results[id] = r
			continue
		}
		switch {
		case K < k:
			return nil, ConsistencyError{TermID: id, What: "foreground count exceeds background count", Count: k, Limit: K}
		case N < K:
			return nil, ConsistencyError{TermID: id, What: "background count exceeds background total", Count: K, Limit: N}
		case n < k:
			return nil, ConsistencyError{TermID: id, What: "foreground count exceeds foreground total", Count: k, Limit: n}
		}

		var err error
		if k == 0 {
			// Nothing drawn from the category: enrichment is
			// impossible by definition, skip the tail machinery.
			r.POver = 1
		} else {
			r.POver, err = hyperg.Q(k-1, K, N-K, n)
			if err != nil {
				return nil, err
			}
		}
		r.PUnder, err = hyperg.P(k, K, N-K, n)
		if err != nil {
			return nil, err
		}

		if n != 0 && K != 0 {
			r.Ratio = float64(k) * float64(N) / (float64(n) * float64(K))
			r.HasRatio = true
		}
		results[id] = r
	}
	return results, nil
}
