// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package enrich

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gattools/gat/ontology"
)

// SampleStats accumulates the per-category outcome of repeated random
// resampling from the background.
type SampleStats struct {
	Min, Max int
	Mean     float64
	StdDev   float64

	// Counts holds the category count from each repetition.
	Counts []float64
	// POver and PUnder hold the sorted per-repetition tail probabilities.
	POver  []float64
	PUnder []float64
}

// Quantile returns the q quantile of the per-repetition counts.
func (s *SampleStats) Quantile(q float64) float64 {
	return stat.Quantile(q, stat.Empirical, s.Counts, nil)
}

// ZScore returns the distance of count from the sampled mean in sampled
// standard deviations, or zero when the samples did not vary.
func (s *SampleStats) ZScore(count int) float64 {
	if !(s.StdDev > 0) {
		return 0
	}
	z := (float64(count) - s.Mean) / s.StdDev
	if z < 0 {
		return -z
	}
	return z
}

// Sampled is the aggregated outcome of a resampling run.
type Sampled struct {
	// Stats holds aggregated per-category statistics.
	Stats map[string]*SampleStats

	// MinP is the sorted pool of min(over, under) p-values from every
	// category of every repetition, the empirical null distribution used
	// for FDR estimation.
	MinP []float64

	// N is the number of repetitions performed.
	N int
}

// Sample draws n random foreground sets of the given size from background
// and evaluates each against the full background, accumulating per-category
// count and p-value distributions. The background tally is computed once;
// only the drawn subset is re-tallied per repetition. Results are
// deterministic for a given rng state.
func Sample(ann map[string][]ontology.Assignment, size int, background []string, n int, rng *rand.Rand) (*Sampled, error) {
	if size > len(background) {
		return nil, fmt.Errorf("enrich: sample size %d exceeds background size %d", size, len(background))
	}

	bg := NewTally(background, ann)
	pool := append([]string(nil), background...)

	counts := make(map[string][]int, len(bg.Counts))
	povers := make(map[string][]float64, len(bg.Counts))
	punders := make(map[string][]float64, len(bg.Counts))
	var minp []float64

	for rep := 0; rep < n; rep++ {
		// Partial Fisher-Yates: the first size elements of pool are a
		// uniform subset drawn without replacement.
		for i := 0; i < size; i++ {
			j := i + rng.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		drawn := NewTally(pool[:size], ann)

		results, err := evaluate(drawn, bg)
		if err != nil {
			return nil, err
		}
		for id, r := range results {
			counts[id] = append(counts[id], r.SampleCount)
			povers[id] = append(povers[id], r.POver)
			punders[id] = append(punders[id], r.PUnder)
			minp = append(minp, r.P())
		}
	}

	sort.Float64s(minp)

	stats := make(map[string]*SampleStats, len(counts))
	for id, c := range counts {
		s := &SampleStats{Min: c[0], Max: c[0], Counts: make([]float64, len(c))}
		for i, v := range c {
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
			s.Counts[i] = float64(v)
		}
		sort.Float64s(s.Counts)
		s.Mean = stat.Mean(s.Counts, nil)
		// Population standard deviation: the repetitions are the whole
		// null distribution, not a sample of one.
		var ss float64
		for _, v := range s.Counts {
			d := v - s.Mean
			ss += d * d
		}
		s.StdDev = math.Sqrt(ss / float64(len(s.Counts)))
		s.POver = povers[id]
		s.PUnder = punders[id]
		sort.Float64s(s.POver)
		sort.Float64s(s.PUnder)
		stats[id] = s
	}

	return &Sampled{Stats: stats, MinP: minp, N: n}, nil
}
