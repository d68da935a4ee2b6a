// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package enrich

import (
	"sort"
)

// FDR is the estimated false discovery rate of one category.
type FDR struct {
	Value float64

	// Expected is the average number of simulated categories per
	// repetition with a smaller p-value than the observed one, and
	// Observed the number of observed categories with a smaller p-value.
	// Value is Expected/Observed capped at 1.
	Expected float64
	Observed int
}

// FDRBySampling estimates per-category FDRs from an empirical null
// distribution. simMinP is the sorted pool of simulated minimum p-values
// produced by Sample over n repetitions. For each category with observed
// minimum p-value p, the FDR is the expected number of null categories
// below p per repetition over the number of observed categories below p.
func FDRBySampling(results map[string]*Result, simMinP []float64, n int) map[string]FDR {
	ids := make([]string, 0, len(results))
	observed := make([]float64, 0, len(results))
	for id, r := range results {
		ids = append(ids, id)
		observed = append(observed, r.P())
	}
	sort.Float64s(observed)
	// Descending p so the monotone envelope below is a running minimum.
	sort.Slice(ids, func(i, j int) bool { return results[ids[i]].P() > results[ids[j]].P() })

	fdrs := make(map[string]FDR, len(results))
	envelope := 1.0
	for _, id := range ids {
		p := results[id].P()
		// Both lists are sorted: SearchFloat64s yields the number of
		// entries strictly below p, matching a linear scan.
		a := float64(sort.SearchFloat64s(simMinP, p)) / float64(n)
		b := sort.SearchFloat64s(observed, p)

		fdr := 1.0
		if b > 0 {
			fdr = a / float64(b)
			if fdr > 1 {
				fdr = 1
			}
		}
		// Regularize so that a smaller p-value never carries a larger
		// FDR than a weaker result.
		if fdr > envelope {
			fdr = envelope
		}
		envelope = fdr
		fdrs[id] = FDR{Value: fdr, Expected: a, Observed: b}
	}
	return fdrs
}

// QValues converts p-values to Storey-style q-values: the proportion of
// true nulls is estimated from the flat tail of the p-value distribution
// and multiple testing is corrected by monotone step-up over the ordered
// p-values. The returned slice is aligned with the input. This is the
// closed-form fallback used when no sampling has been requested; it is
// less rigorous than the empirical estimate of FDRBySampling.
func QValues(p []float64) []float64 {
	m := len(p)
	if m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return p[order[i]] < p[order[j]] })

	pi0 := estimatePi0(p)

	q := make([]float64, m)
	prev := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		i := order[rank]
		v := pi0 * float64(m) * p[i] / float64(rank+1)
		if v > prev {
			v = prev
		}
		q[i] = v
		prev = v
	}
	return q
}

// estimatePi0 estimates the proportion of true null hypotheses by averaging
// the tail-based estimate over a grid of thresholds, clamped to (0, 1].
func estimatePi0(p []float64) float64 {
	var sum float64
	var n int
	for lambda := 0.05; lambda < 0.95; lambda += 0.05 {
		var above int
		for _, v := range p {
			if v > lambda {
				above++
			}
		}
		sum += float64(above) / (float64(len(p)) * (1 - lambda))
		n++
	}
	pi0 := sum / float64(n)
	if pi0 > 1 {
		pi0 = 1
	}
	if pi0 <= 0 {
		pi0 = 1.0 / float64(len(p))
	}
	return pi0
}
