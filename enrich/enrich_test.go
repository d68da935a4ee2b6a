// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package enrich

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/gattools/gat/ontology"
)

// population returns 100 genes g00..g99, the first 20 annotated with catA,
// the rest with catB only, and everything with catC.
func population() (ann map[string][]ontology.Assignment, genes []string) {
	ann = make(map[string][]ontology.Assignment)
	for i := 0; i < 100; i++ {
		gene := fmt.Sprintf("g%02d", i)
		genes = append(genes, gene)
		if i < 20 {
			ann[gene] = append(ann[gene], ontology.Assignment{TermID: "catA"})
		} else {
			ann[gene] = append(ann[gene], ontology.Assignment{TermID: "catB"})
		}
		ann[gene] = append(ann[gene], ontology.Assignment{TermID: "catC"})
	}
	return ann, genes
}

func TestTallySkipsUnannotated(t *testing.T) {
	ann := map[string][]ontology.Assignment{
		"g1": {{TermID: "catA"}, {TermID: "catB"}},
		"g2": {{TermID: "catA"}},
	}
	tally := NewTally([]string{"g1", "g2", "g3"}, ann)
	assert.Equal(t, 3, tally.Total)
	assert.Equal(t, map[string]int{"catA": 2, "catB": 1}, tally.Counts)
	assert.Equal(t, map[string]bool{"g1": true, "g2": true}, tally.Annotated)
}

func TestAnalyzeEnrichedCategory(t *testing.T) {
	ann, genes := population()

	// Foreground of 10 genes, 5 of which carry catA.
	fg := append(append([]string(nil), genes[:5]...), genes[50:55]...)

	a, err := Analyze(ann, fg, genes)
	require.NoError(t, err)
	require.Len(t, a.Results, 3)

	r := a.Results["catA"]
	require.NotNil(t, r)
	assert.Equal(t, 5, r.SampleCount)
	assert.Equal(t, 10, r.SampleTotal)
	assert.Equal(t, 20, r.BackgroundCount)
	assert.Equal(t, 100, r.BackgroundTotal)
	require.True(t, r.HasRatio)
	assert.InDelta(t, 2.5, r.Ratio, 1e-12)
	assert.Less(t, r.POver, r.PUnder, "catA should look over-represented")
	assert.Equal(t, "+", r.Code())

	// catC is in every gene of both sets: no signal either way.
	rc := a.Results["catC"]
	require.NotNil(t, rc)
	assert.Equal(t, 10, rc.SampleCount)
	assert.Equal(t, 1.0, rc.POver)
	assert.Equal(t, 1.0, rc.PUnder)
	assert.Equal(t, "?", rc.Code())
}

func TestAnalyzeAbsentCategoryShortcut(t *testing.T) {
	ann, genes := population()

	// Foreground avoiding catA entirely.
	a, err := Analyze(ann, genes[30:40], genes)
	require.NoError(t, err)
	r := a.Results["catA"]
	require.NotNil(t, r)
	assert.Equal(t, 0, r.SampleCount)
	assert.Equal(t, 1.0, r.POver, "zero sample count pins the over tail to 1")
	assert.Less(t, r.PUnder, 1.0)
	assert.Equal(t, "-", r.Code())
}

func TestAnalyzeInconsistentSets(t *testing.T) {
	ann := map[string][]ontology.Assignment{
		"g1": {{TermID: "catA"}},
		"g2": {{TermID: "catA"}},
		"g3": {{TermID: "catB"}},
	}
	// Foreground is not a subset of the background: catA is seen twice in
	// the foreground but only once in the background.
	_, err := Analyze(ann, []string{"g1", "g2"}, []string{"g1", "g3"})
	var cerr ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "catA", cerr.TermID)
}

func TestSampleDeterministic(t *testing.T) {
	ann, genes := population()

	run := func() *Sampled {
		s, err := Sample(ann, 10, genes, 50, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		return s
	}
	a, b := run(), run()

	assert.Equal(t, a.MinP, b.MinP)
	require.Len(t, a.Stats, len(b.Stats))
	for id, sa := range a.Stats {
		sb := b.Stats[id]
		require.NotNil(t, sb, "category %s lost", id)
		assert.Equal(t, sa.Counts, sb.Counts)
		assert.Equal(t, sa.POver, sb.POver)
		assert.Equal(t, sa.PUnder, sb.PUnder)
		assert.Equal(t, sa.Min, sb.Min)
		assert.Equal(t, sa.Max, sb.Max)
	}
}

func TestSampleShape(t *testing.T) {
	ann, genes := population()

	const reps = 20
	s, err := Sample(ann, 10, genes, reps, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Len(t, s.Stats, 3)
	for id, st := range s.Stats {
		assert.Len(t, st.Counts, reps, "category %s", id)
		assert.Len(t, st.POver, reps)
		assert.Len(t, st.PUnder, reps)
		assert.True(t, sort.Float64sAreSorted(st.POver))
		assert.True(t, sort.Float64sAreSorted(st.PUnder))
		assert.True(t, float64(st.Min) <= st.Mean && st.Mean <= float64(st.Max))
	}
	assert.Len(t, s.MinP, 3*reps)
	assert.True(t, sort.Float64sAreSorted(s.MinP))

	// Every draw of 10 genes carries catC in all of them.
	catC := s.Stats["catC"]
	assert.Equal(t, 10, catC.Min)
	assert.Equal(t, 10, catC.Max)
	assert.Equal(t, 0.0, catC.ZScore(10))
}

func TestSampleStdDevPopulation(t *testing.T) {
	ann, genes := population()

	s, err := Sample(ann, 10, genes, 20, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for id, st := range s.Stats {
		n := float64(len(st.Counts))
		want := stat.StdDev(st.Counts, nil) * math.Sqrt((n-1)/n)
		assert.InDelta(t, want, st.StdDev, 1e-12, "category %s", id)
	}
}

func TestFDRBySamplingMonotone(t *testing.T) {
	ann, genes := population()

	fg := append(append([]string(nil), genes[:5]...), genes[50:55]...)
	a, err := Analyze(ann, fg, genes)
	require.NoError(t, err)

	s, err := Sample(ann, len(fg), genes, 200, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	fdrs := FDRBySampling(a.Results, s.MinP, s.N)
	require.Len(t, fdrs, len(a.Results))

	ids := make([]string, 0, len(a.Results))
	for id := range a.Results {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return a.Results[ids[i]].P() < a.Results[ids[j]].P() })
	for i := 1; i < len(ids); i++ {
		assert.LessOrEqual(t, fdrs[ids[i-1]].Value, fdrs[ids[i]].Value,
			"FDR must not decrease with weaker p-values")
	}
	for _, f := range fdrs {
		assert.True(t, f.Value >= 0 && f.Value <= 1)
	}
}

func TestQValues(t *testing.T) {
	p := []float64{0.001, 0.5, 0.02, 0.9, 0.04}
	q := QValues(p)
	require.Len(t, q, len(p))

	for _, v := range q {
		assert.True(t, v >= 0 && v <= 1, "q-value out of range: %v", v)
	}
	// Order of q-values follows order of p-values.
	assert.LessOrEqual(t, q[0], q[2])
	assert.LessOrEqual(t, q[2], q[4])
	assert.LessOrEqual(t, q[4], q[1])
	assert.LessOrEqual(t, q[1], q[3])

	assert.Nil(t, QValues(nil))
}

func TestResultFormatting(t *testing.T) {
	r := &Result{
		TermID:      "catA",
		SampleCount: 5, SampleTotal: 10,
		BackgroundCount: 20, BackgroundTotal: 100,
		Ratio: 2.5, HasRatio: true,
		POver: 0.01, PUnder: 0.999,
	}
	assert.Equal(t, 0.01, r.P())
	assert.Equal(t, "+", r.Code())
	assert.Equal(t, "2.5000", r.RatioString())

	und := &Result{HasRatio: true, Ratio: 0.5, POver: 0.9, PUnder: 0.1}
	assert.Equal(t, "-", und.Code())
	na := &Result{}
	assert.Equal(t, "?", na.Code())
	assert.Equal(t, "na", na.RatioString())
}
