// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyperg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var distTests = []struct {
	n0, n1, t int
}{
	{n0: 5, n1: 10, t: 3},
	{n0: 20, n1: 80, t: 10},
	{n0: 1, n1: 99, t: 50},
	{n0: 50, n1: 50, t: 50},
	{n0: 3, n1: 3, t: 6},
	{n0: 1000, n1: 9000, t: 500},
}

func support(n0, n1, t int) (lo, hi int) {
	lo = t - n1
	if lo < 0 {
		lo = 0
	}
	hi = t
	if n0 < hi {
		hi = n0
	}
	return lo, hi
}

func TestPMFSumsToOne(t *testing.T) {
	for _, d := range distTests {
		lo, hi := support(d.n0, d.n1, d.t)
		var sum float64
		for k := lo; k <= hi; k++ {
			sum += PMF(k, d.n0, d.n1, d.t)
		}
		assert.InDelta(t, 1, sum, 1e-6, "n0=%d n1=%d t=%d", d.n0, d.n1, d.t)
	}
}

func TestTailIdentity(t *testing.T) {
	// P(X <= k) + P(X >= k) = 1 + P(X = k).
	for _, d := range distTests {
		lo, hi := support(d.n0, d.n1, d.t)
		for k := lo; k < hi; k++ {
			if k == 0 {
				// Q(-1) is pinned to zero by the edge policy.
				continue
			}
			p, err := P(k, d.n0, d.n1, d.t)
			require.NoError(t, err)
			q, err := Q(k-1, d.n0, d.n1, d.t)
			require.NoError(t, err)
			assert.InDelta(t, 1+PMF(k, d.n0, d.n1, d.t), p+q, 1e-6,
				"k=%d n0=%d n1=%d t=%d", k, d.n0, d.n1, d.t)
		}
	}
}

func TestTailMonotonicity(t *testing.T) {
	for _, d := range distTests {
		lo, hi := support(d.n0, d.n1, d.t)
		prevP, prevQ := 0.0, 1.0
		for k := lo; k < hi; k++ {
			p, err := P(k, d.n0, d.n1, d.t)
			require.NoError(t, err)
			q, err := Q(k, d.n0, d.n1, d.t)
			require.NoError(t, err)
			assert.True(t, p+1e-9 >= prevP, "P not non-decreasing at k=%d", k)
			assert.True(t, q <= prevQ+1e-9, "Q not non-increasing at k=%d", k)
			prevP, prevQ = p, q
		}
	}
}

func TestLowerTailSmallCase(t *testing.T) {
	// P(X <= 0) for n0=5, n1=10, t=3 equals C(10,3)/C(15,3).
	p, err := P(0, 5, 10, 3)
	require.NoError(t, err)
	want := float64(10*9*8) / float64(15*14*13)
	assert.InDelta(t, want, p, 1e-12)
}

func TestEdgePolicy(t *testing.T) {
	p, err := P(5, 5, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p, "k >= n0 saturates")

	p, err = P(3, 5, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p, "k >= t saturates")

	p, err = P(-1, 5, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p, "k < 0 is empty")

	q, err := Q(-1, 5, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)
}

func TestInvalidParams(t *testing.T) {
	_, err := P(1, 5, 10, 16)
	var perr ParamError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 16, perr.T)

	_, err = Q(1, -1, 10, 3)
	require.ErrorAs(t, err, &perr)

	_, err = P(1, 5, -1, 3)
	require.ErrorAs(t, err, &perr)
}

func TestPMFOutsideSupport(t *testing.T) {
	assert.Equal(t, 0.0, PMF(6, 5, 10, 3))
	assert.Equal(t, 0.0, PMF(4, 5, 10, 3))
	// t > n1 forces a nonzero lower bound on the support.
	assert.Equal(t, 0.0, PMF(0, 5, 3, 6))
}
