// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hyperg provides exact hypergeometric tail probabilities computed
// through log-gamma arithmetic so that large population sizes do not
// overflow.
package hyperg

import (
	"fmt"
	"math"
)

// relErr is the relative contribution below which tail summation stops.
const relErr = 1e-10

// ParamError is returned for parameter sets that do not describe a
// hypergeometric distribution.
type ParamError struct {
	K, N0, N1, T int
	Reason       string
}

func (e ParamError) Error() string {
	return fmt.Sprintf("hyperg: invalid parameters k=%d n0=%d n1=%d t=%d: %s",
		e.K, e.N0, e.N1, e.T, e.Reason)
}

func check(k, n0, n1, t int) error {
	switch {
	case t > n0+n1:
		return ParamError{K: k, N0: n0, N1: n1, T: t, Reason: "sample larger than population"}
	case n0 < 0:
		return ParamError{K: k, N0: n0, N1: n1, T: t, Reason: "negative n0"}
	case n1 < 0:
		return ParamError{K: k, N0: n0, N1: n1, T: t, Reason: "negative n1"}
	}
	return nil
}

// LogChoose returns the log of the binomial coefficient C(n, k).
func LogChoose(n, k int) float64 {
	nf, _ := math.Lgamma(float64(n) + 1)
	kf, _ := math.Lgamma(float64(k) + 1)
	nkf, _ := math.Lgamma(float64(n-k) + 1)
	return nf - (kf + nkf)
}

// PMF returns P(X = k) for a draw of t from a population holding n0
// successes and n1 failures. Values outside the support are zero and
// in-support values are clamped away from zero so that downstream ratio
// and log operations remain finite.
func PMF(k, n0, n1, t int) float64 {
	if t > n0+n1 {
		t = n0 + n1
	}
	if k > n0 || k > t {
		return 0
	}
	if t > n1 && k+n1 < t {
		return 0
	}
	p := math.Exp(LogChoose(n0, k) + LogChoose(n1, t-k) - LogChoose(n0+n1, t))
	return math.Max(p, math.SmallestNonzeroFloat64)
}

// P returns the lower tail probability P(X <= k). Terms are accumulated
// outward from the mode of the distribution until the next term's relative
// contribution drops below tolerance or the sum saturates at 1.
func P(k, n0, n1, t int) (float64, error) {
	err := check(k, n0, n1, t)
	if err != nil {
		return 0, err
	}
	switch {
	case k >= n0 || k >= t:
		return 1, nil
	case k < 0:
		return 0, nil
	}

	var p float64
	mode := t * n0 / (n0 + n1)
	if k < mode {
		for i, rel := k, 1.0; i >= 0 && rel > relErr && p < 1; i-- {
			tmp := PMF(i, n0, n1, t)
			p += tmp
			rel = tmp / p
		}
		return p, nil
	}
	for i, rel := mode, 1.0; i <= k && rel > relErr && p < 1; i++ {
		tmp := PMF(i, n0, n1, t)
		p += tmp
		rel = tmp / p
	}
	for i, rel := mode-1, 1.0; i >= 0 && rel > relErr && p < 1; i-- {
		tmp := PMF(i, n0, n1, t)
		p += tmp
		rel = tmp / p
	}
	return p, nil
}

// Q returns the exclusive upper tail probability P(X > k) by the algorithm
// of P mirrored towards t, stopping above k when descending from the mode so
// that k itself is not counted. P(X >= k) is obtained as Q(k-1, ...).
func Q(k, n0, n1, t int) (float64, error) {
	err := check(k, n0, n1, t)
	if err != nil {
		return 0, err
	}
	switch {
	case k >= n0 || k >= t:
		return 1, nil
	case k < 0:
		return 0, nil
	}

	var p float64
	mode := t * n0 / (n0 + n1)
	if k < mode {
		for i, rel := mode, 1.0; i <= t && rel > relErr && p < 1; i++ {
			tmp := PMF(i, n0, n1, t)
			p += tmp
			rel = tmp / p
		}
		for i, rel := mode-1, 1.0; i > k && rel > relErr && p < 1; i-- {
			tmp := PMF(i, n0, n1, t)
			p += tmp
			rel = tmp / p
		}
		return p, nil
	}
	for i, rel := k+1, 1.0; i <= t && rel > relErr && p < 1; i++ {
		tmp := PMF(i, n0, n1, t)
		p += tmp
		rel = tmp / p
	}
	return p, nil
}
