// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gattools/gat/enrich"
	"github.com/gattools/gat/ontology"
)

func TestSampleInfo(t *testing.T) {
	info := map[string]ontology.Info{
		"GO:1": {TermID: "GO:1", Namespace: "biol_process", Description: "apoptosis"},
	}
	assert.Equal(t, "GO:1\tbiol_process\tapoptosis", sampleInfo(info, "GO:1"))
	assert.Equal(t, "?\t?\t?", sampleInfo(info, "GO:2"))
}

func TestReconcileExtends(t *testing.T) {
	orig := *strict
	t.Cleanup(func() { *strict = orig })

	*strict = false
	background, err := reconcile("test", []string{"g1", "g4"}, []string{"g1", "g2", "g3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2", "g3", "g4"}, background)

	*strict = true
	_, err = reconcile("test", []string{"g1", "g4"}, []string{"g1", "g2", "g3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g4")
}

func TestReconcileSubsetUntouched(t *testing.T) {
	in := []string{"g1", "g2", "g3"}
	background, err := reconcile("test", []string{"g2"}, in)
	require.NoError(t, err)
	assert.Equal(t, in, background)
}

func TestSortByRatio(t *testing.T) {
	results := map[string]*enrich.Result{
		"GO:1": {TermID: "GO:1", Ratio: 2.5, HasRatio: true},
		"GO:2": {TermID: "GO:2", Ratio: 0.5, HasRatio: true},
		"GO:3": {TermID: "GO:3"},
		"GO:4": {TermID: "GO:4", Ratio: 0.5, HasRatio: true},
	}
	ids := sortResults(results, nil)
	assert.Equal(t, []string{"GO:2", "GO:4", "GO:1", "GO:3"}, ids)
}

func TestSortByPOver(t *testing.T) {
	orig := *sortOrder
	t.Cleanup(func() { *sortOrder = orig })
	*sortOrder = "pover"

	results := map[string]*enrich.Result{
		"GO:1": {TermID: "GO:1", POver: 0.5},
		"GO:2": {TermID: "GO:2", POver: 0.01},
		"GO:3": {TermID: "GO:3", POver: 1},
	}
	ids := sortResults(results, nil)
	assert.Equal(t, []string{"GO:2", "GO:1", "GO:3"}, ids)
}

func TestSignificant(t *testing.T) {
	orig := *threshold
	t.Cleanup(func() { *threshold = orig })
	*threshold = 0.05

	r := &enrich.Result{TermID: "GO:1", POver: 0.01, PUnder: 0.9}
	assert.True(t, significant(r, nil))
	assert.False(t, significant(r, map[string]enrich.FDR{"GO:1": {Value: 0.2}}))
	assert.True(t, significant(r, map[string]enrich.FDR{"GO:1": {Value: 0.01}}))
}
