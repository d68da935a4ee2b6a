// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tsv = `gene	length	class
g1	100	coding
g2	200	coding
g3	NA	pseudo
g4	400
`

func testTable(t *testing.T) *table {
	t.Helper()
	tab, err := readTable(strings.NewReader(tsv), "\t")
	require.NoError(t, err)
	return tab
}

func TestReadTable(t *testing.T) {
	tab := testTable(t)
	assert.Equal(t, []string{"gene", "length", "class"}, tab.columns)
	assert.Len(t, tab.rows, 4)
	assert.Equal(t, []string{"g4", "400", ""}, tab.rows[3])

	tab, err := readTable(strings.NewReader("a\tb\n1\n"), "\t")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", ""}, tab.rows[0])

	_, err = readTable(strings.NewReader("a\tb\n1\t2\t3\n"), "\t")
	assert.Error(t, err)

	_, err = readTable(strings.NewReader(""), "\t")
	assert.Error(t, err)
}

func TestSummaryMetrics(t *testing.T) {
	got := make(map[string]metric)
	for _, m := range summary(testTable(t)) {
		got[m.name+"/"+m.info] = m
	}

	assert.Equal(t, 4, got["rows/rows"].count)
	assert.Equal(t, 3, got["columns/columns"].count)
	assert.Equal(t, 12, got["cells/cells"].count)
	assert.Equal(t, 2, got["rows_with_na/rows"].count)
	assert.Equal(t, 2, got["columns_with_na/columns"].count)
	assert.Equal(t, 2, got["cells_with_na/cells"].count)

	assert.Equal(t, 0, got["column_na/gene"].count)
	assert.Equal(t, 1, got["column_na/length"].count)
	assert.Equal(t, 1, got["column_na/class"].count)

	assert.Equal(t, 4, got["column_unique/gene"].count)
	assert.Equal(t, 3, got["column_unique/length"].count)
	assert.Equal(t, 2, got["column_unique/class"].count)
	assert.False(t, got["column_unique/gene"].hasPct)

	assert.InDelta(t, 50, got["rows_with_na/rows"].percent, 1e-12)
}

func TestWriteSummary(t *testing.T) {
	var out strings.Builder
	err := writeSummary(&out, testTable(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "metric\tcount\tpercent\tinfo", lines[0])
	assert.Equal(t, "rows\t4\t100.00\trows", lines[1])
	assert.Contains(t, out.String(), "column_unique\t4\t\tgene")
}

func TestByColumn(t *testing.T) {
	cols := testTable(t).byColumn()
	require.Len(t, cols, 1)
	assert.Equal(t, "length", cols[0].label)
	assert.Equal(t, []float64{100, 200, 400}, cols[0].values)
}

func TestByRow(t *testing.T) {
	rows := testTable(t).byRow()
	require.Len(t, rows, 3)
	assert.Equal(t, "0", rows[0].label)
	assert.Equal(t, []float64{100}, rows[0].values)
}

func TestDescribe(t *testing.T) {
	got := make(map[string]float64)
	for _, d := range describe(series{label: "x", values: []float64{400, 100, 200}}) {
		got[d.category] = d.value
	}
	assert.Equal(t, 3.0, got["count"])
	assert.InDelta(t, 233.3333333, got["mean"], 1e-6)
	assert.Equal(t, 100.0, got["min"])
	assert.Equal(t, 400.0, got["max"])
	assert.Equal(t, 200.0, got["50%"])
}
