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

const maf = `##maf version=1
# generated

a score=100.0
s chr1:1000-2000 10 20 + 1000 ACGT--ACGT
s mm10.chr5 500 20 - 150000 ACGTTTACGT

a score=5.0
s chr2:50-100 0 5 + 50 ACGTT
s mm10.chrX 90 5 + 900 ACGTT
`

func blocks(t *testing.T, in string) [][]string {
	t.Helper()
	br := newBlockReader(strings.NewReader(in))
	var got [][]string
	for br.next() {
		got = append(got, append([]string(nil), br.block()...))
	}
	require.NoError(t, br.err())
	return got
}

func TestBlockReader(t *testing.T) {
	got := blocks(t, maf)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"##maf version=1", "# generated", ""}, got[0])
	assert.True(t, strings.HasPrefix(got[1][0], "a score=100.0"))
	assert.True(t, strings.HasPrefix(got[2][0], "a score=5.0"))
}

func TestParseSeqLine(t *testing.T) {
	s, err := parseSeqLine("s mm10.chr5 500 20 - 150000 ACGTTTACGT")
	require.NoError(t, err)
	assert.Equal(t, seqLine{src: "mm10.chr5", start: 500, size: 20, strand: "-", srcSize: 150000, text: "ACGTTTACGT"}, s)
	assert.Equal(t, "s mm10.chr5 500 20 - 150000 ACGTTTACGT", s.String())

	_, err = parseSeqLine("s truncated 500 20")
	assert.Error(t, err)
}

func TestParseRegion(t *testing.T) {
	contig, start, end, err := parseRegion("chr1:1000-2000")
	require.NoError(t, err)
	assert.Equal(t, "chr1", contig)
	assert.Equal(t, 1000, start)
	assert.Equal(t, 2000, end)

	_, _, _, err = parseRegion("chr1")
	assert.Error(t, err)
	_, _, _, err = parseRegion("chr1:1000")
	assert.Error(t, err)
}

func TestReplacePrefix(t *testing.T) {
	assert.Equal(t, "rn6.chr5", replacePrefix("mm10.chr5", "rn6"))
	assert.Equal(t, "rn6", replacePrefix("scaffold", "rn6"))
}

func TestFormatTabular(t *testing.T) {
	rows := [][]string{
		{"s", "chr1", "1010", "20", "+", "1000", "ACGT--ACGT"},
		{"s", "mm10.chr5", "500", "20", "-", "150000", "ACGTTTACGT"},
	}
	lines := formatTabular(rows, "llrrrrl")
	require.Len(t, lines, 2)
	assert.Equal(t, "s chr1      1010 20 +   1000 ACGT--ACGT ", lines[0])
	assert.Equal(t, "s mm10.chr5  500 20 - 150000 ACGTTTACGT ", lines[1])
}

func resetFlags(t *testing.T) {
	t.Helper()
	origLen, origPrefix, origShift := *minLength, *setPrefix, *shift
	t.Cleanup(func() {
		*minLength, *setPrefix, *shift = origLen, origPrefix, origShift
	})
}

func TestSiftFilterID(t *testing.T) {
	resetFlags(t)
	var out strings.Builder
	c, err := sift(strings.NewReader(maf), &out, map[string]bool{"mm10.chrX": true})
	require.NoError(t, err)
	assert.Equal(t, 2, c.input)
	assert.Equal(t, 1, c.skippedID)
	assert.Equal(t, 1, c.output)
	assert.NotContains(t, out.String(), "chrX")
	assert.Contains(t, out.String(), "##maf version=1")
}

func TestSiftMinLength(t *testing.T) {
	resetFlags(t)
	*minLength = 5
	var out strings.Builder
	c, err := sift(strings.NewReader(maf), &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.skippedLength)
	assert.Equal(t, 1, c.output)
}

func TestSiftShiftRegion(t *testing.T) {
	resetFlags(t)
	*shift = true
	var out strings.Builder
	_, err := sift(strings.NewReader(maf), &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "s chr1")
	assert.Contains(t, out.String(), "1010")
	assert.NotContains(t, out.String(), "chr1:1000-2000")
}

func TestSiftSetPrefix(t *testing.T) {
	resetFlags(t)
	*setPrefix = "rn6"
	var out strings.Builder
	_, err := sift(strings.NewReader(maf), &out, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "rn6.chr5")
	assert.NotContains(t, out.String(), "mm10.chr5")
}
