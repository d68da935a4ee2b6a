// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tabstat computes summary metrics for a tab-separated table read from
// standard input. The default summary reports row, column and cell counts
// and missing value statistics in four columns: metric, count, percent and
// info. The row-describe and column-describe methods additionally write
// distribution summaries of the numeric rows or columns to separate files.
//
// The table is read into memory, so there is a limit to the size of table
// that can be analyzed.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	delimiter = flag.String("delimiter", "\t", "delimiter separating input columns")
	methods   = flag.String("method", "summary", "comma separated methods: summary, row-describe, column-describe")
	pattern   = flag.String("pattern", "tabstat_{section}.tsv", "output filename pattern for describe sections")
	errFile   = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *errFile != "" {
		f, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	tab, err := readTable(os.Stdin, *delimiter)
	if err != nil {
		log.Fatalf("failed to read table: %v", err)
	}
	log.Printf("read table: %d rows, %d columns", len(tab.rows), len(tab.columns))

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for _, method := range strings.Split(*methods, ",") {
		switch method {
		case "summary":
			err = writeSummary(w, tab)
		case "column-describe":
			err = writeDescribe(tab.byColumn(), "column_describe")
		case "row-describe":
			err = writeDescribe(tab.byRow(), "row_describe")
		default:
			log.Fatalf("unknown method %q", method)
		}
		if err != nil {
			log.Fatalf("method %q failed: %v", method, err)
		}
	}
}

// table holds a parsed delimited file. Missing values are kept as empty
// strings.
type table struct {
	columns []string
	rows    [][]string
}

// isNA reports whether a cell holds a missing value.
func isNA(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "nan":
		return true
	}
	return false
}

func readTable(r io.Reader, delim string) (*table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty input")
	}
	tab := &table{columns: strings.Split(sc.Text(), delim)}
	for sc.Scan() {
		row := strings.Split(sc.Text(), delim)
		if len(row) > len(tab.columns) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d",
				len(tab.rows)+1, len(tab.columns), len(row))
		}
		// Short rows are padded with missing values.
		for len(row) < len(tab.columns) {
			row = append(row, "")
		}
		tab.rows = append(tab.rows, row)
	}
	return tab, sc.Err()
}

// metric is one line of the summary section.
type metric struct {
	name  string
	count int
	// hasPct is false for metrics with no meaningful denominator.
	hasPct  bool
	percent float64
	info    string
}

// summary computes the table-level and per-column missing value metrics.
func summary(tab *table) []metric {
	nrows := len(tab.rows)
	ncols := len(tab.columns)
	ncells := nrows * ncols

	var rowsNA, cellsNA int
	colsNA := make([]int, ncols)
	for _, row := range tab.rows {
		inRow := false
		for i, cell := range row {
			if isNA(cell) {
				cellsNA++
				colsNA[i]++
				inRow = true
			}
		}
		if inRow {
			rowsNA++
		}
	}
	var ncolsNA int
	for _, n := range colsNA {
		if n > 0 {
			ncolsNA++
		}
	}

	m := []metric{
		{"rows", nrows, true, pct(nrows, nrows), "rows"},
		{"columns", ncols, true, pct(ncols, ncols), "columns"},
		{"cells", ncells, true, pct(ncells, ncells), "cells"},
		{"rows_with_na", rowsNA, true, pct(rowsNA, nrows), "rows"},
		{"columns_with_na", ncolsNA, true, pct(ncolsNA, ncols), "columns"},
		{"cells_with_na", cellsNA, true, pct(cellsNA, ncells), "cells"},
	}
	for i, column := range tab.columns {
		unique := make(map[string]bool)
		for _, row := range tab.rows {
			if !isNA(row[i]) {
				unique[row[i]] = true
			}
		}
		m = append(m,
			metric{"column_na", colsNA[i], true, pct(colsNA[i], nrows), column},
			metric{"column_unique", len(unique), false, 0, column},
		)
	}
	return m
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func writeSummary(w io.Writer, tab *table) error {
	_, err := fmt.Fprintln(w, "metric\tcount\tpercent\tinfo")
	if err != nil {
		return err
	}
	for _, m := range summary(tab) {
		percent := ""
		if m.hasPct {
			percent = fmt.Sprintf("%5.2f", m.percent)
		}
		_, err = fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.name, m.count, percent, m.info)
		if err != nil {
			return err
		}
	}
	return nil
}

// series is a labelled sequence of numeric values to be described.
type series struct {
	label  string
	values []float64
}

// byColumn extracts the numeric columns of the table. A column is numeric
// when it has at least one value and every non-missing cell parses as a
// float.
func (tab *table) byColumn() []series {
	var out []series
	for i, column := range tab.columns {
		values := make([]float64, 0, len(tab.rows))
		ok := true
		for _, row := range tab.rows {
			if isNA(row[i]) {
				continue
			}
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				ok = false
				break
			}
			values = append(values, v)
		}
		if ok && len(values) > 0 {
			out = append(out, series{label: column, values: values})
		}
	}
	return out
}

// byRow extracts the numeric cells of each row, labelled by row index.
func (tab *table) byRow() []series {
	out := make([]series, 0, len(tab.rows))
	for n, row := range tab.rows {
		var values []float64
		for _, cell := range row {
			if isNA(cell) {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) > 0 {
			out = append(out, series{label: strconv.Itoa(n), values: values})
		}
	}
	return out
}

type statValue struct {
	category string
	value    float64
}

// describe summarizes one series in the count, mean, std, min, quartile,
// max order.
func describe(s series) []statValue {
	sorted := append([]float64(nil), s.values...)
	sort.Float64s(sorted)
	return []statValue{
		{"count", float64(len(sorted))},
		{"mean", stat.Mean(sorted, nil)},
		{"std", stat.StdDev(sorted, nil)},
		{"min", sorted[0]},
		{"25%", stat.Quantile(0.25, stat.Empirical, sorted, nil)},
		{"50%", stat.Quantile(0.5, stat.Empirical, sorted, nil)},
		{"75%", stat.Quantile(0.75, stat.Empirical, sorted, nil)},
		{"max", sorted[len(sorted)-1]},
	}
}

func writeDescribe(set []series, section string) error {
	file := strings.ReplaceAll(*pattern, "{section}", section)
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Printf("%s output goes to %q", section, file)

	w := bufio.NewWriter(f)
	_, err = fmt.Fprintln(w, "label\tcategory\tvalue")
	if err != nil {
		return err
	}
	for _, s := range set {
		for _, d := range describe(s) {
			_, err = fmt.Fprintf(w, "%s\t%s\t%g\n", s.label, d.category, d.value)
			if err != nil {
				return err
			}
		}
	}
	err = w.Flush()
	if err != nil {
		return err
	}
	return f.Close()
}
