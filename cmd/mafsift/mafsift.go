// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mafsift filters and reformats pairwise MAF alignment blocks read from
// standard input. Blocks can be dropped by target identifier or minimum
// alignment length, the target source name can be given a new prefix and
// query coordinates encoded as region strings can be shifted onto the
// genome.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

var (
	filterFile = flag.String("filter", "", "file with target identifiers to remove, one per line")
	setPrefix  = flag.String("set-prefix", "", "replace the target source species prefix")
	minLength  = flag.Int("min-length", 0, "remove blocks with target alignment length at or below this")
	shift      = flag.Bool("shift-region", false, "shift query coordinates out of contig:start-end source names")
	errFile    = flag.String("err", "", "log file name (default to stderr)")
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

	var skip map[string]bool
	if *filterFile != "" {
		var err error
		skip, err = readFilter(*filterFile)
		if err != nil {
			log.Fatalf("failed to read filter list from %q: %v", *filterFile, err)
		}
		log.Printf("read %d identifiers from %q", len(skip), *filterFile)
	}

	c, err := sift(os.Stdin, os.Stdout, skip)
	if err != nil {
		log.Fatalf("failed to process alignments: %v", err)
	}
	log.Printf("blocks_input=%d, blocks_skipped_id=%d, blocks_skipped_length=%d, blocks_output=%d",
		c.input, c.skippedID, c.skippedLength, c.output)
}

type counter struct {
	input         int
	skippedID     int
	skippedLength int
	output        int
}

// sift streams MAF blocks from r to w applying the configured filters and
// rewrites. Lines before the first alignment block pass through untouched.
func sift(r io.Reader, w io.Writer, skip map[string]bool) (counter, error) {
	var c counter
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	blocks := newBlockReader(r)
	for blocks.next() {
		block := blocks.block()
		if !isAlignment(block) {
			// MAF leader lines.
			err := writeBlock(bw, block)
			if err != nil {
				return c, err
			}
			continue
		}
		c.input++

		qi, ti := seqLines(block)
		if ti < 0 {
			c.output++
			err := writeBlock(bw, block)
			if err != nil {
				return c, err
			}
			continue
		}

		target, err := parseSeqLine(block[ti])
		if err != nil {
			return c, fmt.Errorf("bad target line %q: %v", block[ti], err)
		}
		if skip[target.src] {
			c.skippedID++
			continue
		}
		if *minLength != 0 && target.size <= *minLength {
			c.skippedLength++
			continue
		}
		if *setPrefix != "" {
			target.src = replacePrefix(target.src, *setPrefix)
			block[ti] = target.String()
		}

		if *shift && qi >= 0 {
			query, err := parseSeqLine(block[qi])
			if err != nil {
				return c, fmt.Errorf("bad query line %q: %v", block[qi], err)
			}
			contig, start, _, err := parseRegion(query.src)
			if err != nil {
				return c, fmt.Errorf("bad region in %q: %v", query.src, err)
			}
			query.src = contig
			query.start += start
			block = realign(block, qi, ti, query, target)
		}

		c.output++
		err = writeBlock(bw, block)
		if err != nil {
			return c, err
		}
	}
	return c, blocks.err()
}

// blockReader yields runs of lines delimited by "a" score lines. The first
// block holds any leader lines before the first alignment.
type blockReader struct {
	sc      *bufio.Scanner
	held    string
	hasHeld bool
	done    bool
	lines   []string
}

func newBlockReader(r io.Reader) *blockReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	return &blockReader{sc: sc}
}

func (b *blockReader) next() bool {
	if b.done {
		return false
	}
	b.lines = b.lines[:0]
	if b.hasHeld {
		b.lines = append(b.lines, b.held)
		b.hasHeld = false
	}
	for b.sc.Scan() {
		line := b.sc.Text()
		if strings.HasPrefix(line, "a") && len(b.lines) != 0 {
			b.held = line
			b.hasHeld = true
			return true
		}
		b.lines = append(b.lines, line)
	}
	b.done = true
	return len(b.lines) != 0
}

func (b *blockReader) block() []string { return b.lines }

func (b *blockReader) err() error { return b.sc.Err() }

func isAlignment(block []string) bool {
	return len(block) != 0 && strings.HasPrefix(block[0], "a")
}

// seqLines returns the indices of the query and target "s" lines of a
// pairwise block, or -1 where absent.
func seqLines(block []string) (query, target int) {
	query, target = -1, -1
	for i, line := range block {
		if !strings.HasPrefix(line, "s ") {
			continue
		}
		if query < 0 {
			query = i
			continue
		}
		target = i
		break
	}
	return query, target
}

type seqLine struct {
	src     string
	start   int
	size    int
	strand  string
	srcSize int
	text    string
}

func parseSeqLine(line string) (seqLine, error) {
	f := strings.Fields(line)
	if len(f) != 7 || f[0] != "s" {
		return seqLine{}, fmt.Errorf("expected 7 fields, got %d", len(f))
	}
	var (
		s   seqLine
		err error
	)
	s.src = f[1]
	s.start, err = strconv.Atoi(f[2])
	if err != nil {
		return seqLine{}, err
	}
	s.size, err = strconv.Atoi(f[3])
	if err != nil {
		return seqLine{}, err
	}
	s.strand = f[4]
	s.srcSize, err = strconv.Atoi(f[5])
	if err != nil {
		return seqLine{}, err
	}
	s.text = f[6]
	return s, nil
}

func (s seqLine) String() string {
	return fmt.Sprintf("s %s %d %d %s %d %s", s.src, s.start, s.size, s.strand, s.srcSize, s.text)
}

func (s seqLine) row() []string {
	return []string{"s", s.src, strconv.Itoa(s.start), strconv.Itoa(s.size), s.strand, strconv.Itoa(s.srcSize), s.text}
}

// replacePrefix substitutes the species part of a MAF source name, the text
// before the first dot. Names without a dot are replaced entirely.
func replacePrefix(src, prefix string) string {
	idx := strings.Index(src, ".")
	if idx < 0 {
		return prefix
	}
	return prefix + src[idx:]
}

// parseRegion splits a "contig:start-end" region string.
func parseRegion(s string) (contig string, start, end int, err error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return "", 0, 0, fmt.Errorf("no region in %q", s)
	}
	contig = s[:idx]
	span := s[idx+1:]
	sep := strings.Index(span, "-")
	if sep < 0 {
		return "", 0, 0, fmt.Errorf("no span in %q", s)
	}
	start, err = strconv.Atoi(span[:sep])
	if err != nil {
		return "", 0, 0, err
	}
	end, err = strconv.Atoi(span[sep+1:])
	if err != nil {
		return "", 0, 0, err
	}
	return contig, start, end, nil
}

// realign rewrites a block's sequence lines as an aligned table, keeping
// any other lines in place.
func realign(block []string, qi, ti int, query, target seqLine) []string {
	rows := [][]string{query.row(), target.row()}
	table := formatTabular(rows, "llrrrrl")
	out := make([]string, 0, len(block))
	for i, line := range block {
		switch i {
		case qi:
			out = append(out, table...)
		case ti:
			// Covered by the table.
		default:
			out = append(out, line)
		}
	}
	return out
}

// formatTabular pads rows to a fixed-width table. align holds one letter per
// column, 'l' for left justification, anything else for right.
func formatTabular(rows [][]string, align string) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, col := range row {
			if len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}
	lines := make([]string, 0, len(rows))
	var sb strings.Builder
	for _, row := range rows {
		sb.Reset()
		for i, col := range row {
			if i < len(align) && align[i] == 'l' {
				sb.WriteString(col)
				sb.WriteString(strings.Repeat(" ", widths[i]-len(col)))
			} else {
				sb.WriteString(strings.Repeat(" ", widths[i]-len(col)))
				sb.WriteString(col)
			}
			sb.WriteByte(' ')
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func writeBlock(w *bufio.Writer, block []string) error {
	for _, line := range block {
		_, err := fmt.Fprintln(w, line)
		if err != nil {
			return err
		}
	}
	return nil
}

func readFilter(file string) (map[string]bool, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	skip := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		skip[line] = true
	}
	return skip, sc.Err()
}
