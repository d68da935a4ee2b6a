// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// bedtab annotates BED intervals read from standard input with counters.
//
// The overlap counter reports, for each track of a second BED file, the
// number of track intervals overlapping the input interval and the number
// of overlapped bases.
//
// The peaks counter reports read pileup statistics (length, nreads, avgval,
// peakval, npeaks, peakcenter) from one or more indexed BAM files, with
// optional tag offsets following the MACS shifting protocol, and optionally
// repeats the statistics for a control set of BAM files.
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

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/bed"
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/biogo/store/interval"
)

var (
	counterList = flag.String("counter", "", "comma separated counters to apply: overlap, peaks")
	bedFile     = flag.String("bed", "", "BED file with intervals for the overlap counter")
	bamFiles    = flag.String("bam", "", "comma separated BAM files for the peaks counter (each needs a .bai index)")
	offsetList  = flag.String("offset", "", "comma separated tag offsets, one per BAM file")
	ctrlFiles   = flag.String("control-bam", "", "comma separated control BAM files for the peaks counter")
	ctrlOffsets = flag.String("control-offset", "", "comma separated control tag offsets, one per control BAM file")
	bedHeaders  = flag.String("bed-headers", "contig,start,end,name", "comma separated headers for the bed columns")
	errFile     = flag.String("err", "", "log file name (default to stderr)")
)

// annotator computes counter columns for one interval.
type annotator interface {
	headers() []string
	update(b *bed.Bed4) (string, error)
}

func main() {
	flag.Parse()
	if *counterList == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *errFile != "" {
		f, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var counters []annotator
	for _, c := range strings.Split(*counterList, ",") {
		switch c {
		case "overlap":
			if *bedFile == "" {
				log.Fatal("overlap counter needs a bed file")
			}
			ov, err := newOverlapCounter(*bedFile)
			if err != nil {
				log.Fatalf("failed to read intervals from %q: %v", *bedFile, err)
			}
			counters = append(counters, ov)
		case "peaks":
			if *bamFiles == "" {
				log.Fatal("peaks counter needs bam files")
			}
			pk, err := newPeaksCounter(*bamFiles, *offsetList, *ctrlFiles, *ctrlOffsets)
			if err != nil {
				log.Fatalf("failed to set up peaks counter: %v", err)
			}
			defer pk.Close()
			counters = append(counters, pk)
		default:
			log.Fatalf("unknown counter %q", c)
		}
	}

	err := annotate(os.Stdin, os.Stdout, counters)
	if err != nil {
		log.Fatalf("failed to annotate intervals: %v", err)
	}
}

func annotate(r io.Reader, w io.Writer, counters []annotator) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	headers := strings.Split(*bedHeaders, ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	for _, c := range counters {
		headers = append(headers, c.headers()...)
	}
	_, err := fmt.Fprintln(bw, strings.Join(headers, "\t"))
	if err != nil {
		return err
	}

	br, err := bed.NewReader(r, 4)
	if err != nil {
		return err
	}
	var n int
	sc := featio.NewScanner(br)
	for sc.Next() {
		b := sc.Feat().(*bed.Bed4)
		n++
		_, err = fmt.Fprintf(bw, "%s\t%d\t%d\t%s", b.Chrom, b.ChromStart, b.ChromEnd, b.FeatName)
		if err != nil {
			return err
		}
		for _, c := range counters {
			cols, err := c.update(b)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(bw, "\t%s", cols)
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(bw)
		if err != nil {
			return err
		}
	}
	err = sc.Error()
	if err != nil {
		return err
	}
	log.Printf("annotated %d intervals", n)
	return bw.Flush()
}

// overlapCounter holds per-track interval trees keyed by contig.
type overlapCounter struct {
	tracks []string
	trees  map[string]map[string]*interval.IntTree
}

// newOverlapCounter reads a BED file, grouping intervals by "track" lines.
// Intervals before the first track line belong to the "default" track.
func newOverlapCounter(file string) (*overlapCounter, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ov := &overlapCounter{trees: make(map[string]map[string]*interval.IntTree)}
	name := "default"
	var (
		section strings.Builder
		id      uintptr
	)
	flush := func() error {
		if section.Len() == 0 {
			return nil
		}
		id, err = ov.add(name, section.String(), id)
		section.Reset()
		return err
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "track") {
			err = flush()
			if err != nil {
				return nil, err
			}
			name = trackName(line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		section.WriteString(line)
		section.WriteByte('\n')
	}
	err = sc.Err()
	if err != nil {
		return nil, err
	}
	err = flush()
	if err != nil {
		return nil, err
	}

	for _, trees := range ov.trees {
		for _, t := range trees {
			t.AdjustRanges()
		}
	}
	log.Printf("read intervals for %d tracks from %q", len(ov.tracks), file)
	return ov, nil
}

// add parses one track section and inserts its intervals.
func (ov *overlapCounter) add(name, section string, id uintptr) (uintptr, error) {
	br, err := bed.NewReader(strings.NewReader(section), 3)
	if err != nil {
		return id, err
	}
	trees, ok := ov.trees[name]
	if !ok {
		trees = make(map[string]*interval.IntTree)
		ov.trees[name] = trees
		ov.tracks = append(ov.tracks, name)
	}
	sc := featio.NewScanner(br)
	for sc.Next() {
		id++
		b := sc.Feat().(*bed.Bed3)
		t, ok := trees[b.Chrom]
		if !ok {
			t = &interval.IntTree{}
			trees[b.Chrom] = t
		}
		err = t.Insert(bedInterval{b, id}, true)
		if err != nil {
			return id, err
		}
	}
	return id, sc.Error()
}

// trackName extracts the name attribute of a BED track line.
func trackName(line string) string {
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, "name=") {
			return strings.Trim(field[len("name="):], `"`)
		}
	}
	return "default"
}

func (ov *overlapCounter) headers() []string {
	var h []string
	for _, track := range ov.tracks {
		h = append(h, track+"_nover", track+"_bases")
	}
	return h
}

func (ov *overlapCounter) update(b *bed.Bed4) (string, error) {
	cols := make([]string, 0, 2*len(ov.tracks))
	for _, track := range ov.tracks {
		var hits []interval.IntInterface
		if t, ok := ov.trees[track][b.Chrom]; ok {
			hits = t.Get(bedInterval{&bed.Bed3{Chrom: b.Chrom, ChromStart: b.ChromStart, ChromEnd: b.ChromEnd}, 0})
		}
		spans := make([][2]int, len(hits))
		for i, h := range hits {
			r := h.Range()
			spans[i] = [2]int{r.Start, r.End}
		}
		bases := overlapBases(b.ChromStart, b.ChromEnd, spans)
		cols = append(cols, strconv.Itoa(len(hits)), strconv.Itoa(bases))
	}
	return strings.Join(cols, "\t"), nil
}

// overlapBases returns the number of bases of [start,end) covered by the
// union of the spans.
func overlapBases(start, end int, spans [][2]int) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	var (
		bases    int
		from, to = spans[0][0], spans[0][1]
	)
	count := func(s, e int) {
		s = max(s, start)
		e = min(e, end)
		if e > s {
			bases += e - s
		}
	}
	for _, s := range spans[1:] {
		if s[0] > to {
			count(from, to)
			from, to = s[0], s[1]
			continue
		}
		to = max(to, s[1])
	}
	count(from, to)
	return bases
}

type bedInterval struct {
	*bed.Bed3
	id uintptr
}

func (b bedInterval) ID() uintptr { return b.id }
func (b bedInterval) Range() interval.IntRange {
	return interval.IntRange{Start: b.ChromStart, End: b.ChromEnd}
}
func (b bedInterval) Overlap(r interval.IntRange) bool {
	// Half-open interval indexing.
	return b.ChromEnd > r.Start && b.ChromStart < r.End
}

// peaksCounter computes read pileup statistics over intervals.
type peaksCounter struct {
	readers  []*bamReader
	offsets  []int
	controls []*bamReader
	ctrlOffs []int
}

func newPeaksCounter(bams, offsets, controls, ctrlOffsets string) (*peaksCounter, error) {
	pk := &peaksCounter{}
	var err error
	pk.readers, err = openBAMs(bams)
	if err != nil {
		return nil, err
	}
	pk.offsets, err = parseOffsets(offsets, len(pk.readers))
	if err != nil {
		return nil, err
	}
	if controls != "" {
		pk.controls, err = openBAMs(controls)
		if err != nil {
			return nil, err
		}
		pk.ctrlOffs, err = parseOffsets(ctrlOffsets, len(pk.controls))
		if err != nil {
			return nil, err
		}
	}
	return pk, nil
}

func parseOffsets(list string, n int) ([]int, error) {
	if list == "" {
		return nil, nil
	}
	fields := strings.Split(list, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("got %d offsets for %d bam files", len(fields), n)
	}
	offsets := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		if v == 0 {
			log.Print("warning: 0 offset will result in no data")
		}
		offsets[i] = v
	}
	return offsets, nil
}

func openBAMs(list string) ([]*bamReader, error) {
	var readers []*bamReader
	for _, file := range strings.Split(list, ",") {
		r, err := openBAM(strings.TrimSpace(file))
		if err != nil {
			return nil, err
		}
		readers = append(readers, r)
	}
	return readers, nil
}

func (pk *peaksCounter) headers() []string {
	h := []string{"length", "nreads", "avgval", "peakval", "npeaks", "peakcenter"}
	if pk.controls != nil {
		for _, f := range []string{"length", "nreads", "avgval", "peakval", "npeaks", "peakcenter"} {
			h = append(h, "control_"+f)
		}
	}
	return h
}

func (pk *peaksCounter) update(b *bed.Bed4) (string, error) {
	r, err := pileup(b, pk.readers, pk.offsets)
	if err != nil {
		return "", err
	}
	cols := r.columns()
	if pk.controls != nil {
		c, err := pileup(b, pk.controls, pk.ctrlOffs)
		if err != nil {
			return "", err
		}
		cols += "\t" + c.columns()
	}
	return cols, nil
}

func (pk *peaksCounter) Close() error {
	var first error
	for _, r := range append(pk.readers, pk.controls...) {
		err := r.Close()
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// peaksResult holds the pileup statistics for one interval.
type peaksResult struct {
	length     int
	nreads     int
	avgval     float64
	peakval    int
	npeaks     int
	peakcenter int
}

func (r peaksResult) columns() string {
	return fmt.Sprintf("%d\t%d\t%g\t%d\t%d\t%d",
		r.length, r.nreads, r.avgval, r.peakval, r.npeaks, r.peakcenter)
}

// pileup accumulates per-position read counts over the interval. With
// offsets, tags are shifted following the MACS protocol: only the read
// start is used, shifted downstream by offset/2 on the forward strand and
// upstream from the alignment end on the reverse strand, then extended by
// offset/2.
func pileup(b *bed.Bed4, readers []*bamReader, offsets []int) (peaksResult, error) {
	start, end := b.ChromStart, b.ChromEnd
	length := end - start
	if length <= 0 {
		return peaksResult{peakcenter: start}, nil
	}
	counts := make([]int, length)
	var nreads int

	if offsets != nil {
		for i, r := range readers {
			offset := offsets[i]
			shift := offset / 2
			xstart, xend := max(0, start-shift), max(0, end+shift)
			err := r.fetch(b.Chrom, xstart, xend, func(rec *sam.Record) {
				nreads++
				if rec.Flags&sam.Unmapped != 0 {
					return
				}
				var rstart int
				if rec.Flags&sam.Reverse != 0 {
					rstart = rec.End() - offset
				} else {
					rstart = rec.Start() + shift
				}
				rend := rstart + shift
				accumulate(counts, rstart-start, rend-start)
			})
			if err != nil {
				return peaksResult{}, err
			}
		}
	} else {
		for _, r := range readers {
			err := r.fetch(b.Chrom, start, end, func(rec *sam.Record) {
				nreads++
				accumulate(counts, rec.Start()-start, rec.Start()-start+rec.Seq.Length)
			})
			if err != nil {
				return peaksResult{}, err
			}
		}
	}

	var sum, peakval int
	for _, c := range counts {
		sum += c
		if c > peakval {
			peakval = c
		}
	}
	var (
		npeaks int
		peaks  []int
	)
	for pos, c := range counts {
		if c >= peakval {
			npeaks++
			peaks = append(peaks, pos)
		}
	}
	return peaksResult{
		length:     length,
		nreads:     nreads,
		avgval:     float64(sum) / float64(length),
		peakval:    peakval,
		npeaks:     npeaks,
		peakcenter: start + peaks[npeaks/2],
	}, nil
}

func accumulate(counts []int, from, to int) {
	from = max(0, from)
	to = min(len(counts), to)
	for i := from; i < to; i++ {
		counts[i]++
	}
}

// bamReader is a BAM/BAI pair supporting indexed region fetches.
type bamReader struct {
	f   *os.File
	r   *bam.Reader
	h   *sam.Header
	idx *bam.Index
}

// openBAM returns a reader based on path and path.bai.
func openBAM(path string) (*bamReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bam file: %v", err)
	}
	r, err := bam.NewReader(f, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open bam stream: %v", err)
	}

	ir, err := os.Open(path + ".bai")
	if err != nil {
		return nil, fmt.Errorf("failed to open bai file: %v", err)
	}
	idx, err := bam.ReadIndex(ir)
	if err != nil {
		return nil, fmt.Errorf("failed to open bai data: %v", err)
	}
	ir.Close()

	return &bamReader{f: f, r: r, h: r.Header(), idx: idx}, nil
}

// fetch calls fn for each record overlapping [start,end) on the contig.
func (r *bamReader) fetch(contig string, start, end int, fn func(*sam.Record)) error {
	ref, ok := getReference(r.h.Refs(), contig)
	if !ok {
		return fmt.Errorf("could not find reference for %q", contig)
	}
	chunks, err := r.idx.Chunks(ref, max(0, start), min(ref.Len(), end))
	if err != nil {
		return fmt.Errorf("failed to get chunks: %v", err)
	}
	it, err := bam.NewIterator(r.r, chunks)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %v", err)
	}
	defer it.Close()

	for it.Next() {
		rec := it.Record()
		if rec.End() > start && rec.Start() < end {
			fn(rec)
		}
	}
	return it.Error()
}

// getReference returns the sam.Reference with the specified name.
func getReference(refs []*sam.Reference, name string) (ref *sam.Reference, ok bool) {
	for _, r := range refs {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Close closes the bam.Reader held by the reader.
func (r *bamReader) Close() error {
	err := r.r.Close()
	if err != nil {
		return err
	}
	return r.f.Close()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
