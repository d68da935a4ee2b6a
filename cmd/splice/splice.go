// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// splice merges a multi-FASTA of exon sequences into a multi-FASTA of
// spliced cDNA sequences. Records sharing an identifier are concatenated
// in input order into a single record, and records are written sorted
// by identifier.
package main

import (
	"flag"
	"log"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

var (
	in      = flag.String("in", "", "input FASTA file of exon sequences ('-' for stdin)")
	out     = flag.String("out", "", "output FASTA file (default to stdout)")
	errFile = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()
	if *in == "" {
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

	r := os.Stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatalf("failed to open %q: %v", *in, err)
		}
		defer f.Close()
		r = f
	}

	spliced := make(map[string]*linear.Seq)
	var exons, transcripts int
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		exons++
		t, ok := spliced[s.ID]
		if !ok {
			transcripts++
			spliced[s.ID] = s
			continue
		}
		t.Seq = append(t.Seq, s.Seq...)
	}
	err := sc.Error()
	if err != nil {
		log.Fatalf("failed to read %q: %v", *in, err)
	}
	log.Printf("spliced %d exon records into %d transcripts", exons, transcripts)

	ids := make([]string, 0, len(spliced))
	for id := range spliced {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	o := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("failed to create %q: %v", *out, err)
		}
		defer f.Close()
		o = f
	}
	w := fasta.NewWriter(o, 60)
	for _, id := range ids {
		_, err = w.Write(spliced[id])
		if err != nil {
			log.Fatalf("failed to write %q: %v", id, err)
		}
	}
}
