// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// goe tests gene lists for enrichment or depletion of annotation categories
// such as GO terms. Categories are compared between a foreground and a
// background gene set with an exact hypergeometric test and multiple testing
// is controlled by an empirical false discovery rate computed by sampling.
//
// Each category namespace found in the assignment input is analyzed
// independently; a failure in one namespace does not stop the others.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gattools/gat/enrich"
	"github.com/gattools/gat/map2slim"
	"github.com/gattools/gat/ontology"
)

var (
	genesFile  = flag.String("genes", "-", "file with foreground gene list ('-' for stdin)")
	bgFile     = flag.String("background", "", "file with background gene list (default: all annotated genes)")
	inFile     = flag.String("input", "", "file with gene-to-category assignments (required)")
	oboFile    = flag.String("obo", "", "file with ontology in OBO format")
	slimsFile  = flag.String("slims", "", "file with GO-to-GOSlim map (map2slim output)")
	slimOBO    = flag.String("slim-obo", "", "slim ontology in OBO format; runs map2slim with -obo to build the -slims file")
	m2sPath    = flag.String("map2slim-path", "", "path to the map2slim executable")
	mapSlims   = flag.String("map-slims", "", "write the category-to-slim mapping to this file ('-' for stdout)")
	namespaces = flag.String("ontology", "", "comma separated namespaces to analyze (default: all in input)")
	pattern    = flag.String("pattern", "", "output filename pattern containing {go} and {section} (default: stdout)")
	samples    = flag.Int("sample", 0, "number of random samples for the empirical null distribution")
	seed       = flag.Int64("seed", 0, "random seed for sampling (default: time based)")
	doFDR      = flag.Bool("fdr", false, "compute FDRs and filter results by FDR")
	threshold  = flag.Float64("threshold", 0.05, "significance threshold (>1 reports all)")
	sortOrder  = flag.String("sort-order", "ratio", "output sort order: ratio, pover or fdr")
	genePat    = flag.String("gene-pattern", "", "regexp with one capture group extracting gene ids from list lines")
	getGenes   = flag.String("get-genes", "", "list foreground/background membership for this category and exit")
	strict     = flag.Bool("strict", false, "require all foreground genes to be part of the background instead of extending it")
	go2slim    = flag.Bool("go2slim", false, "convert assignments on stdin to GOSlim assignments on stdout and exit")
	plotNull   = flag.String("plot-null", "", "write a histogram of the sampled null p-values to this file (per namespace)")
	errFile    = flag.String("err", "", "log file name (default to stderr)")
)

func main() {
	flag.Parse()

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	if *go2slim {
		err := convertToSlim(os.Stdin, os.Stdout)
		if err != nil {
			log.Fatalf("failed to convert assignments to slim: %v", err)
		}
		return
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have an assignment input file")
		flag.Usage()
		os.Exit(1)
	}

	if *slimOBO != "" {
		err := buildSlimMap()
		if err != nil {
			log.Fatalf("failed to build slim map: %v", err)
		}
	}

	tables, err := readAssignments(*inFile)
	if err != nil {
		log.Fatalf("failed to read assignments from %q: %v", *inFile, err)
	}

	var terms map[string]*ontology.Term
	if *oboFile != "" {
		terms, err = readOntology(*oboFile)
		if err != nil {
			log.Fatalf("failed to read ontology from %q: %v", *oboFile, err)
		}
		log.Printf("read %d ontology terms from %q", len(terms), *oboFile)
	}

	foreground, err := readGeneList(*genesFile)
	if err != nil {
		log.Fatalf("failed to read foreground genes: %v", err)
	}
	log.Printf("read %d foreground genes from %q", len(foreground), *genesFile)

	var background []string
	if *bgFile != "" {
		background, err = readGeneList(*bgFile)
		if err != nil {
			log.Fatalf("failed to read background genes: %v", err)
		}
		log.Printf("read %d background genes from %q", len(background), *bgFile)
	}

	if *doFDR && *samples == 0 {
		log.Print("warning: fdr will be computed without sampling")
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Printf("random seed: %d", *seed)

	var analyze []string
	if *namespaces != "" {
		for _, namespace := range strings.Split(*namespaces, ",") {
			analyze = append(analyze, ontology.CanonicalNamespace(strings.TrimSpace(namespace)))
		}
	} else {
		for namespace := range tables {
			analyze = append(analyze, namespace)
		}
		sort.Strings(analyze)
	}

	rng := rand.New(rand.NewSource(*seed))
	var failed int
	for _, namespace := range analyze {
		err := analyzeNamespace(namespace, tables[namespace], terms, foreground, background, rng)
		if err != nil {
			log.Printf("analysis of %q failed: %v", namespace, err)
			failed++
		}
	}
	if failed == len(analyze) {
		os.Exit(1)
	}
}

// analyzeNamespace runs the complete enrichment pass for one category
// namespace. Failures are contained to the namespace.
func analyzeNamespace(namespace string, table *ontology.Table, terms map[string]*ontology.Term, foreground, background []string, rng *rand.Rand) error {
	if table == nil {
		return fmt.Errorf("no assignments for namespace %q", namespace)
	}

	ann := table.Genes
	info := table.Terms
	if terms != nil {
		// Restrict assignments to categories the ontology knows about,
		// dropping obsolete and alternate ids.
		info = infoFromOntology(terms, namespace)
		before := len(ann)
		ann = ontology.FilterByTerms(ann, info)
		if len(ann) != before {
			log.Printf("%s: %d genes left with no known category after ontology filtering", namespace, before-len(ann))
		}
	}

	ngenes, ncats, npairs := table.Counts()
	log.Printf("%s: read assignments: %d genes mapped to %d categories (%d maps)", namespace, ngenes, ncats, npairs)

	if background == nil {
		background = make([]string, 0, len(ann))
		for gene := range ann {
			background = append(background, gene)
		}
		sort.Strings(background)
	}
	background, err := reconcile(namespace, foreground, background)
	if err != nil {
		return err
	}

	if *slimsFile != "" {
		ann, info, err = applySlims(namespace, ann, terms)
		if err != nil {
			return err
		}
	}

	if *getGenes != "" {
		return writeMembership(os.Stdout, *getGenes, ann, foreground, background)
	}

	analysis, err := enrich.Analyze(ann, foreground, background)
	if err != nil {
		return err
	}
	if len(analysis.Sample.Annotated) == 0 {
		return fmt.Errorf("no foreground genes with category assignments")
	}

	var sampled *enrich.Sampled
	if *samples > 0 {
		log.Printf("%s: sampling %d random gene sets of size %d", namespace, *samples, len(foreground))
		sampled, err = enrich.Sample(ann, len(foreground), background, *samples, rng)
		if err != nil {
			return err
		}
		err = writeSamples(namespace, sampled, info)
		if err != nil {
			return err
		}
		if *plotNull != "" {
			err = plotNullDistribution(namespace, sampled)
			if err != nil {
				return err
			}
		}
	}

	var fdrs map[string]enrich.FDR
	if *doFDR {
		if sampled != nil {
			fdrs = enrich.FDRBySampling(analysis.Results, sampled.MinP, sampled.N)
		} else {
			fdrs = closedFormFDR(analysis.Results)
		}
	}

	ids := sortResults(analysis.Results, fdrs)

	// Count and report the significant categories first so that the
	// expected false positive column can be derived from the selection.
	var selected []string
	for _, id := range ids {
		if significant(analysis.Results[id], fdrs) {
			selected = append(selected, id)
		}
	}

	err = writeResults(namespace, "results", selected, analysis, info, fdrs, sampled, len(selected))
	if err != nil {
		return err
	}
	err = writeResults(namespace, "overall", ids, analysis, info, fdrs, sampled, len(selected))
	if err != nil {
		return err
	}
	err = writeParameters(namespace, table, analysis, foreground, background, len(selected))
	if err != nil {
		return err
	}
	return writeForeground(namespace, ids, analysis, info, ann, foreground)
}

// reconcile checks that the foreground is contained in the background. In
// strict mode missing genes are fatal for the namespace; otherwise the
// background is extended with the missing genes.
func reconcile(namespace string, foreground, background []string) ([]string, error) {
	have := make(map[string]bool, len(background))
	for _, gene := range background {
		have[gene] = true
	}
	var missing []string
	for _, gene := range foreground {
		if !have[gene] {
			missing = append(missing, gene)
		}
	}
	if len(missing) == 0 {
		return background, nil
	}
	if *strict {
		return nil, fmt.Errorf("%d foreground genes not in background: %s", len(missing), strings.Join(missing, ","))
	}
	log.Printf("%s: warning: %d foreground genes not in background - added to background of %d",
		namespace, len(missing), len(background))
	return append(append([]string(nil), background...), missing...), nil
}

// applySlims maps the namespace's assignments onto GOSlim categories,
// returning the remapped assignments and the descriptions to report with.
func applySlims(namespace string, ann map[string][]ontology.Assignment, terms map[string]*ontology.Term) (map[string][]ontology.Assignment, map[string]ontology.Info, error) {
	f, err := os.Open(*slimsFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	slim, err := ontology.ReadSlimMap(f)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("%s: read go slims from %q: go=%d, slim=%d",
		namespace, *slimsFile, len(slim), len(ontology.SlimTargets(slim)))

	if *mapSlims != "" {
		err = dumpSlimMap(*mapSlims, slim)
		if err != nil {
			return nil, nil, err
		}
	}

	mapped, err := ontology.MapToSlim(ann, slim, terms)
	if err != nil {
		return nil, nil, err
	}
	info := make(map[string]ontology.Info)
	for _, as := range mapped {
		for _, a := range as {
			info[a.TermID] = ontology.Info{TermID: a.TermID, Namespace: a.Namespace, Description: a.Description}
		}
	}
	return mapped, info, nil
}

func dumpSlimMap(file string, slim map[string][]string) error {
	w := os.Stdout
	if file != "-" {
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := fmt.Fprintln(w, "GO\tGOSlim")
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(slim))
	for id := range slim {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		_, err = fmt.Fprintf(w, "%s\t%s\n", id, strings.Join(slim[id], " "))
		if err != nil {
			return err
		}
	}
	return nil
}

// infoFromOntology builds the per-category description table for one
// namespace from a full ontology.
func infoFromOntology(terms map[string]*ontology.Term, namespace string) map[string]ontology.Info {
	info := make(map[string]ontology.Info)
	for _, t := range terms {
		if t.Namespace != namespace {
			continue
		}
		info[t.ID] = ontology.Info{TermID: t.ID, Namespace: t.Namespace, Description: t.Name}
	}
	return info
}

func significant(r *enrich.Result, fdrs map[string]enrich.FDR) bool {
	if fdrs != nil {
		return fdrs[r.TermID].Value < *threshold
	}
	return r.P() < *threshold
}

// sortResults orders category ids by the requested sort order.
func sortResults(results map[string]*enrich.Result, fdrs map[string]enrich.FDR) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	switch *sortOrder {
	case "fdr":
		if fdrs == nil {
			log.Print("warning: no fdr values to sort by, sorting by ratio")
			sortByRatio(ids, results)
			break
		}
		sort.Slice(ids, func(i, j int) bool {
			fi, fj := fdrs[ids[i]], fdrs[ids[j]]
			if fi.Value != fj.Value {
				return fi.Value < fj.Value
			}
			return ids[i] < ids[j]
		})
	case "pover":
		sort.Slice(ids, func(i, j int) bool {
			ri, rj := results[ids[i]], results[ids[j]]
			if ri.POver != rj.POver {
				return ri.POver < rj.POver
			}
			return ids[i] < ids[j]
		})
	default:
		sortByRatio(ids, results)
	}
	return ids
}

func sortByRatio(ids []string, results map[string]*enrich.Result) {
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := results[ids[i]], results[ids[j]]
		switch {
		case ri.HasRatio != rj.HasRatio:
			// Undefined ratios sort last.
			return ri.HasRatio
		case ri.Ratio != rj.Ratio:
			return ri.Ratio < rj.Ratio
		}
		return ids[i] < ids[j]
	})
}

// closedFormFDR is the fallback used when no sampling was requested.
func closedFormFDR(results map[string]*enrich.Result) map[string]enrich.FDR {
	log.Print("warning: computing fdr without sampling via q-values")
	ids := make([]string, 0, len(results))
	pvals := make([]float64, 0, len(results))
	for id, r := range results {
		ids = append(ids, id)
		pvals = append(pvals, r.P())
	}
	qvals := enrich.QValues(pvals)
	fdrs := make(map[string]enrich.FDR, len(ids))
	for i, id := range ids {
		fdrs[id] = enrich.FDR{Value: qvals[i], Expected: 1, Observed: 1}
	}
	return fdrs
}

// section opens the output destination for one (namespace, section) pair.
// With no pattern set all output goes to stdout.
func section(namespace, name string) (io.WriteCloser, error) {
	if *pattern == "" {
		return nopCloser{os.Stdout}, nil
	}
	file := strings.NewReplacer("{go}", namespace, "{section}", name).Replace(*pattern)
	err := os.MkdirAll(filepath.Dir(file), 0755)
	if err != nil {
		return nil, err
	}
	log.Printf("%s output goes to %q", name, file)
	return os.Create(file)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func writeResults(namespace, name string, ids []string, analysis *enrich.Analysis, info map[string]ontology.Info, fdrs map[string]enrich.FDR, sampled *enrich.Sampled, nselected int) error {
	w, err := section(namespace, name)
	if err != nil {
		return err
	}
	defer w.Close()

	headers := []string{
		"code",
		"scount", "stotal", "spercent",
		"bcount", "btotal", "bpercent",
		"ratio",
		"pvalue", "pover", "punder",
		"goid", "category", "description",
	}
	if fdrs != nil {
		headers = append(headers, "fdr")
	}
	if sampled != nil {
		headers = append(headers, "min", "max", "zscore", "mpover", "mpunder",
			"nfdr_expected", "CI95lower", "CI95upper")
	}
	_, err = fmt.Fprintln(w, strings.Join(headers, "\t"))
	if err != nil {
		return err
	}

	for _, id := range ids {
		r := analysis.Results[id]
		_, err = fmt.Fprintf(w, "%s\t%s\t%s", r.Code(), r.Columns(), info[id].Columns())
		if err != nil {
			return err
		}
		var fdr float64
		if fdrs != nil {
			fdr = fdrs[id].Value
			_, err = fmt.Fprintf(w, "\t%f", fdr)
			if err != nil {
				return err
			}
		}
		if sampled != nil {
			s, ok := sampled.Stats[id]
			if !ok {
				return fmt.Errorf("category %s not in samples", id)
			}
			_, err = fmt.Fprintf(w, "\t%d\t%d\t%f\t%5.2e\t%5.2e\t%6.4f\t%6.4f\t%6.4f",
				s.Min, s.Max,
				s.ZScore(r.SampleCount),
				s.POver[0], s.PUnder[0],
				float64(nselected)*fdr,
				s.Quantile(0.05), s.Quantile(0.95),
			)
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(w)
		if err != nil {
			return err
		}
	}
	return w.Close()
}

func writeSamples(namespace string, sampled *enrich.Sampled, info map[string]ontology.Info) error {
	w, err := section(namespace, "samples")
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = fmt.Fprintln(w, strings.Join([]string{
		"goid", "min", "max", "mean", "median", "stddev",
		"CI95lower", "CI95upper", "pover", "punder",
		"goid", "category", "description",
	}, "\t"))
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(sampled.Stats))
	for id := range sampled.Stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := sampled.Stats[id]
		_, err = fmt.Fprintf(w, "%s\t%d\t%d\t%f\t%f\t%f\t%f\t%f\t%f\t%f\t%s\n",
			id, s.Min, s.Max, s.Mean, s.Quantile(0.5), s.StdDev,
			s.Quantile(0.05), s.Quantile(0.95),
			s.POver[0], s.PUnder[0],
			sampleInfo(info, id),
		)
		if err != nil {
			return err
		}
	}
	return w.Close()
}

// sampleInfo renders the description columns for a sampled category,
// with "?" placeholders when the term is not known to the ontology.
func sampleInfo(info map[string]ontology.Info, id string) string {
	n, ok := info[id]
	if !ok {
		return "?\t?\t?"
	}
	return n.Columns()
}

func writeParameters(namespace string, table *ontology.Table, analysis *enrich.Analysis, foreground, background []string, nselected int) error {
	w, err := section(namespace, "parameters")
	if err != nil {
		return err
	}
	defer w.Close()

	ngenes, ncats, npairs := table.Counts()
	_, err = fmt.Fprintf(w, "# input go mappings for category '%s'\n", namespace)
	if err != nil {
		return err
	}
	for _, p := range []struct {
		value interface{}
		name  string
	}{
		{ngenes, "mapped genes"},
		{ncats, "mapped categories"},
		{npairs, "mappings"},
		{len(foreground), "genes in sample"},
		{len(analysis.Sample.Annotated), "genes in sample with GO assignments"},
		{len(background), "input background"},
		{len(analysis.Background.Annotated), "genes in background with GO assignments"},
		{analysis.Sample.Total, "associations in sample"},
		{analysis.Background.Total, "associations in background"},
		{fmt.Sprintf("%5.2f", pct(len(analysis.Sample.Annotated), len(foreground))), "percent genes in sample with GO assignments"},
		{fmt.Sprintf("%5.2f", pct(len(analysis.Background.Annotated), len(background))), "percent genes background with GO assignments"},
		{*samples, "sampling repetitions"},
		{*seed, "random seed"},
		{nselected, "significant results reported"},
		{fmt.Sprintf("%6.4f", *threshold), "significance threshold"},
	} {
		_, err = fmt.Fprintf(w, "%v\t%s\n", p.value, p.name)
		if err != nil {
			return err
		}
	}
	return w.Close()
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// writeForeground writes per-category foreground gene membership.
func writeForeground(namespace string, ids []string, analysis *enrich.Analysis, info map[string]ontology.Info, ann map[string][]ontology.Assignment, foreground []string) error {
	w, err := section(namespace, "fg")
	if err != nil {
		return err
	}
	defer w.Close()

	inForeground := make(map[string]bool, len(foreground))
	for _, gene := range foreground {
		inForeground[gene] = true
	}
	members := make(map[string][]string)
	for gene, as := range ann {
		if !inForeground[gene] {
			continue
		}
		for _, a := range as {
			members[a.TermID] = append(members[a.TermID], gene)
		}
	}
	for _, genes := range members {
		sort.Strings(genes)
	}

	_, err = fmt.Fprintln(w, strings.Join([]string{
		"code",
		"scount", "stotal", "spercent",
		"bcount", "btotal", "bpercent",
		"ratio",
		"pvalue", "pover", "punder",
		"goid", "category", "description", "fg",
	}, "\t"))
	if err != nil {
		return err
	}
	for _, id := range ids {
		r := analysis.Results[id]
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.Code(), r.Columns(), info[id].Columns(), strings.Join(members[id], ";"))
		if err != nil {
			return err
		}
	}
	return w.Close()
}

// writeMembership lists for one category which genes are in the foreground,
// the background only, or neither.
func writeMembership(w io.Writer, id string, ann map[string][]ontology.Assignment, foreground, background []string) error {
	inForeground := make(map[string]bool, len(foreground))
	for _, gene := range foreground {
		inForeground[gene] = true
	}
	inBackground := make(map[string]bool, len(background))
	for _, gene := range background {
		inBackground[gene] = true
	}

	var fg, bg, ng []string
	for gene, as := range ann {
		for _, a := range as {
			if a.TermID != id {
				continue
			}
			switch {
			case inForeground[gene]:
				fg = append(fg, gene)
			case inBackground[gene]:
				bg = append(bg, gene)
			default:
				ng = append(ng, gene)
			}
			break
		}
	}
	sort.Strings(fg)
	sort.Strings(bg)
	sort.Strings(ng)

	_, err := fmt.Fprintf(w, "# genes in category %s\ngene\tset\n", id)
	if err != nil {
		return err
	}
	for _, s := range []struct {
		name  string
		genes []string
	}{{"fg", fg}, {"bg", bg}, {"ng", ng}} {
		for _, gene := range s.genes {
			_, err = fmt.Fprintf(w, "%s\t%s\n", s.name, gene)
			if err != nil {
				return err
			}
		}
	}
	log.Printf("category %s: nfg=%d, nbg=%d, nng=%d", id, len(fg), len(bg), len(ng))
	return nil
}

// plotNullDistribution draws a histogram of the pooled simulated minimum
// p-values.
func plotNullDistribution(namespace string, sampled *enrich.Sampled) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	h, err := plotter.NewHist(plotter.Values(sampled.MinP), 50)
	if err != nil {
		return err
	}
	p.Add(h)
	p.Title.Text = fmt.Sprintf("%s null distribution (%d samples)", namespace, sampled.N)
	p.X.Label.Text = "min p-value"
	p.Y.Label.Text = "count"

	file := *plotNull
	if strings.Contains(file, "{go}") {
		file = strings.ReplaceAll(file, "{go}", namespace)
	} else {
		file = namespace + "." + file
	}
	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, file)
}

// convertToSlim reads gene-to-category assignments and writes the
// corresponding gene-to-GOSlim assignments.
func convertToSlim(r io.Reader, w io.Writer) error {
	if *oboFile == "" {
		return fmt.Errorf("an ontology is required to convert to slim categories")
	}
	if *slimsFile == "" {
		return fmt.Errorf("a slim map is required to convert to slim categories")
	}

	log.Print("reading assignments from stdin")
	tables, err := ontology.ReadAssignments(r)
	if err != nil {
		return err
	}
	terms, err := readOntology(*oboFile)
	if err != nil {
		return err
	}
	sf, err := os.Open(*slimsFile)
	if err != nil {
		return err
	}
	slim, err := ontology.ReadSlimMap(sf)
	sf.Close()
	if err != nil {
		return err
	}

	mapped := make(map[string]*ontology.Table, len(tables))
	for namespace, table := range tables {
		genes, err := ontology.MapToSlim(table.Genes, slim, terms)
		if err != nil {
			return err
		}
		t := &ontology.Table{Genes: genes, Terms: make(map[string]ontology.Info)}
		for _, as := range genes {
			for _, a := range as {
				t.Terms[a.TermID] = ontology.Info{TermID: a.TermID, Namespace: a.Namespace, Description: a.Description}
			}
		}
		mapped[namespace] = t

		nin, cin, _ := table.Counts()
		nout, cout, pairs := t.Counts()
		log.Printf("%s: ninput_genes=%d, ninput_goids=%d, noutput_genes=%d, noutput_goids=%d, noutput=%d",
			namespace, nin, cin, nout, cout, pairs)
	}
	return ontology.WriteAssignments(w, mapped)
}

// buildSlimMap runs the external map2slim tool to derive the GO-to-GOSlim
// map consumed by -slims.
func buildSlimMap() error {
	if *oboFile == "" {
		return fmt.Errorf("an ontology is required to build a slim map")
	}
	if *slimsFile == "" {
		return fmt.Errorf("no -slims destination for the generated map")
	}
	m := map2slim.Map2Slim{
		Cmd:          *m2sPath,
		OutMap:       *slimsFile,
		SlimOntology: *slimOBO,
		Ontology:     *oboFile,
	}
	cmd, err := m.BuildCommand()
	if err != nil {
		return err
	}
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	log.Printf("running %q", strings.Join(cmd.Args, " "))
	return cmd.Run()
}

func readAssignments(file string) (map[string]*ontology.Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ontology.ReadAssignments(f)
}

func readOntology(file string) (map[string]*ontology.Term, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ontology.ReadOBO(f)
}

func readGeneList(file string) ([]string, error) {
	r := os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return ontology.ReadGeneList(r, *genePat)
}
