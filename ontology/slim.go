// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MissingTermError is returned when a slim mapping refers to a category
// that no description is known for.
type MissingTermError struct {
	From string
	To   string
}

func (e MissingTermError) Error() string {
	return fmt.Sprintf("ontology: no description for mapped term: %s -> %s", e.From, e.To)
}

// ReadSlimMap reads the output of map2slim, a map from category ids to the
// slim categories they collapse onto. Lines have the form
// "GO:a => GO:x GO:y // parents"; part_of lines are ignored.
func ReadSlimMap(r io.Reader) (map[string][]string, error) {
	slim := make(map[string][]string)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if strings.HasPrefix(text, "part_of") || strings.TrimSpace(text) == "" {
			continue
		}
		mapped := text
		if i := strings.Index(text, "//"); i >= 0 {
			mapped = text[:i]
		}
		fields := strings.SplitN(mapped, "=>", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("ontology: slim map line %d: no mapping in %q", line, text)
		}
		id := strings.TrimSpace(fields[0])
		var targets []string
		for _, s := range strings.Fields(fields[1]) {
			targets = append(targets, s)
		}
		if len(targets) == 0 {
			continue
		}
		slim[id] = targets
	}
	return slim, sc.Err()
}

// SlimTargets returns the sorted set of slim categories appearing as
// mapping targets.
func SlimTargets(slim map[string][]string) []string {
	set := make(map[string]bool)
	for _, targets := range slim {
		for _, t := range targets {
			set[t] = true
		}
	}
	targets := make([]string, 0, len(set))
	for t := range set {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// MapToSlim maps each gene's assignments onto slim categories. Descriptions
// for the slim categories are taken from terms when it is non-nil, and from
// the assignments themselves otherwise. Genes whose assignments all fall
// outside the slim map are omitted. A mapping target with no known
// description is a MissingTermError.
func MapToSlim(genes map[string][]Assignment, slim map[string][]string, terms map[string]*Term) (map[string][]Assignment, error) {
	info := make(map[string]Info)
	if terms != nil {
		for _, t := range terms {
			info[t.ID] = Info{TermID: t.ID, Namespace: t.Namespace, Description: t.Name}
		}
	} else {
		for _, as := range genes {
			for _, a := range as {
				info[a.TermID] = Info{TermID: a.TermID, Namespace: a.Namespace, Description: a.Description}
			}
		}
	}

	mapped := make(map[string][]Assignment)
	for gene, as := range genes {
		seen := make(map[string]bool)
		var slimmed []Assignment
		for _, a := range as {
			for _, target := range slim[a.TermID] {
				if seen[target] {
					continue
				}
				n, ok := info[target]
				if !ok {
					return nil, MissingTermError{From: a.TermID, To: target}
				}
				seen[target] = true
				slimmed = append(slimmed, Assignment{
					TermID:      n.TermID,
					Namespace:   n.Namespace,
					Description: n.Description,
					Evidence:    "NA",
				})
			}
		}
		if len(slimmed) != 0 {
			sort.Slice(slimmed, func(i, j int) bool { return slimmed[i].TermID < slimmed[j].TermID })
			mapped[gene] = slimmed
		}
	}
	return mapped, nil
}

// FilterByTerms returns the subset of gene assignments whose categories are
// present in terms, dropping genes left with no assignment.
func FilterByTerms(genes map[string][]Assignment, terms map[string]Info) map[string][]Assignment {
	filtered := make(map[string][]Assignment)
	for gene, as := range genes {
		var kept []Assignment
		for _, a := range as {
			if _, ok := terms[a.TermID]; ok {
				kept = append(kept, a)
			}
		}
		if len(kept) != 0 {
			filtered[gene] = kept
		}
	}
	return filtered
}
