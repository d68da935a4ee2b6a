// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ontology provides the category data model used by the enrichment
// tools and parsers for the OBO ontology format, GO-to-GOSlim maps,
// gene-to-category assignment tables and plain gene lists.
package ontology

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Canonical short codes for the three GO namespaces.
const (
	BiolProcess  = "biol_process"
	MolFunction  = "mol_function"
	CellLocation = "cell_location"
)

var namespaceAliases = map[string]string{
	"biological_process": BiolProcess,
	"molecular_function": MolFunction,
	"cellular_component": CellLocation,
}

// CanonicalNamespace returns the short code for a namespace name, or the
// name itself if no alias is known.
func CanonicalNamespace(name string) string {
	if short, ok := namespaceAliases[name]; ok {
		return short
	}
	return name
}

// Term is a single ontology entry read from an OBO [Term] stanza.
type Term struct {
	ID         string
	Name       string
	Namespace  string
	Definition string
	Synonym    string
	Comment    string
	IsA        []string
	Obsolete   bool
}

// ReadOBO reads an OBO formatted ontology, returning terms keyed by id.
// A default-namespace line outside any [Term] stanza sets the namespace
// for terms that do not carry their own.
func ReadOBO(r io.Reader) (map[string]*Term, error) {
	terms := make(map[string]*Term)
	defaultNamespace := "ontology"

	sc := bufio.NewScanner(r)
	var block []string
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		defer func() { block = block[:0] }()
		if block[0] != "[Term]" {
			for _, line := range block {
				key, value := splitTag(line)
				if key == "default-namespace" {
					defaultNamespace = value
				}
			}
			return nil
		}
		t := &Term{Namespace: defaultNamespace}
		for _, line := range block[1:] {
			key, value := splitTag(line)
			switch key {
			case "name":
				t.Name = value
			case "id":
				t.ID = value
			case "namespace":
				t.Namespace = CanonicalNamespace(value)
			case "def":
				t.Definition = value
			case "exact_synonym":
				t.Synonym = value
			case "is_a":
				t.IsA = append(t.IsA, value)
			case "comment":
				t.Comment = value
			case "is_obsolete":
				t.Obsolete = true
			}
		}
		if t.ID == "" {
			return fmt.Errorf("ontology: term stanza without id: %q", block)
		}
		terms[t.ID] = t
		return nil
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return terms, nil
}

func splitTag(line string) (key, value string) {
	fields := strings.SplitN(line, ":", 2)
	if len(fields) != 2 {
		return strings.TrimSpace(fields[0]), ""
	}
	return strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
}
