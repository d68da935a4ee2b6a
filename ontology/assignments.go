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

// Assignment records one category assigned to a gene.
type Assignment struct {
	TermID      string
	Namespace   string
	Description string
	Evidence    string
}

// Info is the descriptive part of a category, independent of any gene.
type Info struct {
	TermID      string
	Namespace   string
	Description string
}

// Columns returns the tab separated goid, category and description fields
// used in result tables. The zero Info renders as empty columns.
func (n Info) Columns() string {
	if n.TermID == "" {
		return "\t\t"
	}
	return fmt.Sprintf("%s\t%s\t%s", n.TermID, n.Namespace, n.Description)
}

// Table holds the assignments of one namespace: a read-only map from gene
// id to its category assignments and a map from category id to its
// description.
type Table struct {
	Genes map[string][]Assignment
	Terms map[string]Info
}

// Counts returns the number of annotated genes, distinct categories and
// total gene-category pairs held by the table.
func (t *Table) Counts() (genes, terms, pairs int) {
	cats := make(map[string]bool)
	for _, as := range t.Genes {
		for _, a := range as {
			cats[a.TermID] = true
			pairs++
		}
	}
	return len(t.Genes), len(cats), pairs
}

const assignmentHeader = "go_type\tgene_id\tgo_id\tdescription\tevidence"

// ReadAssignments reads a tab separated gene-to-category table with columns
// go_type, gene_id, go_id, description and evidence, returning one Table per
// category namespace. Comment lines and a literal header row are skipped.
func ReadAssignments(r io.Reader) (map[string]*Table, error) {
	tables := make(map[string]*Table)
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 5 {
			return nil, fmt.Errorf("ontology: line %d: expected 5 fields, got %d", line, len(fields))
		}
		namespace := fields[0]
		if namespace == "go_type" {
			continue
		}
		t, ok := tables[namespace]
		if !ok {
			t = &Table{Genes: make(map[string][]Assignment), Terms: make(map[string]Info)}
			tables[namespace] = t
		}
		gene, id, desc, evidence := fields[1], fields[2], fields[3], fields[4]
		t.Genes[gene] = append(t.Genes[gene], Assignment{
			TermID:      id,
			Namespace:   namespace,
			Description: desc,
			Evidence:    evidence,
		})
		t.Terms[id] = Info{TermID: id, Namespace: namespace, Description: desc}
	}
	return tables, sc.Err()
}

// WriteAssignments writes tables in the layout read by ReadAssignments,
// with a header row and deterministic ordering.
func WriteAssignments(w io.Writer, tables map[string]*Table) error {
	_, err := fmt.Fprintln(w, assignmentHeader)
	if err != nil {
		return err
	}
	namespaces := make([]string, 0, len(tables))
	for namespace := range tables {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)
	for _, namespace := range namespaces {
		t := tables[namespace]
		genes := make([]string, 0, len(t.Genes))
		for gene := range t.Genes {
			genes = append(genes, gene)
		}
		sort.Strings(genes)
		for _, gene := range genes {
			as := append([]Assignment(nil), t.Genes[gene]...)
			sort.Slice(as, func(i, j int) bool { return as[i].TermID < as[j].TermID })
			for _, a := range as {
				_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					namespace, gene, a.TermID, a.Description, a.Evidence)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}
