// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ontology

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ReadGeneList reads a list of gene identifiers, one per line, taking the
// first tab separated field and skipping comment lines. If pattern is not
// empty it must be a regular expression with one capture group which is
// used to extract the identifier from each raw line. The returned list is
// deduplicated preserving first-seen order.
func ReadGeneList(r io.Reader, pattern string) ([]string, error) {
	var rx *regexp.Regexp
	if pattern != "" {
		var err error
		rx, err = regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		if rx.NumSubexp() < 1 {
			return nil, fmt.Errorf("ontology: gene pattern %q has no capture group", pattern)
		}
	}

	var genes []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := strings.SplitN(line, "\t", 2)[0]
		if rx != nil {
			m := rx.FindStringSubmatch(id)
			if m == nil {
				return nil, fmt.Errorf("ontology: gene pattern %q does not match %q", pattern, id)
			}
			id = m[1]
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		genes = append(genes, id)
	}
	return genes, sc.Err()
}
