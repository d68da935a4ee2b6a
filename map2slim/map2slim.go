// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package map2slim provides interaction with the go-perl map2slim tool used
// to derive GO-to-GOSlim category maps from a pair of OBO ontologies.
package map2slim

import (
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("map2slim: missing required argument")

// Map2Slim defines parameters for the map2slim mapper.
type Map2Slim struct {
	// Usage: map2slim [-outmap out.map] [-c] [-t] slim.obo ontology.obo [assoc]
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}map2slim{{end}}"` // map2slim

	// Output options:
	OutMap string `buildarg:"{{if .}}-outmap{{split}}{{.}}{{end}}"` // -outmap: mapping file to write
	Counts bool   `buildarg:"{{if .}}-c{{end}}"`                    // -c: per-slim gene counts instead of a mapping
	Tab    bool   `buildarg:"{{if .}}-t{{end}}"`                    // -t: tab delimited count output

	// Input files:
	SlimOntology string `buildarg:"{{.}}"`                // slim.obo
	Ontology     string `buildarg:"{{.}}"`                // ontology.obo
	Associations string `buildarg:"{{if .}}{{.}}{{end}}"` // gene associations (optional)
}

// BuildCommand returns an exec.Cmd built from the parameters in m.
func (m Map2Slim) BuildCommand() (*exec.Cmd, error) {
	if m.SlimOntology == "" || m.Ontology == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], cl[1:]...), nil
}
