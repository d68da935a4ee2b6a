// Copyright ©2016 The gat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package map2slim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	m := Map2Slim{
		OutMap:       "goslim.map",
		SlimOntology: "goslim_generic.obo",
		Ontology:     "go.obo",
	}
	cmd, err := m.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"map2slim", "-outmap", "goslim.map", "goslim_generic.obo", "go.obo"}, cmd.Args)
}

func TestBuildCommandCounts(t *testing.T) {
	m := Map2Slim{
		Cmd:          "/opt/go-perl/map2slim",
		Counts:       true,
		Tab:          true,
		SlimOntology: "goslim_generic.obo",
		Ontology:     "go.obo",
		Associations: "gene_association.goa",
	}
	cmd, err := m.BuildCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/go-perl/map2slim", "-c", "-t", "goslim_generic.obo", "go.obo", "gene_association.goa"}, cmd.Args)
}

func TestBuildCommandMissingRequired(t *testing.T) {
	_, err := Map2Slim{Ontology: "go.obo"}.BuildCommand()
	assert.Equal(t, ErrMissingRequired, err)
}
