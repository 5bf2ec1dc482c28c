package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/stlview/pkg/formats"
)

const wedge = `solid wedge
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 4 0 0
vertex 0 -2 1
endloop
endfacet
endsolid wedge
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunInfo(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.stl", wedge)
	b := writeFile(t, dir, "b.stl", strings.ReplaceAll(wedge, "wedge", "second"))

	var out bytes.Buffer
	require.NoError(t, runInfo(&out, []string{a, b}))

	text := out.String()
	assert.Contains(t, text, "File:       a.stl")
	assert.Contains(t, text, "Name:       wedge")
	assert.Contains(t, text, "Format:     ascii")
	assert.Contains(t, text, "Triangles:  1")
	assert.Contains(t, text, "Bounds:     (0.000, -2.000, 0.000) to (4.000, 0.000, 1.000)")
	assert.Contains(t, text, "Extent:     4.000")
	assert.Contains(t, text, "Normalized: (0.000, -0.500, 0.000) to (1.000, 0.000, 0.250)")
	assert.Less(t, strings.Index(text, "a.stl"), strings.Index(text, "b.stl"), "output follows argument order")
}

func TestRunInfo_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.stl", wedge)

	var out bytes.Buffer
	err := runInfo(&out, []string{good, filepath.Join(dir, "missing.stl")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, formats.ErrFileNotFound))
	assert.Empty(t, out.String())
}

func TestInfoCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.stl", wedge)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"info", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Triangles:  1")

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"info"})
	assert.Error(t, cmd.Execute(), "info needs at least one file")
}
