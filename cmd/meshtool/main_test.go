package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(vs ...float32) []byte {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

type quadFiles struct {
	dir, positions, normals, indices string
}

func writeQuad(t *testing.T) quadFiles {
	t.Helper()
	dir := t.TempDir()
	q := quadFiles{
		dir:       dir,
		positions: filepath.Join(dir, "pos.bin"),
		normals:   filepath.Join(dir, "nrm.bin"),
		indices:   filepath.Join(dir, "idx.bin"),
	}
	require.NoError(t, os.WriteFile(q.positions, floats(0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0), 0644))
	require.NoError(t, os.WriteFile(q.normals, floats(0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1), 0644))
	require.NoError(t, os.WriteFile(q.indices, []byte{0, 1, 2, 0, 2, 3}, 0644))
	return q
}

func runTool(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(args, &out))
	return out.String()
}

func TestEncodeDecodeMorph(t *testing.T) {
	q := writeQuad(t)
	stream := filepath.Join(q.dir, "quad.msh")

	out := runTool(t, "encode",
		"--positions", q.positions, "--normals", q.normals,
		"--indices", q.indices, "--index-width", "1",
		"--morph", "--qp", "0", "--qn", "0", "--level", "10",
		"--meta", "name=quad", "-o", stream)
	assert.Contains(t, out, "quad.msh")

	outDir := filepath.Join(q.dir, "out")
	runTool(t, "decode", stream, "--out", outDir, "--index-type", "5121")

	positions, err := os.ReadFile(filepath.Join(outDir, "position_0.bin"))
	require.NoError(t, err)
	want, _ := os.ReadFile(q.positions)
	assert.Equal(t, want, positions)

	indices, err := os.ReadFile(filepath.Join(outDir, "indices.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 0, 2, 3}, indices)
}

func TestInfoDump(t *testing.T) {
	q := writeQuad(t)
	stream := filepath.Join(q.dir, "quad.msh")
	runTool(t, "encode", "--positions", q.positions, "--indices", q.indices,
		"--index-width", "1", "--morph", "--qp", "0", "--meta", "name=quad", "-o", stream)

	out := runTool(t, "info", "--dump", stream)
	assert.Contains(t, out, "method:      sequential")
	assert.Contains(t, out, "points:      4")
	assert.Contains(t, out, "faces:       2")
	assert.Contains(t, out, "meta:        name=quad")
	assert.Contains(t, out, "attribute 0: POSITION FLOAT VEC3 normalized=false")
	assert.Contains(t, out, "  [2] 1 1 0\n")
	assert.Contains(t, out, "  [1] 0 2 3\n")
}

func TestErrors(t *testing.T) {
	q := writeQuad(t)
	var out bytes.Buffer

	assert.Error(t, run([]string{"bogus"}, &out))
	assert.Error(t, run([]string{"encode", "--positions", q.positions}, &out), "missing output")
	assert.Error(t, run([]string{"encode", "--positions", q.indices, "-o", filepath.Join(q.dir, "x")}, &out),
		"6 bytes is not whole positions")
	assert.Error(t, run([]string{"info", q.positions}, &out), "not a stream")
	assert.Error(t, run([]string{"decode"}, &out))
}

func TestHelp(t *testing.T) {
	out := runTool(t)
	assert.Contains(t, out, "encode")
	assert.Contains(t, out, "decode")

	out = runTool(t, "encode", "--help")
	assert.Contains(t, out, "--index-width")
}
