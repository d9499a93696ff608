package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oy3o/meshcodec"
)

func runDecode(args []string, stdout io.Writer) error {
	s := newSession("decode")
	var (
		outDir    string
		indexType uint32
	)
	s.flags.StringVar(&outDir, "out", ".", "directory for the extracted buffers")
	s.flags.Uint32Var(&indexType, "index-type", uint32(meshcodec.UnsignedInt), "index component type (5121, 5123 or 5125)")

	ok, err := s.parse(args, stdout)
	if !ok || err != nil {
		return err
	}
	defer s.close()
	if s.flags.NArg() != 1 {
		return fmt.Errorf("decode takes exactly one input file")
	}

	dec, err := decodeFile(s, s.flags.Arg(0))
	if err != nil {
		return err
	}
	defer dec.Release()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	for _, a := range dec.Attributes() {
		if err := dec.DecodeAttribute(a.ID, a.ComponentType, a.Rank); err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%d.bin", strings.ToLower(a.Role.String()), a.ID)
		if err := writeBuffer(stdout, filepath.Join(outDir, name), dec.AttributeBuffer(a.ID)); err != nil {
			return err
		}
	}
	if dec.FaceCount() > 0 {
		if err := dec.DecodeIndices(meshcodec.ComponentType(indexType)); err != nil {
			return err
		}
		return writeBuffer(stdout, filepath.Join(outDir, "indices.bin"), dec.IndexBuffer())
	}
	return nil
}

func decodeFile(s *session, path string) (*meshcodec.Decoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := meshcodec.NewDecoder(meshcodec.WithLogger(s.log))
	if err := dec.Decode(data); err != nil {
		dec.Release()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dec, nil
}

func writeBuffer(stdout io.Writer, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%d bytes)\n", path, len(data))
	return nil
}
