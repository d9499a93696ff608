package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/oy3o/meshcodec"
	"github.com/oy3o/meshcodec/engine"
)

func runInfo(args []string, stdout io.Writer) error {
	s := newSession("info")
	var dump bool
	s.flags.BoolVar(&dump, "dump", false, "print every attribute value and face")

	ok, err := s.parse(args, stdout)
	if !ok || err != nil {
		return err
	}
	defer s.close()
	if s.flags.NArg() != 1 {
		return fmt.Errorf("info takes exactly one input file")
	}
	path := s.flags.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := engine.Inspect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(stdout, "version:     %d.%d\n", info.Major, info.Minor)
	fmt.Fprintf(stdout, "method:      %s\n", info.Method)
	fmt.Fprintf(stdout, "compression: %s (%d -> %d bytes)\n", info.Compression, info.RawSize, info.PackedSize)
	fmt.Fprintf(stdout, "checksum:    %x\n", info.Checksum[:])

	dec, err := decodeFile(s, path)
	if err != nil {
		return err
	}
	defer dec.Release()

	fmt.Fprintf(stdout, "points:      %d\n", dec.PointCount())
	fmt.Fprintf(stdout, "faces:       %d\n", dec.FaceCount())
	meta := dec.Metadata()
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(stdout, "meta:        %s=%s\n", k, meta[k])
	}
	for _, a := range dec.Attributes() {
		fmt.Fprintf(stdout, "attribute %d: %s %s %s normalized=%t\n", a.ID, a.Role, a.ComponentType, a.Rank, a.Normalized)
		if dump {
			if err := dumpAttribute(stdout, dec, a); err != nil {
				return err
			}
		}
	}
	if dump {
		return dumpFaces(stdout, dec)
	}
	return nil
}

func dumpAttribute(w io.Writer, dec *meshcodec.Decoder, a meshcodec.AttributeInfo) error {
	if err := dec.DecodeAttribute(a.ID, meshcodec.Float, a.Rank); err != nil {
		return err
	}
	buf := dec.AttributeBuffer(a.ID)
	n := meshcodec.ComponentCount(a.Rank)
	vals := make([]string, n)
	for p := range dec.PointCount() {
		for c := range n {
			bits := binary.LittleEndian.Uint32(buf[4*(p*n+c):])
			vals[c] = fmt.Sprintf("%g", math.Float32frombits(bits))
		}
		fmt.Fprintf(w, "  [%d] %s\n", p, strings.Join(vals, " "))
	}
	return nil
}

func dumpFaces(w io.Writer, dec *meshcodec.Decoder) error {
	if dec.FaceCount() == 0 {
		return nil
	}
	if err := dec.DecodeIndices(meshcodec.UnsignedInt); err != nil {
		return err
	}
	idx := dec.IndexBuffer()
	fmt.Fprintln(w, "faces:")
	for f := range dec.FaceCount() {
		fmt.Fprintf(w, "  [%d] %d %d %d\n", f,
			binary.LittleEndian.Uint32(idx[12*f:]),
			binary.LittleEndian.Uint32(idx[12*f+4:]),
			binary.LittleEndian.Uint32(idx[12*f+8:]))
	}
	return nil
}
