package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oy3o/meshcodec"
)

// layoutFile is a raw little-endian buffer holding one attribute.
type layoutFile struct {
	flag   string
	path   string
	stride int
	add    func(enc *meshcodec.Encoder, count int, data []byte) (uint32, error)
}

func runEncode(args []string, stdout io.Writer) error {
	s := newSession("encode")
	inputs := []*layoutFile{
		{flag: "positions", stride: 12, add: (*meshcodec.Encoder).AddPositions},
		{flag: "normals", stride: 12, add: (*meshcodec.Encoder).AddNormals},
		{flag: "texcoords", stride: 8, add: (*meshcodec.Encoder).AddUVs},
		{flag: "joints", stride: 8, add: (*meshcodec.Encoder).AddJoints},
		{flag: "weights", stride: 16, add: (*meshcodec.Encoder).AddWeights},
	}
	for _, in := range inputs {
		s.flags.StringVar(&in.path, in.flag, "", fmt.Sprintf("raw %s file (%d bytes per vertex)", in.flag, in.stride))
	}
	var (
		indices  string
		width    int
		morph    bool
		output   string
		metadata map[string]string
	)
	s.flags.StringVar(&indices, "indices", "", "raw index file")
	s.flags.IntVar(&width, "index-width", 4, "bytes per index: 1, 2 or 4")
	s.flags.BoolVar(&morph, "morph", false, "keep vertex and face order")
	s.flags.StringVarP(&output, "output", "o", "", "output stream file")
	s.flags.StringToStringVar(&metadata, "meta", nil, "key=value metadata stored with the mesh")

	ok, err := s.parse(args, stdout)
	if !ok || err != nil {
		return err
	}
	defer s.close()
	if output == "" {
		return fmt.Errorf("--output is required")
	}

	enc := meshcodec.NewEncoder(meshcodec.WithLogger(s.log))
	defer enc.Release()
	if err := s.cfg.Apply(enc); err != nil {
		return err
	}

	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		data, err := os.ReadFile(in.path)
		if err != nil {
			return err
		}
		if len(data)%in.stride != 0 {
			return fmt.Errorf("%s: %d bytes is not a multiple of %d", in.path, len(data), in.stride)
		}
		if _, err := in.add(enc, len(data)/in.stride, data); err != nil {
			return fmt.Errorf("%s: %w", in.path, err)
		}
	}
	if indices != "" {
		data, err := os.ReadFile(indices)
		if err != nil {
			return err
		}
		if width <= 0 {
			return fmt.Errorf("%w: %d", meshcodec.ErrUnsupportedIndexWidth, width)
		}
		if err := enc.SetFaces(len(data)/width, width, data); err != nil {
			return err
		}
	}
	for k, v := range metadata {
		if err := enc.SetMetadata(k, v); err != nil {
			return err
		}
	}

	if morph {
		err = enc.EncodeMorphPreserving()
	} else {
		err = enc.Encode()
	}
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	n, err := enc.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d bytes to %s\n", n, output)
	return nil
}
