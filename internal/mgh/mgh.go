// Package mgh reads FreeSurfer MGH/MGZ volumes as flat per-vertex arrays.
//
// Surface overlays produced by mri_glmfit store one value per vertex in a
// volume of shape width x 1 x 1 (or width x height x depth for very large
// meshes). Only the data block is of interest here; geometry in the header is
// skipped.
package mgh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Data types stored in the MGH header.
const (
	TypeUChar = 0
	TypeInt   = 1
	TypeFloat = 3
	TypeShort = 4
)

// HeaderSize is the fixed offset of the data block.
const HeaderSize = 284

// MaxElements bounds the data block. fsaverage has 163842 vertices per
// hemisphere; anything near this limit is a corrupt header.
const MaxElements = 1 << 28

// Header holds the volume dimensions and element type.
type Header struct {
	Version int32
	Width   int32
	Height  int32
	Depth   int32
	Frames  int32
	Type    int32
}

// Len returns the number of elements in the data block. It fails when a
// dimension is not positive or the product exceeds MaxElements.
func (h Header) Len() (int, error) {
	n := int64(1)
	for _, d := range []int32{h.Width, h.Height, h.Depth, h.Frames} {
		if d <= 0 {
			return 0, fmt.Errorf("invalid MGH dimensions %dx%dx%dx%d", h.Width, h.Height, h.Depth, h.Frames)
		}
		// Each factor is below 2^31 and n stays at most MaxElements, so this cannot overflow.
		n *= int64(d)
		if n > MaxElements {
			return 0, fmt.Errorf("MGH dimensions %dx%dx%dx%d exceed %d values", h.Width, h.Height, h.Depth, h.Frames, MaxElements)
		}
	}
	return int(n), nil
}

func elementSize(t int32) (int, error) {
	switch t {
	case TypeUChar:
		return 1, nil
	case TypeShort:
		return 2, nil
	case TypeInt, TypeFloat:
		return 4, nil
	default:
		return 0, fmt.Errorf("unsupported MGH data type %d", t)
	}
}

// Reader loads volumes from disk.
type Reader struct{}

// NewReader creates a volume reader
func NewReader() *Reader {
	return &Reader{}
}

// ReadVolume reads path and returns its data block flattened in file order.
func (r *Reader) ReadVolume(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, data, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode parses an MGH stream. Gzip-compressed input (.mgz) is detected by its
// magic bytes.
func Decode(r io.Reader) (Header, []float64, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}

	var src io.Reader = br
	if magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return Header{}, nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(src, raw); err != nil {
		return Header{}, nil, fmt.Errorf("read header: %w", err)
	}

	hdr := Header{
		Version: int32(binary.BigEndian.Uint32(raw[0:4])),
		Width:   int32(binary.BigEndian.Uint32(raw[4:8])),
		Height:  int32(binary.BigEndian.Uint32(raw[8:12])),
		Depth:   int32(binary.BigEndian.Uint32(raw[12:16])),
		Frames:  int32(binary.BigEndian.Uint32(raw[16:20])),
		Type:    int32(binary.BigEndian.Uint32(raw[20:24])),
	}
	if hdr.Version != 1 {
		return hdr, nil, fmt.Errorf("unexpected MGH version %d", hdr.Version)
	}
	n, err := hdr.Len()
	if err != nil {
		return hdr, nil, err
	}

	size, err := elementSize(hdr.Type)
	if err != nil {
		return hdr, nil, err
	}

	buf := make([]byte, n*size)
	if _, err := io.ReadFull(src, buf); err != nil {
		return hdr, nil, fmt.Errorf("read data block (%d values): %w", n, err)
	}

	out := make([]float64, n)
	for i := range out {
		off := i * size
		switch hdr.Type {
		case TypeUChar:
			out[i] = float64(buf[off])
		case TypeShort:
			out[i] = float64(int16(binary.BigEndian.Uint16(buf[off:])))
		case TypeInt:
			out[i] = float64(int32(binary.BigEndian.Uint32(buf[off:])))
		case TypeFloat:
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(buf[off:])))
		}
	}
	return hdr, out, nil
}
