package mgh

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Encode writes data as a float MGH volume of shape len(data) x 1 x 1 x 1.
func Encode(w io.Writer, data []float32) error {
	hdr := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(hdr[0:4], 1)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(data)))
	binary.BigEndian.PutUint32(hdr[8:12], 1)
	binary.BigEndian.PutUint32(hdr[12:16], 1)
	binary.BigEndian.PutUint32(hdr[16:20], 1)
	binary.BigEndian.PutUint32(hdr[20:24], TypeFloat)
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(buf)
	return err
}

// WriteFile writes data to path, gzip-compressed when path ends in .mgz.
func WriteFile(path string, data []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if strings.HasSuffix(strings.ToLower(path), ".mgz") {
		zw := gzip.NewWriter(bw)
		if err := Encode(zw, data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	} else if err := Encode(bw, data); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
