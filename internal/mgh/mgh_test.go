package mgh

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripMGH(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack1.coef.mgh")
	require.NoError(t, WriteFile(path, []float32{0.5, -1.25, 0, 3}))

	data, err := NewReader().ReadVolume(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1.25, 0, 3}, data)
}

func TestRoundTripMGZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack1.coef.mgz")
	require.NoError(t, WriteFile(path, []float32{1, 2, 3}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	data, err := NewReader().ReadVolume(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, data)
}

func TestDecodeIntegerTypes(t *testing.T) {
	hdr := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(hdr[0:4], 1)
	binary.BigEndian.PutUint32(hdr[4:8], 3)
	binary.BigEndian.PutUint32(hdr[8:12], 1)
	binary.BigEndian.PutUint32(hdr[12:16], 1)
	binary.BigEndian.PutUint32(hdr[16:20], 1)
	binary.BigEndian.PutUint32(hdr[20:24], TypeInt)

	body := make([]byte, 12)
	binary.BigEndian.PutUint32(body[0:], 0)
	binary.BigEndian.PutUint32(body[4:], 7)
	binary.BigEndian.PutUint32(body[8:], 2)

	h, data, err := Decode(bytes.NewReader(append(hdr, body...)))
	require.NoError(t, err)
	n, err := h.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{0, 7, 2}, data)
}

func TestDecodeTruncatedFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []float32{1, 2, 3, 4}))
	truncated := buf.Bytes()[:HeaderSize+6]

	_, _, err := Decode(bytes.NewReader(truncated))
	assert.Error(t, err)
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []float32{1}))
	raw := buf.Bytes()
	binary.BigEndian.PutUint32(raw[0:4], 9)

	_, _, err := Decode(bytes.NewReader(raw))
	assert.ErrorContains(t, err, "version")
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	dims := [][4]uint32{
		{1 << 30, 1 << 30, 1 << 30, 8}, // product wraps to 0 in 64 bits
		{1 << 20, 1 << 10, 1, 1},
		{MaxElements + 1, 1, 1, 1},
		{0, 1, 1, 1},
	}
	for _, d := range dims {
		raw := make([]byte, HeaderSize)
		binary.BigEndian.PutUint32(raw[0:4], 1)
		for i, v := range d {
			binary.BigEndian.PutUint32(raw[4+4*i:], v)
		}
		binary.BigEndian.PutUint32(raw[20:24], TypeFloat)

		_, data, err := Decode(bytes.NewReader(raw))
		assert.Error(t, err, "dims %v", d)
		assert.Nil(t, data)
	}
}

func TestHeaderLen(t *testing.T) {
	n, err := Header{Width: 163842, Height: 1, Depth: 1, Frames: 1}.Len()
	require.NoError(t, err)
	assert.Equal(t, 163842, n)

	_, err = Header{Width: 1 << 15, Height: 1 << 15, Depth: 1 << 15, Frames: 1}.Len()
	assert.ErrorContains(t, err, "exceed")
}

func TestReadVolumeMissingFile(t *testing.T) {
	_, err := NewReader().ReadVolume(filepath.Join(t.TempDir(), "absent.mgh"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
