// Package pngenc writes RGBA pixel buffers as PNG files.
//
// The encoder emits a single fixed layout: 8-bit truecolor with alpha,
// no interlacing, filter type 0 on every scanline, and one IDAT chunk.
// Only the zlib compression of the scanlines is delegated.
package pngenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrInvalidImage is returned for images with non-positive dimensions or
// a pixel buffer of the wrong length.
var ErrInvalidImage = errors.New("pngenc: invalid image")

// Image is an RGBA pixel buffer, 4 bytes per pixel, row-major.
type Image interface {
	Width() int
	Height() int
	Pix() []uint8
}

// Compressor turns the raw scanline stream into a zlib stream.
type Compressor func(raw []byte) ([]byte, error)

// Zlib compresses with the default zlib level.
func Zlib(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scanlines prefixes each row of pix with filter type 0 (none).
func Scanlines(width, height int, pix []uint8) []byte {
	stride := width * 4
	raw := make([]byte, (stride+1)*height)
	for y := 0; y < height; y++ {
		// raw[y*(stride+1)] stays 0
		copy(raw[y*(stride+1)+1:], pix[y*stride:(y+1)*stride])
	}
	return raw
}

// Encoder configures PNG encoding.
type Encoder struct {
	// Compress defaults to Zlib when nil.
	Compress Compressor
}

// Marshal returns the complete PNG stream for m.
func (e *Encoder) Marshal(m Image) ([]byte, error) {
	w, h := m.Width(), m.Height()
	if w <= 0 || h <= 0 || len(m.Pix()) != w*h*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidImage, w, h, len(m.Pix()))
	}

	compress := e.Compress
	if compress == nil {
		compress = Zlib
	}
	idat, err := compress(Scanlines(w, h, m.Pix()))
	if err != nil {
		return nil, fmt.Errorf("pngenc: compress: %w", err)
	}

	ihdr, err := Header{
		Width:     uint32(w),
		Height:    uint32(h),
		BitDepth:  BitDepth8,
		ColorType: ColorTypeTrueColorAlpha,
	}.MarshalBinary()
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBufferString(Signature)
	for _, c := range []Chunk{
		{Type: TypeIHDR, Data: ihdr},
		{Type: TypeIDAT, Data: idat},
		{Type: TypeIEND},
	} {
		if _, err := c.WriteTo(buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Encode writes m to w as a PNG. Nothing is written if encoding fails.
func (e *Encoder) Encode(w io.Writer, m Image) error {
	b, err := e.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Encode writes m to w as a PNG using the default compressor.
func Encode(w io.Writer, m Image) error {
	var e Encoder
	return e.Encode(w, m)
}

// EncodeBytes returns m as a PNG using the default compressor.
func EncodeBytes(m Image) ([]byte, error) {
	var e Encoder
	return e.Marshal(m)
}
