// Package ico reads and writes Windows icon (.ico) containers.
//
// The writer embeds pre-encoded PNG streams, one directory entry per
// image. The reader accepts both PNG and BMP/DIB payloads.
package ico

import (
	"errors"
	"image"
)

const (
	headerSize = 6
	entrySize  = 16

	// MaxDimension is the largest side an ICO directory entry can describe.
	MaxDimension = 256

	typeIcon = 1
)

var (
	// ErrImageTooLarge is returned when the image dimensions exceed 256x256 pixels.
	ErrImageTooLarge = errors.New("ico: image dimensions must not exceed 256x256 pixels")
	// ErrInvalidSize is returned for non-positive or non-square images.
	ErrInvalidSize = errors.New("ico: invalid image size")
	// ErrNoImages is returned when a container holds no images.
	ErrNoImages = errors.New("ico: no images")
)

func init() {
	image.RegisterFormat("ico", "\x00\x00\x01\x00?????\x00", Decode, DecodeConfig)
}

// Header is the 6-byte ICONDIR that starts every file.
type Header struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// DirEntry is one 16-byte ICONDIRENTRY, laid out as on disk.
type DirEntry struct {
	Width   byte // 0 means 256
	Height  byte // 0 means 256
	Palette byte
	_       byte
	Planes  uint16
	Bits    uint16
	Size    uint32 // payload length
	Offset  uint32 // payload position from the start of the file
}

// Dimensions returns the logical width and height of the entry.
func (e DirEntry) Dimensions() (w, h int) {
	return dimension(e.Width), dimension(e.Height)
}

func dimension(b byte) int {
	if b == 0 {
		return MaxDimension
	}
	return int(b)
}

// dimensionByte encodes a side length for a directory entry.
func dimensionByte(n int) byte {
	if n == MaxDimension {
		return 0
	}
	return byte(n)
}
