package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/antoinefink/favicon/pngenc"
	"github.com/antoinefink/favicon/raster"
)

// Image is one PNG-encoded icon and the side length it was rendered at.
type Image struct {
	Size int
	PNG  []byte
}

// Directory computes the header and entries for images laid out in order
// after the directory.
func Directory(images []Image) (Header, []DirEntry, error) {
	if len(images) == 0 {
		return Header{}, nil, ErrNoImages
	}
	if len(images) > math.MaxUint16 {
		return Header{}, nil, fmt.Errorf("ico: %d images do not fit in a directory", len(images))
	}

	header := Header{Type: typeIcon, Count: uint16(len(images))}
	entries := make([]DirEntry, len(images))
	offset := uint32(headerSize + entrySize*len(images))
	for i, im := range images {
		switch {
		case im.Size > MaxDimension:
			return Header{}, nil, fmt.Errorf("%w: image %d is %dpx", ErrImageTooLarge, i, im.Size)
		case im.Size <= 0:
			return Header{}, nil, fmt.Errorf("%w: image %d is %dpx", ErrInvalidSize, i, im.Size)
		case len(im.PNG) == 0:
			return Header{}, nil, fmt.Errorf("ico: image %d has no data", i)
		}
		entries[i] = DirEntry{
			Width:  dimensionByte(im.Size),
			Height: dimensionByte(im.Size),
			Bits:   32,
			Size:   uint32(len(im.PNG)),
			Offset: offset,
		}
		offset += uint32(len(im.PNG))
	}
	return header, entries, nil
}

// Marshal returns the ICO container holding images in order.
func Marshal(images []Image) ([]byte, error) {
	header, entries, err := Directory(images)
	if err != nil {
		return nil, err
	}

	bb := new(bytes.Buffer)
	if err := binary.Write(bb, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	if err := binary.Write(bb, binary.LittleEndian, entries); err != nil {
		return nil, err
	}
	for _, im := range images {
		bb.Write(im.PNG)
	}
	return bb.Bytes(), nil
}

// EncodePNGs writes an ICO container embedding the PNG streams in images.
// Nothing is written if the directory cannot be built.
func EncodePNGs(w io.Writer, images []Image) error {
	b, err := Marshal(images)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Encode PNG-encodes each square image and writes them as one ICO container.
func Encode(w io.Writer, ims ...image.Image) error {
	images := make([]Image, 0, len(ims))
	for _, im := range ims {
		b := im.Bounds()
		if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
			return ErrImageTooLarge
		}
		if b.Dx() != b.Dy() {
			return fmt.Errorf("%w: %dx%d is not square", ErrInvalidSize, b.Dx(), b.Dy())
		}
		data, err := pngenc.EncodeBytes(raster.FromImage(im))
		if err != nil {
			return err
		}
		images = append(images, Image{Size: b.Dx(), PNG: data})
	}
	return EncodePNGs(w, images)
}
