package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	bmp "github.com/jsummers/gobmp"

	"github.com/antoinefink/favicon/pngenc"
)

const maxFileSize = int64(64 << 20) // hard cap to avoid OOM panics on hostile inputs

// Decode returns the first image in the container.
func Decode(r io.Reader) (image.Image, error) {
	f, err := parse(r)
	if err != nil {
		return nil, err
	}
	return f.image(0)
}

// DecodeAll returns every image in directory order.
func DecodeAll(r io.Reader) ([]image.Image, error) {
	f, err := parse(r)
	if err != nil {
		return nil, err
	}
	images := make([]image.Image, len(f.entries))
	for i := range f.entries {
		if images[i], err = f.image(i); err != nil {
			return nil, fmt.Errorf("ico: image %d: %w", i, err)
		}
	}
	return images, nil
}

// DecodeConfig returns the color model and dimensions of the first image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	f, err := parse(r)
	if err != nil {
		return image.Config{}, err
	}
	payload, err := f.payload(0)
	if err != nil {
		return image.Config{}, err
	}
	if isPNG(payload) {
		return png.DecodeConfig(bytes.NewReader(payload))
	}
	bmpFile, _, err := wrapDIB(payload, f.entries[0])
	if err != nil {
		return image.Config{}, err
	}
	return bmp.DecodeConfig(bytes.NewReader(bmpFile))
}

// DecodeDirectory returns the directory entries without decoding any payload.
// Entries whose payload lies outside the file are rejected.
func DecodeDirectory(r io.Reader) ([]DirEntry, error) {
	f, err := parse(r)
	if err != nil {
		return nil, err
	}
	for i := range f.entries {
		if _, err := f.payload(i); err != nil {
			return nil, err
		}
	}
	return f.entries, nil
}

type file struct {
	data    []byte
	header  Header
	entries []DirEntry
}

func parse(r io.Reader) (*file, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxFileSize {
		return nil, fmt.Errorf("ico: file too large")
	}

	f := &file{data: data}
	br := bytes.NewReader(data)
	if err := binary.Read(br, binary.LittleEndian, &f.header); err != nil {
		return nil, err
	}
	if f.header.Reserved != 0 || f.header.Type != typeIcon {
		return nil, fmt.Errorf("ico: corrupted header: [%x,%x]", f.header.Reserved, f.header.Type)
	}
	if f.header.Count == 0 {
		return nil, ErrNoImages
	}
	f.entries = make([]DirEntry, f.header.Count)
	if err := binary.Read(br, binary.LittleEndian, f.entries); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *file) payload(i int) ([]byte, error) {
	e := f.entries[i]
	if e.Size == 0 {
		return nil, fmt.Errorf("ico: corrupted entry (size=%d)", e.Size)
	}
	start := int64(e.Offset)
	end := start + int64(e.Size)
	if end > int64(len(f.data)) {
		return nil, io.ErrUnexpectedEOF
	}
	return f.data[start:end], nil
}

func isPNG(b []byte) bool {
	return len(b) >= len(pngenc.Signature) && string(b[:len(pngenc.Signature)]) == pngenc.Signature
}

func (f *file) image(i int) (image.Image, error) {
	payload, err := f.payload(i)
	if err != nil {
		return nil, err
	}
	if isPNG(payload) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeDIB(payload, f.entries[i])
}

// decodeDIB decodes a BMP payload, whose height covers both the XOR
// bitmap and the 1-bit AND mask, and applies the transparency.
func decodeDIB(payload []byte, e DirEntry) (image.Image, error) {
	bmpFile, mask, err := wrapDIB(payload, e)
	if err != nil {
		return nil, err
	}
	src, err := bmp.Decode(bytes.NewReader(bmpFile))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return src, nil
	}

	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	if mask != nil {
		if err := andMask(alpha, mask); err != nil {
			return nil, err
		}
	} else if err := alphaChannel(alpha, bmpFile); err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(dst, dst.Bounds(), src, bounds.Min, alpha, bounds.Min, draw.Src)
	return dst, nil
}

// andMask marks pixels whose AND bit is clear as opaque. Rows are stored
// bottom-up and padded to 32 bits.
func andMask(alpha *image.Alpha, mask []byte) error {
	w, h := alpha.Rect.Dx(), alpha.Rect.Dy()
	rowSize := (w + 31) / 32 * 4
	if rowSize*h > len(mask) {
		return fmt.Errorf("ico: corrupted mask data")
	}
	for row := 0; row < h; row++ {
		off := row * rowSize
		for col := 0; col < w; col++ {
			if (mask[off+col/8]>>(7-uint(col)%8))&0x01 != 1 {
				alpha.SetAlpha(col, h-row-1, color.Alpha{A: 255})
			}
		}
	}
	return nil
}

// alphaChannel copies the fourth byte of each 32-bit BGRA pixel.
func alphaChannel(alpha *image.Alpha, bmpFile []byte) error {
	w, h := alpha.Rect.Dx(), alpha.Rect.Dy()
	if len(bmpFile) < 14 {
		return fmt.Errorf("ico: corrupted bmp data")
	}
	rowSize := w * 4
	offset := int(binary.LittleEndian.Uint32(bmpFile[10:14]))
	if offset+rowSize*h > len(bmpFile) {
		return fmt.Errorf("ico: corrupted bmp alpha data")
	}
	for row := 0; row < h; row++ {
		off := offset + row*rowSize
		for col := 0; col < w; col++ {
			alpha.SetAlpha(col, h-row-1, color.Alpha{A: bmpFile[off+col*4+3]})
		}
	}
	return nil
}

// wrapDIB prepends a BITMAPFILEHEADER to a DIB payload so it can be read
// as a standalone BMP, halving the doubled ICO height. It returns the BMP
// bytes and, for non-32-bit images, the trailing AND mask.
// See en.wikipedia.org/wiki/BMP_file_format.
func wrapDIB(payload []byte, e DirEntry) (bmpFile, mask []byte, err error) {
	if len(payload) < 4 {
		return nil, nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, 14+len(payload))
	copy(buf[14:], payload)
	data := buf[14:]

	dibSize := binary.LittleEndian.Uint32(data[:4])
	if dibSize < 12 {
		return nil, nil, fmt.Errorf("ico: corrupted DIB header size (%d)", dibSize)
	}
	if len(data) < int(dibSize) {
		return nil, nil, io.ErrUnexpectedEOF
	}

	var (
		w, h      uint32
		bits      uint16
		numColors uint32
	)
	if dibSize == 12 { // BITMAPCOREHEADER
		w = uint32(binary.LittleEndian.Uint16(data[4:6]))
		h = uint32(binary.LittleEndian.Uint16(data[6:8]))
		bits = binary.LittleEndian.Uint16(data[10:12])
	} else { // BITMAPINFOHEADER and later
		if len(data) < 16 {
			return nil, nil, io.ErrUnexpectedEOF
		}
		w = binary.LittleEndian.Uint32(data[4:8])
		h = binary.LittleEndian.Uint32(data[8:12])
		bits = binary.LittleEndian.Uint16(data[14:16])
		if len(data) >= 36 {
			numColors = binary.LittleEndian.Uint32(data[32:36])
		}
	}

	// The stored height is usually XOR+AND, twice the directory height.
	_, entryH := e.Dimensions()
	if h%2 == 0 {
		half := h / 2
		if half == uint32(entryH) || half == w || h > w {
			h = half
			if dibSize == 12 {
				if h > 0xFFFF {
					return nil, nil, fmt.Errorf("ico: corrupted bmp height (%d)", h)
				}
				binary.LittleEndian.PutUint16(data[6:8], uint16(h))
			} else {
				binary.LittleEndian.PutUint32(data[8:12], h)
			}
		}
	}

	imageSize := int64(len(data))
	if bits != 32 {
		if w == 0 || h == 0 {
			return nil, nil, fmt.Errorf("ico: corrupted bmp dimensions")
		}
		maskSize := (int64(w) + 31) / 32 * 4 * int64(h)
		if maskSize <= 0 || maskSize >= imageSize {
			return nil, nil, fmt.Errorf("ico: corrupted bmp mask size")
		}
		imageSize -= maskSize
		mask = data[imageSize:]
	}

	bmpSize := 14 + int(imageSize)
	copy(buf[0:2], "BM")
	binary.LittleEndian.PutUint32(buf[2:6], uint32(bmpSize))

	switch bits {
	case 1, 2, 4, 8:
		if x := uint32(1) << bits; numColors == 0 || numColors > x {
			numColors = x
		}
	default:
		numColors = 0
	}
	paletteEntry := uint32(4)
	if dibSize == 12 || dibSize == 64 {
		paletteEntry = 3
	}

	offset := 14 + dibSize + numColors*paletteEntry
	if ds := int(dibSize); dibSize > 40 && ds-4 <= len(data) {
		offset += binary.LittleEndian.Uint32(data[ds-8 : ds-4])
	}
	if offset >= uint32(bmpSize) {
		return nil, nil, fmt.Errorf("ico: corrupted bmp data offset")
	}
	binary.LittleEndian.PutUint32(buf[10:14], offset)
	return buf[:bmpSize], mask, nil
}
