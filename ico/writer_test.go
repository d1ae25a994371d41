package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/antoinefink/favicon/pngenc"
	"github.com/antoinefink/favicon/raster"
)

func renderPNG(t *testing.T, size int) (*raster.Canvas, []byte) {
	t.Helper()
	c, err := raster.Render(size, raster.DefaultStyle)
	if err != nil {
		t.Fatal(err)
	}
	data, err := pngenc.EncodeBytes(c)
	if err != nil {
		t.Fatal(err)
	}
	return c, data
}

func TestEncodePNGs(t *testing.T) {
	t.Parallel()

	c16, png16 := renderPNG(t, 16)
	c32, png32 := renderPNG(t, 32)

	tmpFile := filepath.Join(t.TempDir(), "favicon.ico")
	f, err := os.Create(tmpFile)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	err = EncodePNGs(f, []Image{{Size: 16, PNG: png16}, {Size: 32, PNG: png32}})
	f.Close()
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	f, err = os.Open(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	images, err := DecodeAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}

	for i, want := range []*raster.Canvas{c16, c32} {
		got := toNRGBA(images[i])
		if b, err := fastCompare(want.Image(), got); err != nil || b != 0 {
			t.Errorf("image %d: pix differ %d %v", i, b, err)
		}
	}
}

func TestMarshalLayout(t *testing.T) {
	t.Parallel()

	images := []Image{
		{Size: 16, PNG: bytes.Repeat([]byte{0xA1}, 37)},
		{Size: 32, PNG: bytes.Repeat([]byte{0xB2}, 5)},
		{Size: 256, PNG: bytes.Repeat([]byte{0xC3}, 120)},
	}
	data, err := Marshal(images)
	if err != nil {
		t.Fatal(err)
	}

	header := []byte{0, 0, 1, 0, 3, 0}
	if !bytes.Equal(data[:6], header) {
		t.Fatalf("header = %v, want %v", data[:6], header)
	}

	wantOffset := uint32(6 + 16*len(images))
	for i, im := range images {
		entry := data[6+16*i : 6+16*(i+1)]
		wantDim := byte(im.Size)
		if im.Size == 256 {
			wantDim = 0
		}
		if entry[0] != wantDim || entry[1] != wantDim {
			t.Errorf("entry %d: dimensions %d,%d, want %d", i, entry[0], entry[1], wantDim)
		}
		if entry[2] != 0 || entry[3] != 0 {
			t.Errorf("entry %d: palette/reserved = %d,%d", i, entry[2], entry[3])
		}
		if planes := binary.LittleEndian.Uint16(entry[4:6]); planes != 0 {
			t.Errorf("entry %d: planes = %d, want 0", i, planes)
		}
		if bits := binary.LittleEndian.Uint16(entry[6:8]); bits != 32 {
			t.Errorf("entry %d: bits = %d, want 32", i, bits)
		}
		size := binary.LittleEndian.Uint32(entry[8:12])
		offset := binary.LittleEndian.Uint32(entry[12:16])
		if size != uint32(len(im.PNG)) {
			t.Errorf("entry %d: size = %d, want %d", i, size, len(im.PNG))
		}
		if offset != wantOffset {
			t.Errorf("entry %d: offset = %d, want %d", i, offset, wantOffset)
		}
		if got := data[offset : offset+size]; !bytes.Equal(got, im.PNG) {
			t.Errorf("entry %d: payload at offset does not match", i)
		}
		wantOffset += size
	}
	if int(wantOffset) != len(data) {
		t.Errorf("file is %d bytes, directory covers %d", len(data), wantOffset)
	}
}

func TestEncodePNGsErrors(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3}
	tests := []struct {
		name    string
		images  []Image
		wantErr error
	}{
		{"none", nil, ErrNoImages},
		{"too large", []Image{{Size: 257, PNG: payload}}, ErrImageTooLarge},
		{"zero size", []Image{{Size: 16, PNG: payload}, {Size: 0, PNG: payload}}, ErrInvalidSize},
		{"negative size", []Image{{Size: -16, PNG: payload}}, ErrInvalidSize},
		{"empty payload", []Image{{Size: 16}}, nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := EncodePNGs(&buf, tc.images)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if buf.Len() != 0 {
				t.Errorf("%d bytes written on error", buf.Len())
			}
		})
	}
}

// TestEncodeSizes tests encoding different image sizes
func TestEncodeSizes(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 16, 32, 48, 64, 128, 256} {
		size := size
		t.Run(image.Rect(0, 0, size, size).String(), func(t *testing.T) {
			t.Parallel()

			img := createTestImageForWrite(size)
			var buf bytes.Buffer
			if err := Encode(&buf, img); err != nil {
				t.Fatalf("failed to encode: %v", err)
			}

			decoded, err := Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if !decoded.Bounds().Eq(img.Bounds()) {
				t.Errorf("bounds mismatch: expected %v, got %v", img.Bounds(), decoded.Bounds())
			}
			if diff, err := fastCompare(img, toNRGBA(decoded)); err != nil || diff != 0 {
				t.Errorf("pixels differ by %d (%v)", diff, err)
			}

			entries, err := DecodeDirectory(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if w, h := entries[0].Dimensions(); w != size || h != size {
				t.Errorf("directory says %dx%d, want %dx%d", w, h, size, size)
			}
		})
	}
}

// TestEncodeImageTooLarge tests that encoding fails for images larger than 256x256
func TestEncodeImageTooLarge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		width     int
		height    int
		wantError error
	}{
		{"256x256", 256, 256, nil},
		{"257x256", 257, 256, ErrImageTooLarge},
		{"256x257", 256, 257, ErrImageTooLarge},
		{"512x512", 512, 512, ErrImageTooLarge},
		{"32x16", 32, 16, ErrInvalidSize},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			img := image.NewNRGBA(image.Rect(0, 0, tc.width, tc.height))
			err := Encode(&bytes.Buffer{}, img)
			if !errors.Is(err, tc.wantError) {
				t.Errorf("expected %v, got %v", tc.wantError, err)
			}
		})
	}
}

func TestEncodeMultiple(t *testing.T) {
	t.Parallel()

	small := createTestImageForWrite(16)
	large := createTestImageForWrite(48)

	var buf bytes.Buffer
	if err := Encode(&buf, small, large); err != nil {
		t.Fatal(err)
	}
	images, err := DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if images[0].Bounds().Dx() != 16 || images[1].Bounds().Dx() != 48 {
		t.Errorf("sizes %d, %d, want 16, 48", images[0].Bounds().Dx(), images[1].Bounds().Dx())
	}
}

// Helper functions

func createTestImageForWrite(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / size),
				G: uint8((y * 255) / size),
				B: 128,
				A: 200,
			})
		}
	}
	return img
}
