package pngenc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/antoinefink/favicon/internal/crc"
)

// Signature is the 8-byte magic every PNG stream starts with.
const Signature = "\x89PNG\r\n\x1a\n"

// Chunk type tags emitted by the encoder.
const (
	TypeIHDR = "IHDR"
	TypeIDAT = "IDAT"
	TypeIEND = "IEND"
)

// Chunk is a single PNG chunk: a 4-byte ASCII type and its payload.
type Chunk struct {
	Type string
	Data []byte
}

// CRC returns the checksum stored after the payload, computed over the
// type tag followed by the data.
func (c Chunk) CRC() uint32 {
	return crc.Update(crc.Checksum([]byte(c.Type)), c.Data)
}

// Bytes returns the framed chunk: length, type, data, CRC.
func (c Chunk) Bytes() []byte {
	b := make([]byte, 0, 12+len(c.Data))
	b = binary.BigEndian.AppendUint32(b, uint32(len(c.Data)))
	b = append(b, c.Type...)
	b = append(b, c.Data...)
	return binary.BigEndian.AppendUint32(b, c.CRC())
}

// WriteTo writes the framed chunk to w.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	if len(c.Type) != 4 {
		return 0, fmt.Errorf("pngenc: bad chunk type %q", c.Type)
	}
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// Color types and bit depth written in the header.
const (
	ColorTypeTrueColorAlpha = 6
	BitDepth8               = 8
)

// Header is the IHDR payload. Only the fields the encoder varies are
// exposed; compression, filter and interlace methods are always 0.
type Header struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType uint8
}

// MarshalBinary returns the 13-byte IHDR payload.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = h.ColorType
	// b[10], b[11], b[12]: compression, filter, interlace
	return b, nil
}

// ReadChunks splits a PNG stream into its chunks, verifying the
// signature and every CRC.
func ReadChunks(data []byte) ([]Chunk, error) {
	if len(data) < len(Signature) || string(data[:len(Signature)]) != Signature {
		return nil, fmt.Errorf("pngenc: not a PNG stream")
	}
	var chunks []Chunk
	rest := data[len(Signature):]
	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, io.ErrUnexpectedEOF
		}
		n := binary.BigEndian.Uint32(rest[:4])
		if uint64(n)+12 > uint64(len(rest)) {
			return nil, io.ErrUnexpectedEOF
		}
		c := Chunk{Type: string(rest[4:8]), Data: rest[8 : 8+n]}
		if got := binary.BigEndian.Uint32(rest[8+n : 12+n]); got != c.CRC() {
			return nil, fmt.Errorf("pngenc: %s chunk: crc %#08x, want %#08x", c.Type, got, c.CRC())
		}
		chunks = append(chunks, c)
		rest = rest[12+n:]
	}
	return chunks, nil
}
