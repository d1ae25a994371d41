// Package crc implements the CRC-32 used by PNG chunks.
//
// The register is processed one bit at a time with the reflected IEEE
// polynomial, without a lookup table.
package crc

import "hash"

// Polynomial is the reflected IEEE 802.3 polynomial.
const Polynomial = 0xEDB88320

// Size of a CRC-32 checksum in bytes.
const Size = 4

func update(reg uint32, p []byte) uint32 {
	for _, b := range p {
		reg ^= uint32(b)
		for i := 0; i < 8; i++ {
			if reg&1 != 0 {
				reg = reg>>1 ^ Polynomial
			} else {
				reg >>= 1
			}
		}
	}
	return reg
}

// Update returns the result of adding the bytes in p to crc.
// crc is a finished checksum, as returned by Checksum or a previous Update.
func Update(crc uint32, p []byte) uint32 {
	return ^update(^crc, p)
}

// Checksum returns the CRC-32 of p.
func Checksum(p []byte) uint32 {
	return Update(0, p)
}

type digest struct {
	crc uint32
}

// New returns a hash.Hash32 computing the same checksum as Checksum.
func New() hash.Hash32 {
	return &digest{}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.crc = 0 }

func (d *digest) Write(p []byte) (int, error) {
	d.crc = Update(d.crc, p)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
