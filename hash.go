// Copyright (c) 2014-2015 Utkan Güngördü <utkan@freeconsole.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cuckoo

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// buckets splits a key's 64-bit digest into its two candidate bucket
// indices. halfM is half the table's bucket count, i.e. len(buckets)/2,
// not the bucket count itself. b1 always lands in the lower half
// [0, halfM), b2 in the upper half [halfM, 2*halfM) -- the two
// candidates can therefore never collide, by construction rather than
// by an explicit check.
//
// Each half uses fast-range reduction (Lemire's alternative to
// modulo): a 32-bit value x maps into [0, halfM) via (x*halfM)>>32.
func bucketsFor(digest uint64, halfM int) (b1, b2 int) {
	lo := uint32(digest)
	hi := uint32(digest >> 32)
	b1 = int((uint64(lo) * uint64(halfM)) >> 32)
	b2 = int((uint64(hi)*uint64(halfM))>>32) + halfM
	return b1, b2
}

// StringHasher returns a Hasher for string keys backed by xxhash.
func StringHasher() Hasher[string] {
	return func(k string) uint64 {
		return xxhash.Sum64String(k)
	}
}

// BytesHasher returns a Hasher for []byte keys backed by xxhash.
func BytesHasher() Hasher[[]byte] {
	return func(k []byte) uint64 {
		return xxhash.Sum64(k)
	}
}

// Int64Hasher returns a Hasher for int64 keys backed by xxhash, mixing
// the 8-byte little-endian encoding of the key through the digest.
func Int64Hasher() Hasher[int64] {
	return func(k int64) uint64 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		return xxhash.Sum64(buf[:])
	}
}

// IntHasher returns a Hasher for int keys backed by xxhash.
func IntHasher() Hasher[int] {
	inner := Int64Hasher()
	return func(k int) uint64 {
		return inner(int64(k))
	}
}

// Uint64Hasher returns a Hasher for uint64 keys backed by xxhash.
func Uint64Hasher() Hasher[uint64] {
	return func(k uint64) uint64 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], k)
		return xxhash.Sum64(buf[:])
	}
}
