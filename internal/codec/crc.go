package codec

import "hash/crc32"

// crcTable is the AUTODIN-II / zlib polynomial table spec.md §4.1 requires
// (0xEDB88320 reflected), exposed by the standard library as crc32.IEEE.
// No library in the retrieved pack implements a custom CRC-32 table or
// exposes the seeded Update() composition primitive the spec's incremental
// requirement needs (crc(a||b, seed) = crc(b, crc(a, seed))); hash/crc32 is
// the correct and only reasonable source for this, so it is used directly
// rather than routed through a third-party wrapper.
var crcTable = crc32.MakeTable(crc32.IEEE)

// ChecksumSeed is the seed fed to the first Update call of a new checksum
// computation.
const ChecksumSeed uint32 = 0

// UpdateChecksum extends a running CRC-32 computation with p, satisfying
// the incremental-composition requirement: UpdateChecksum(UpdateChecksum(seed,
// a), b) == checksum of (a || b) computed in one call.
func UpdateChecksum(seed uint32, p []byte) uint32 {
	return crc32.Update(seed, crcTable, p)
}

// Checksum computes the checksum of p in one call, equivalent to
// UpdateChecksum(ChecksumSeed, p).
func Checksum(p []byte) uint32 {
	return UpdateChecksum(ChecksumSeed, p)
}
