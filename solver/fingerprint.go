package solver

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// Fingerprint hashes an ordered list of paths. Two runs that produced the
// same solutions in the same order have the same fingerprint.
func Fingerprint(paths []Path) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range paths {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(p)))
		d.Write(buf[:])
		for _, b := range p {
			binary.LittleEndian.PutUint64(buf[:], uint64(b))
			d.Write(buf[:])
		}
	}
	return d.Sum64()
}
