package partition

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Integrity is the outcome of comparing a partitioned result with its input.
type Integrity struct {
	EqualSize  bool // The result holds as many entries as there were input records.
	AllPresent bool // Every input key maps to its input value in the result.
}

// OK reports whether the result is a faithful copy of the input.
func (i Integrity) OK() bool {
	return i.EqualSize && i.AllPresent
}

// Verify compares the exported result of a partition run with its input.
// Input records with value 0 are never exported, so they fail the check.
func Verify(input []Record, exported map[uint64]uint64) Integrity {
	res := Integrity{
		EqualSize:  len(exported) == len(input),
		AllPresent: true,
	}
	for _, r := range input {
		if v, ok := exported[r.Key]; !ok || v != r.Value {
			res.AllPresent = false
			break
		}
	}
	return res
}

// Fingerprint returns an order-independent digest of a key → value map.
// Two results with equal fingerprints hold the same entries with
// overwhelming probability, regardless of slot order within buckets.
func Fingerprint(m map[uint64]uint64) uint64 {
	var (
		sum uint64
		buf [16]byte
	)
	for k, v := range m {
		binary.LittleEndian.PutUint64(buf[:8], k)
		binary.LittleEndian.PutUint64(buf[8:], v)
		sum += xxhash.Sum64(buf[:])
	}
	return sum
}
