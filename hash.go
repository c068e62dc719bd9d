package partition

// knuth is the 32-bit multiplicative hashing constant, 2^32 divided by the golden ratio.
const knuth uint32 = 2654435761

// MaxHashBits is the widest bucket index Hash can produce.
const MaxHashBits = 32

// Hash maps a key to one of 2^bits buckets using Knuth's multiplicative hash.
//
// Only the low 32 bits of the key participate, so keys that differ only above
// bit 31 land in the same bucket. bits must be in [0, MaxHashBits]; a width of
// zero maps every key to bucket 0.
func Hash(key uint64, bits int) int {
	// Shifting a uint32 by 32 yields 0, which covers bits == 0.
	return int((uint32(key) * knuth) >> (MaxHashBits - uint(bits)))
}
