package protocol

// FNV-1a constants. The hash is the join key between two independently
// compiled binaries, so the algorithm must match the producer bit for bit.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// Hash computes the FNV-1a hash of the UTF-8 bytes of text.
// Collisions are expected: any hash hit must be re-verified against the
// stored original text before being trusted.
func Hash(text string) uint64 {
	h := fnvOffset
	for i := 0; i < len(text); i++ {
		h ^= uint64(text[i])
		h *= fnvPrime
	}
	return h
}
