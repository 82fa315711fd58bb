package util

import (
	"fmt"
	"hash/fnv"
	"math/big"
	"math/rand/v2"
)

// SeedFromString hashes s into a seed, so the same output name always
// produces the same image.
func SeedFromString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // hash.Write never returns an error
	return h.Sum64()
}

// DeriveSeed returns a sub-seed for a named stream of seed.
func DeriveSeed(seed uint64, stream string, index int) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d_%s_%d", seed, stream, index)
	return h.Sum64()
}

// NewRNG returns a PCG-backed generator for seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// uidRoot is the UUID-derived OID arc (2.25) permitted for UIDs built
// without a registered organization root.
const uidRoot = "2.25."

// GenerateDeterministicUID maps key to a stable DICOM UID under 2.25.
// The result is at most 64 characters.
func GenerateDeterministicUID(key string) string {
	h := fnv.New128a()
	_, _ = h.Write([]byte(key))
	n := new(big.Int).SetBytes(h.Sum(nil))
	return uidRoot + n.String()
}
