// Package rng provides the seeded pseudo-random stream shared by every
// randomized step of a generation run. A Stream is owned by one pipeline and
// never shared; process-wide random state is only used to invent a seed.
package rng

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SeedDigits is the width of synthesized numeric seeds.
const SeedDigits = 6

// Stream is a deterministic pseudo-random stream derived from a seed string.
// It is not safe for concurrent use.
type Stream struct {
	seed string
	r    *rand.Rand
}

// New returns a stream for seed. Equal seeds yield identical sequences.
func New(seed string) *Stream {
	hi := xxhash.Sum64String(seed)
	lo := xxhash.Sum64String("persona/" + seed)
	return &Stream{seed: seed, r: rand.New(rand.NewPCG(hi, lo))}
}

// Seed returns the string the stream was created from.
func (s *Stream) Seed() string {
	return s.seed
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Stream) IntN(n int) int {
	return s.r.IntN(n)
}

// Between returns a value in [lo, hi], inclusive on both ends.
func (s *Stream) Between(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

// Shuffle randomizes the order of xs in place.
func Shuffle[T any](s *Stream, xs []T) {
	s.r.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}

// Pick returns a uniformly chosen element of xs. ok is false when xs is empty,
// in which case no randomness is consumed.
func Pick[T any](s *Stream, xs []T) (v T, ok bool) {
	if len(xs) == 0 {
		return v, false
	}
	return xs[s.r.IntN(len(xs))], true
}

// NewSeed invents a zero-padded numeric seed such as "004217".
func NewSeed() string {
	return fmt.Sprintf("%0*d", SeedDigits, rand.IntN(1_000_000))
}

// OrNew returns seed, or a fresh NewSeed when seed is empty.
func OrNew(seed string) string {
	if seed == "" {
		return NewSeed()
	}
	return seed
}

// HashSeed derives a stable numeric seed from arbitrary text. Used when a
// caller supplies explicit scores but no seed, so identical requests resolve
// identically across processes.
func HashSeed(text string) string {
	return fmt.Sprintf("%0*d", SeedDigits, xxhash.Sum64String(text)%1_000_000)
}

// Derive returns the seed for the i-th independent sample of a batch.
func Derive(seed string, i int) string {
	if i == 0 {
		return seed
	}
	return seed + "." + strconv.Itoa(i)
}
