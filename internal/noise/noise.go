package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Field is a deterministic continuous noise function.
type Field interface {
	Eval2(x, y float64) float64
	Eval3(x, y, z float64) float64
}

// Source bundles the noise fields derived from one world seed. It holds no mutable
// state after construction and can be sampled from many goroutines.
type Source struct {
	seed   int64
	unit   Field // [0, 1]
	signed Field // roughly [-1, 1]
}

// NewSource builds the fields for seed.
func NewSource(seed int64) *Source {
	return &Source{
		seed:   seed,
		unit:   opensimplex.NewNormalized(seed),
		signed: opensimplex.New(seed),
	}
}

// Seed returns the seed the source was built from.
func (s *Source) Seed() int64 { return s.seed }

// Unit2 samples the normalised 2D field in [0, 1].
func (s *Source) Unit2(x, z float64) float64 {
	return s.unit.Eval2(x, z)
}

// Signed3 samples the signed 3D field.
func (s *Source) Signed3(x, y, z float64) float64 {
	return s.signed.Eval3(x, y, z)
}

// White2 is per-column white noise in [-1, 1].
func (s *Source) White2(x, z int64) float64 {
	return White2(s.seed, x, z)
}

// White2 hashes (seed, x, z) into [-1, 1]. Pure: no generator state is shared.
func White2(seed, x, z int64) float64 {
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF)/float64(0xFFFFFFFF)*2 - 1
}

func hash2(x, z, seed int64) uint64 {
	// SplitMix64 finaliser over a per-axis mix of the inputs.
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}
