package motion

// Normalizer maps received coordinates into [-1, 1] the way the
// visualizer does before moving its game object. Angles pass through.
type Normalizer struct {
	Min         float64
	Max         float64
	Sensibility float64
	// SwapYZ exchanges Y and Z after normalization (Unity is Y-up).
	SwapYZ bool
}

// DefaultNormalizer matches the consumer's inspector defaults.
func DefaultNormalizer() Normalizer {
	return Normalizer{Min: -1, Max: 1, Sensibility: 1, SwapYZ: true}
}

// Apply returns the normalized copy of s. A degenerate range leaves
// coordinates untouched.
func (n Normalizer) Apply(s Sample) Sample {
	out := s
	if n.Max != n.Min {
		out.X = n.scale(s.X)
		out.Y = n.scale(s.Y)
		out.Z = n.scale(s.Z)
	}
	if n.SwapYZ {
		out.Y, out.Z = out.Z, out.Y
	}
	return out
}

func (n Normalizer) scale(v float64) float64 {
	return (2*((v-n.Min)/(n.Max-n.Min)) - 1) * n.Sensibility
}
