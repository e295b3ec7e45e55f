package motion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriftPositionAdvancesByStep(t *testing.T) {
	src := NewDriftSource(DefaultDrift(), rand.New(rand.NewSource(1)))

	for i := 1; i <= 5; i++ {
		s, err := src.Next()
		require.NoError(t, err)
		want := float64(i) * 10
		assert.Equal(t, want, s.X)
		assert.Equal(t, want, s.Y)
		assert.Equal(t, want, s.Z)
	}
}

func TestDriftAnglesStayWithinCumulativeBounds(t *testing.T) {
	cfg := DefaultDrift()
	src := NewDriftSource(cfg, rand.New(rand.NewSource(42)))

	const n = 500
	const eps = 1e-9
	var s Sample
	var err error
	for i := 1; i <= n; i++ {
		prev := s
		s, err = src.Next()
		require.NoError(t, err)

		for _, d := range []float64{s.XTheta - prev.XTheta, s.YTheta - prev.YTheta, s.ZTheta - prev.ZTheta} {
			assert.GreaterOrEqual(t, d, cfg.AngleDeltaMin-eps)
			assert.LessOrEqual(t, d, cfg.AngleDeltaMax+eps)
		}
	}

	for _, total := range []float64{s.XTheta, s.YTheta, s.ZTheta} {
		assert.GreaterOrEqual(t, total, n*cfg.AngleDeltaMin)
		assert.LessOrEqual(t, total, n*cfg.AngleDeltaMax)
	}
}

func TestDriftUnclampedExceedsDeclaredBounds(t *testing.T) {
	src := NewDriftSource(DefaultDrift(), rand.New(rand.NewSource(7)))

	var s Sample
	for i := 0; i < 20; i++ {
		s, _ = src.Next()
	}
	assert.Equal(t, 200.0, s.X, "position drifts past PositionMax when not clamped")
}

func TestDriftClamped(t *testing.T) {
	cfg := DefaultDrift()
	cfg.Clamp = true
	cfg.AngleDeltaMin = 50
	cfg.AngleDeltaMax = 60
	src := NewDriftSource(cfg, rand.New(rand.NewSource(3)))

	var s Sample
	for i := 0; i < 30; i++ {
		var err error
		s, err = src.Next()
		require.NoError(t, err)
		for _, v := range []float64{s.X, s.Y, s.Z} {
			assert.LessOrEqual(t, v, cfg.PositionMax)
			assert.GreaterOrEqual(t, v, cfg.PositionMin)
		}
		for _, v := range []float64{s.XTheta, s.YTheta, s.ZTheta} {
			assert.LessOrEqual(t, v, cfg.AngleMax)
			assert.GreaterOrEqual(t, v, cfg.AngleMin)
		}
	}
	assert.Equal(t, cfg.PositionMax, s.X)
	assert.Equal(t, cfg.AngleMax, s.ZTheta)
}

func TestDriftNilRandIsSeeded(t *testing.T) {
	src := NewDriftSource(DefaultDrift(), nil)
	_, err := src.Next()
	assert.NoError(t, err)
}
