// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"math/rand"
	"time"
)

// DriftConfig holds the step sizes and declared bounds for DriftSource.
type DriftConfig struct {
	PositionStep float64
	PositionMin  float64
	PositionMax  float64

	AngleDeltaMin float64
	AngleDeltaMax float64
	AngleMin      float64
	AngleMax      float64

	// Clamp keeps every field inside its declared bounds. When false the
	// values drift without limit.
	Clamp bool
}

// DefaultDrift returns the stock step sizes and bounds.
func DefaultDrift() DriftConfig {
	return DriftConfig{
		PositionStep:  10,
		PositionMin:   -100,
		PositionMax:   100,
		AngleDeltaMin: -2,
		AngleDeltaMax: 2,
		AngleMin:      -180,
		AngleMax:      180,
	}
}

type driftSource struct {
	cfg   DriftConfig
	rng   *rand.Rand
	state Sample
}

// NewDriftSource creates a source where position advances by a fixed step
// and each angle by a uniform draw from [AngleDeltaMin, AngleDeltaMax].
// A nil rng seeds a new generator from the clock.
func NewDriftSource(cfg DriftConfig, rng *rand.Rand) Source {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &driftSource{cfg: cfg, rng: rng}
}

func (d *driftSource) Next() (Sample, error) {
	s := &d.state

	s.X += d.cfg.PositionStep
	s.Y += d.cfg.PositionStep
	s.Z += d.cfg.PositionStep
	s.XTheta += d.angleDelta()
	s.YTheta += d.angleDelta()
	s.ZTheta += d.angleDelta()

	if d.cfg.Clamp {
		s.X = clamp(s.X, d.cfg.PositionMin, d.cfg.PositionMax)
		s.Y = clamp(s.Y, d.cfg.PositionMin, d.cfg.PositionMax)
		s.Z = clamp(s.Z, d.cfg.PositionMin, d.cfg.PositionMax)
		s.XTheta = clamp(s.XTheta, d.cfg.AngleMin, d.cfg.AngleMax)
		s.YTheta = clamp(s.YTheta, d.cfg.AngleMin, d.cfg.AngleMax)
		s.ZTheta = clamp(s.ZTheta, d.cfg.AngleMin, d.cfg.AngleMax)
	}

	return *s, nil
}

// angleDelta draws uniformly from [AngleDeltaMin, AngleDeltaMax].
func (d *driftSource) angleDelta() float64 {
	lo, hi := d.cfg.AngleDeltaMin, d.cfg.AngleDeltaMax
	return lo + d.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
