// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the six fields of a wire payload.
const Delimiter = ","

// FieldCount is the number of fields in every wire payload.
const FieldCount = 6

// ErrFieldCount is returned by ParseSample when a payload does not carry six fields.
var ErrFieldCount = errors.New("payload must have 6 fields")

// Sample is one six-axis motion snapshot: position followed by rotation angles.
type Sample struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	XTheta float64 `json:"x_theta"`
	YTheta float64 `json:"y_theta"`
	ZTheta float64 `json:"z_theta"`
}

// Source is anything that can provide samples over time.
type Source interface {
	Next() (Sample, error)
}

// Fields returns the values in wire order.
func (s Sample) Fields() [FieldCount]float64 {
	return [FieldCount]float64{s.X, s.Y, s.Z, s.XTheta, s.YTheta, s.ZTheta}
}

// Format renders the wire payload "x,y,z,x_theta,y_theta,z_theta".
func (s Sample) Format() string {
	var b strings.Builder
	for i, v := range s.Fields() {
		if i > 0 {
			b.WriteString(Delimiter)
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return b.String()
}

func (s Sample) String() string {
	return s.Format()
}

// ParseSample is the inverse of Format, used on the receiving side.
func ParseSample(payload string) (Sample, error) {
	parts := strings.Split(strings.TrimSpace(payload), Delimiter)
	if len(parts) != FieldCount {
		return Sample{}, fmt.Errorf("%w: got %d in %q", ErrFieldCount, len(parts), payload)
	}

	var vals [FieldCount]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("field %d %q: %w", i, p, err)
		}
		vals[i] = v
	}
	return fromFields(vals), nil
}

func fromFields(v [FieldCount]float64) Sample {
	return Sample{X: v[0], Y: v[1], Z: v[2], XTheta: v[3], YTheta: v[4], ZTheta: v[5]}
}
