// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"fmt"
	"strings"
)

// CursorReader reports the current pointer position.
type CursorReader interface {
	Position() (x, y int, err error)
}

// CursorAxis selects which sample field receives the cursor's vertical coordinate.
type CursorAxis string

const (
	AxisY CursorAxis = "y"
	AxisZ CursorAxis = "z"
)

// ParseCursorAxis accepts "y" or "z" (case-insensitive).
func ParseCursorAxis(s string) (CursorAxis, error) {
	switch a := CursorAxis(strings.ToLower(strings.TrimSpace(s))); a {
	case AxisY, AxisZ:
		return a, nil
	default:
		return "", fmt.Errorf("cursor axis must be %q or %q, got %q", AxisY, AxisZ, s)
	}
}

type pointerSource struct {
	cursor CursorReader
	axis   CursorAxis
	state  Sample
}

// NewPointerSource mirrors the cursor into X and the chosen vertical axis.
// Every other field keeps its previous value, which starts at zero.
func NewPointerSource(cursor CursorReader, axis CursorAxis) Source {
	if axis == "" {
		axis = AxisY
	}
	return &pointerSource{cursor: cursor, axis: axis}
}

func (p *pointerSource) Next() (Sample, error) {
	x, y, err := p.cursor.Position()
	if err != nil {
		return Sample{}, fmt.Errorf("cursor position: %w", err)
	}

	p.state.X = float64(x)
	if p.axis == AxisZ {
		p.state.Z = float64(y)
	} else {
		p.state.Y = float64(y)
	}
	return p.state, nil
}
