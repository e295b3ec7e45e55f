// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
)

// NMEASource turns a GPS sentence stream into samples: RMC sets X (lon),
// Y (lat) and ZTheta (course over ground), GGA sets Z (altitude).
type NMEASource struct {
	reader *bufio.Reader
	closer io.Closer
	state  Sample

	closeOnce sync.Once
	closeErr  error
}

// NewNMEASource reads NMEA 0183 sentences from r (serial port or log file).
// If r is also an io.Closer, Close closes it.
func NewNMEASource(r io.Reader) *NMEASource {
	n := &NMEASource{reader: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		n.closer = c
	}
	return n
}

// Close releases the underlying port or file. A Next blocked in a read
// returns once the port is closed. Safe to call more than once.
func (n *NMEASource) Close() error {
	n.closeOnce.Do(func() {
		if n.closer != nil {
			n.closeErr = n.closer.Close()
		}
	})
	return n.closeErr
}

// Next blocks until the next RMC or GGA sentence and returns the updated sample.
func (n *NMEASource) Next() (Sample, error) {
	for {
		line, err := n.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return Sample{}, io.EOF
			}
			return Sample{}, fmt.Errorf("nmea read: %w", err)
		}

		line = strings.TrimSpace(line)
		// NMEA sentences usually start with '$'
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, perr := nmea.Parse(line)
		if perr != nil {
			// noisy GPS or partial sentences
			continue
		}

		switch sentence.DataType() {
		case nmea.TypeRMC:
			m := sentence.(nmea.RMC)
			if m.Validity != nmea.ValidRMC {
				// receiver has no fix yet
				continue
			}
			n.state.X = m.Longitude
			n.state.Y = m.Latitude
			n.state.ZTheta = m.Course
			return n.state, nil
		case nmea.TypeGGA:
			m := sentence.(nmea.GGA)
			n.state.Z = m.Altitude
			return n.state, nil
		default:
			// other sentence types carry nothing we map
		}
	}
}
