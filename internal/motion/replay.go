// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	recordSeparator = "\x00"
	fieldSeparator  = "_"
	recordFields    = 7
)

// ErrMalformedRecord is returned when a replay record does not split into
// timestamp plus six values.
var ErrMalformedRecord = errors.New("malformed replay record")

// Record is one parsed replay entry. The timestamp is kept as text.
type Record struct {
	Timestamp string
	Sample    Sample
}

// ParseRecord splits "timestamp_x_y_z_xtheta_ytheta_ztheta" into a Record.
func ParseRecord(raw string) (Record, error) {
	parts := strings.Split(raw, fieldSeparator)
	if len(parts) != recordFields {
		return Record{}, fmt.Errorf("%w: want %d fields, got %d in %q",
			ErrMalformedRecord, recordFields, len(parts), raw)
	}

	var vals [FieldCount]float64
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %d %q: %v", ErrMalformedRecord, i+1, p, err)
		}
		vals[i] = v
	}
	return Record{Timestamp: parts[0], Sample: fromFields(vals)}, nil
}

// ReplaySource emits the records of a pre-recorded capture in order.
// Each line holds one or more NUL-separated records.
type ReplaySource struct {
	r       io.Reader
	sc      *bufio.Scanner
	closer  io.Closer
	loop    bool
	line    int
	pending []string
	emitted int // records emitted during the current pass

	closeOnce sync.Once
	closeErr  error
}

// NewReplaySource reads records from r. With loop set and r an io.Seeker,
// the capture restarts from the top once exhausted; otherwise Next returns
// io.EOF at the end.
func NewReplaySource(r io.Reader, loop bool) *ReplaySource {
	rs := &ReplaySource{r: r, loop: loop}
	if c, ok := r.(io.Closer); ok {
		rs.closer = c
	}
	rs.reset()
	return rs
}

// OpenReplay opens a capture file. A missing file is an error; callers that
// want the pointer fallback check for an empty path before calling.
func OpenReplay(path string, loop bool) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	return NewReplaySource(f, loop), nil
}

func (r *ReplaySource) reset() {
	r.sc = bufio.NewScanner(r.r)
	r.sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	r.line = 0
	r.pending = nil
	r.emitted = 0
}

// Next returns the next replayed sample.
func (r *ReplaySource) Next() (Sample, error) {
	rec, err := r.NextRecord()
	if err != nil {
		return Sample{}, err
	}
	return rec.Sample, nil
}

// NextRecord is Next with the record timestamp attached.
func (r *ReplaySource) NextRecord() (Record, error) {
	for {
		if len(r.pending) > 0 {
			raw := r.pending[0]
			r.pending = r.pending[1:]
			rec, err := ParseRecord(raw)
			if err != nil {
				return Record{}, fmt.Errorf("line %d: %w", r.line, err)
			}
			r.emitted++
			return rec, nil
		}

		if r.sc.Scan() {
			r.line++
			text := strings.TrimRight(r.sc.Text(), "\r")
			r.pending = strings.Split(text, recordSeparator)
			continue
		}
		if err := r.sc.Err(); err != nil {
			return Record{}, fmt.Errorf("read replay line %d: %w", r.line+1, err)
		}

		if !r.loop || r.emitted == 0 {
			return Record{}, io.EOF
		}
		seeker, ok := r.r.(io.Seeker)
		if !ok {
			return Record{}, io.EOF
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return Record{}, fmt.Errorf("rewind replay: %w", err)
		}
		r.reset()
	}
}

// Close releases the underlying file, if any. Safe to call more than once.
func (r *ReplaySource) Close() error {
	r.closeOnce.Do(func() {
		if r.closer != nil {
			r.closeErr = r.closer.Close()
		}
	})
	return r.closeErr
}
