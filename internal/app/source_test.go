package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/logging"
	"github.com/relabs-tech/motion_udp/internal/motion"
)

type countingOpener struct {
	calls  int
	cursor motion.CursorReader
}

func (o *countingOpener) open() (motion.CursorReader, error) {
	o.calls++
	return o.cursor, nil
}

func TestNewSourceDrift(t *testing.T) {
	cfg := config.Default()
	opener := &countingOpener{}

	src, closer, err := NewSource(cfg, opener.open, logging.Nop())
	require.NoError(t, err)
	defer closer.Close()

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.X)
	assert.Zero(t, opener.calls, "drift mode never touches the cursor")
}

func TestNewSourceReplayEmptyPathFallsBackToPointer(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeReplay
	cfg.ReplayPath = ""
	opener := &countingOpener{cursor: &staticCursor{x: 3, y: 4}}

	src, closer, err := NewSource(cfg, opener.open, logging.Nop())
	require.NoError(t, err)
	defer closer.Close()

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, motion.Sample{X: 3, Y: 4}, s)
	assert.Equal(t, 1, opener.calls)
}

func TestNewSourceReplayMissingFileIsError(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeReplay
	cfg.ReplayPath = filepath.Join(t.TempDir(), "missing.txt")
	opener := &countingOpener{cursor: &staticCursor{}}

	_, _, err := NewSource(cfg, opener.open, logging.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, opener.calls)
}

func TestNewSourceReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("0_1_2_3_4_5_6\x001_2_3_4_5_6_7\n"), 0o644))

	cfg := config.Default()
	cfg.Mode = config.ModeReplay
	cfg.ReplayPath = path

	src, closer, err := NewSource(cfg, nil, logging.Nop())
	require.NoError(t, err)
	defer closer.Close()

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, motion.Sample{X: 1, Y: 2, Z: 3, XTheta: 4, YTheta: 5, ZTheta: 6}, s)
}

func TestNewSourcePointerAxisZ(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModePointer
	cfg.CursorAxis = "z"
	opener := &countingOpener{cursor: &staticCursor{x: 7, y: 8}}

	src, closer, err := NewSource(cfg, opener.open, logging.Nop())
	require.NoError(t, err)
	defer closer.Close()

	s, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, motion.Sample{X: 7, Z: 8}, s)
}

func TestNewSourcePointerOpenError(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModePointer
	boom := errors.New("not a terminal")

	_, _, err := NewSource(cfg, func() (motion.CursorReader, error) { return nil, boom }, logging.Nop())
	assert.ErrorIs(t, err, boom)
}

func TestNewSourceNMEACaptureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gps.nmea")
	require.NoError(t, os.WriteFile(path, []byte("no sentences here\n"), 0o644))

	cfg := config.Default()
	cfg.Mode = config.ModeNMEA
	cfg.NMEAPort = path

	src, closer, err := NewSource(cfg, nil, logging.Nop())
	require.NoError(t, err)
	defer closer.Close()

	_, err = src.Next()
	assert.Error(t, err)
}
