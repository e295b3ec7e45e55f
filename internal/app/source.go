package app

import (
	"fmt"
	"io"
	"os"

	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/motion"
)

// CursorOpener is called only when a mode actually needs the pointer.
type CursorOpener func() (motion.CursorReader, error)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// NewSource picks the sample source for cfg.Mode. Replay with an empty path
// falls back to the pointer; a path that does not open is an error.
func NewSource(cfg *config.Config, openCursor CursorOpener, log *zap.SugaredLogger) (motion.Source, io.Closer, error) {
	switch cfg.Mode {
	case config.ModeDrift:
		drift := motion.DriftConfig{
			PositionStep:  cfg.PositionStep,
			PositionMin:   cfg.PositionMin,
			PositionMax:   cfg.PositionMax,
			AngleDeltaMin: cfg.AngleDeltaMin,
			AngleDeltaMax: cfg.AngleDeltaMax,
			AngleMin:      cfg.AngleMin,
			AngleMax:      cfg.AngleMax,
			Clamp:         cfg.DriftClamp,
		}
		return motion.NewDriftSource(drift, nil), nopCloser, nil

	case config.ModePointer:
		return newPointer(cfg, openCursor)

	case config.ModeReplay:
		if cfg.ReplayPath == "" {
			log.Infof("no replay file configured, falling back to pointer mode")
			return newPointer(cfg, openCursor)
		}
		rs, err := motion.OpenReplay(cfg.ReplayPath, cfg.ReplayLoop)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("replaying %s (loop=%v)", cfg.ReplayPath, cfg.ReplayLoop)
		return rs, rs, nil

	case config.ModeNMEA:
		r, err := openNMEA(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("reading NMEA sentences from %s", cfg.NMEAPort)
		ns := motion.NewNMEASource(r)
		return ns, ns, nil

	default:
		return nil, nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func newPointer(cfg *config.Config, openCursor CursorOpener) (motion.Source, io.Closer, error) {
	axis, err := motion.ParseCursorAxis(cfg.CursorAxis)
	if err != nil {
		return nil, nil, err
	}
	if openCursor == nil {
		return nil, nil, fmt.Errorf("pointer mode needs a cursor")
	}
	cur, err := openCursor()
	if err != nil {
		return nil, nil, fmt.Errorf("open cursor: %w", err)
	}

	closer := io.Closer(nopCloser)
	if c, ok := cur.(io.Closer); ok {
		closer = c
	}
	return motion.NewPointerSource(cur, axis), closer, nil
}

// openNMEA opens a capture file as-is and anything else as a serial port.
func openNMEA(cfg *config.Config) (io.ReadCloser, error) {
	if fi, err := os.Stat(cfg.NMEAPort); err == nil && fi.Mode().IsRegular() {
		f, err := os.Open(cfg.NMEAPort)
		if err != nil {
			return nil, fmt.Errorf("open NMEA capture: %w", err)
		}
		return f, nil
	}

	serialOpts := serial.OpenOptions{
		PortName:              cfg.NMEAPort,
		BaudRate:              uint(cfg.NMEABaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("open NMEA serial port %s: %w", cfg.NMEAPort, err)
	}
	return port, nil
}
