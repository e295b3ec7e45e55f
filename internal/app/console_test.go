package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/motion"
)

func TestPrintSampleShowsRawAndNormalized(t *testing.T) {
	cfg := config.Default()
	cfg.NormalizeMin = -100
	cfg.NormalizeMax = 100

	raw := motion.Sample{X: 50, Y: -100, Z: 100, XTheta: 1.5, YTheta: 2, ZTheta: 3}
	var buf bytes.Buffer
	printSample(&buf, raw, normalizerFor(cfg).Apply(raw))

	out := buf.String()
	assert.Contains(t, out, "[RAW ] X=   50.00 Y= -100.00 Z=  100.00")
	// Y and Z swap on the consumer side.
	assert.Contains(t, out, "[NORM] X=   0.500 Y=   1.000 Z=  -1.000")
}
