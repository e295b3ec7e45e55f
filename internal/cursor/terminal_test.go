package cursor

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term, err := NewTerminalOn(sim)
	require.NoError(t, err)
	sim.SetSize(80, 24)
	return term, sim
}

func TestTerminalTracksMouse(t *testing.T) {
	term, sim := newSimTerminal(t)
	defer term.Close()

	x, y, err := term.Position()
	require.NoError(t, err)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	sim.InjectMouse(17, 9, tcell.ButtonNone, tcell.ModNone)

	assert.Eventually(t, func() bool {
		x, y, err := term.Position()
		return err == nil && x == 17 && y == 9
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTerminalQuitOnEscape(t *testing.T) {
	term, sim := newSimTerminal(t)
	defer term.Close()

	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case <-term.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("Quit not signalled")
	}
}

func TestTerminalPositionAfterClose(t *testing.T) {
	term, _ := newSimTerminal(t)
	require.NoError(t, term.Close())
	require.NoError(t, term.Close())

	_, _, err := term.Position()
	assert.ErrorIs(t, err, ErrClosed)
}
