// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package cursor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ErrClosed is returned by Position after Close.
var ErrClosed = errors.New("cursor: terminal closed")

// Terminal tracks the mouse pointer inside the controlling terminal.
// Coordinates are 0-indexed character cells, origin top-left.
type Terminal struct {
	screen tcell.Screen

	mu     sync.RWMutex
	x, y   int
	closed bool

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewTerminal takes over the terminal and enables mouse motion reporting.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal screen: %w", err)
	}
	return NewTerminalOn(screen)
}

// NewTerminalOn starts tracking on an existing, uninitialized screen.
func NewTerminalOn(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{
		screen: screen,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	t.draw()
	go t.loop()
	return t, nil
}

// Position returns the last reported pointer cell.
func (t *Terminal) Position() (int, int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return 0, 0, ErrClosed
	}
	return t.x, t.y, nil
}

// Quit is closed when the user presses Esc or Ctrl+C in the terminal.
func (t *Terminal) Quit() <-chan struct{} {
	return t.quit
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.screen.Fini()
	<-t.done
	return nil
}

func (t *Terminal) loop() {
	defer close(t.done)

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			// screen finalized
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventMouse:
			x, y := ev.Position()
			t.mu.Lock()
			t.x, t.y = x, y
			t.mu.Unlock()
			t.draw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				t.quitOnce.Do(func() { close(t.quit) })
			}
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw()
		}
	}
}

// draw prints the tracked position on the first row.
func (t *Terminal) draw() {
	x, y, err := t.Position()
	if err != nil {
		return
	}

	status := fmt.Sprintf("pointer x=%-5d y=%-5d  (Esc to quit)", x, y)
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	w, _ := t.screen.Size()
	for col := 0; col < w; col++ {
		r := ' '
		if col < len(status) {
			r = rune(status[col])
		}
		t.screen.SetContent(col, 0, r, nil, style)
	}
	t.screen.Show()
}
