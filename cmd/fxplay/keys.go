package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

const keyCtrlC = 0x03

// openKeyboard puts stdin into raw mode and streams its bytes. The
// returned function restores the terminal.
func openKeyboard() (<-chan byte, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil, errors.New("stdin is not a terminal")
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	return readKeys(os.Stdin), func() { _ = term.Restore(fd, old) }, nil
}

// readKeys forwards bytes from r until it fails. The goroutine may
// outlive its consumer while blocked in Read.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte, 16)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}

// controller turns key presses into property changes and serialises
// status output, which needs CR LF while the terminal is raw.
type controller struct {
	host       *kernel.Host
	bypassable bool
	bypassed   bool

	mu  sync.Mutex
	out io.Writer
}

func (c *controller) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.out
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "\r\x1b[K"+format+"\r\n", args...)
}

// status rewrites the current line without advancing.
func (c *controller) status(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.out
	if w == nil {
		w = os.Stderr
	}
	_, _ = fmt.Fprintf(w, "\r\x1b[K"+format, args...)
}

// handleKey reacts to one key. It returns false when playback should
// stop.
func (c *controller) handleKey(k byte) bool {
	switch k {
	case 'q', 'Q', keyCtrlC:
		return false
	case 'b', 'B':
		if !c.bypassable {
			c.printf("%s has no bypass", c.host.Describe().Name)
			return true
		}
		if err := c.host.Post(kernel.PropBypass, param.Bool(!c.bypassed)); err != nil {
			c.printf("bypass: %v", err)
			return true
		}
		c.bypassed = !c.bypassed
		c.printf("bypass %v", c.bypassed)
	}
	return true
}

func (c *controller) keyLoop(ctx context.Context, keys <-chan byte, stop context.CancelFunc) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok || !c.handleKey(k) {
				stop()
				return nil
			}
		}
	}
}
