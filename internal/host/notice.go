// Package host provides the terminal side of an activation: notices on
// stderr, share targets and the system clipboard.
package host

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/veranemoloko/tinyshare/internal/domain"
)

// clearLine returns the cursor to column zero and erases the line.
const clearLine = "\r\x1b[K"

// TerminalNotifier writes notices to a terminal. On a TTY an update rewrites
// the current line; otherwise every notice is printed on its own line.
type TerminalNotifier struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	next    domain.NoticeID
	current domain.NoticeID
	open    bool
}

// NewTerminalNotifier creates a notifier for f, detecting whether it is a terminal.
func NewTerminalNotifier(f *os.File) *TerminalNotifier {
	fd := f.Fd()
	return NewNotifier(f, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// NewNotifier creates a notifier writing to w.
func NewNotifier(w io.Writer, tty bool) *TerminalNotifier {
	return &TerminalNotifier{w: w, tty: tty}
}

// Show displays a new notice and returns its handle.
func (n *TerminalNotifier) Show(text string) domain.NoticeID {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.next++
	n.current = n.next
	n.write(text)
	return n.current
}

// Update replaces the text of notice id. Stale handles are ignored.
func (n *TerminalNotifier) Update(id domain.NoticeID, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if id == 0 || id != n.current {
		return
	}
	n.write(text)
}

// Close terminates a line left open by a TTY notice.
func (n *TerminalNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.open {
		return nil
	}
	n.open = false
	_, err := fmt.Fprintln(n.w)
	return err
}

func (n *TerminalNotifier) write(text string) {
	if n.tty {
		fmt.Fprint(n.w, clearLine+text)
		n.open = true
		return
	}
	fmt.Fprintln(n.w, text)
}
