package host

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("clipboard is not supported on this system")

// clipboardWriteAll is replaced in tests.
var clipboardWriteAll = clipboard.WriteAll

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// Copy places text on the clipboard.
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// NopClipboard accepts every copy and keeps nothing.
type NopClipboard struct{}

func (NopClipboard) Copy(string) error { return nil }
