// Package clipboard copies a secret to the system clipboard and clears it
// after a timeout, so a copied password does not linger indefinitely.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultClearTimeout is how long a copied secret stays on the clipboard
const DefaultClearTimeout = 30 * time.Second

var ErrUnavailable = errors.New("no clipboard utility found")

// Clipboard writes text to the system clipboard
type Clipboard interface {
	Set(text string) error
}

// execClipboard shells out to the platform's clipboard utility
type execClipboard struct {
	name string
	args []string
}

func (c execClipboard) Set(text string) error {
	cmd := exec.Command(c.name, c.args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", c.name, err)
	}
	return nil
}

// New returns a clipboard for the current platform, or ErrUnavailable
// when no known utility is installed.
func New() (Clipboard, error) {
	var candidates []execClipboard
	switch runtime.GOOS {
	case "darwin":
		candidates = []execClipboard{{name: "pbcopy"}}
	case "windows":
		candidates = []execClipboard{{name: "clip"}}
	default:
		candidates = []execClipboard{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.name); err == nil {
			return c, nil
		}
	}
	return nil, ErrUnavailable
}

// CopyWithClear copies text to the clipboard and clears it after the
// timeout via ClearAfter
func CopyWithClear(ctx context.Context, c Clipboard, text string, timeout time.Duration) error {
	if err := c.Set(text); err != nil {
		return err
	}
	return ClearAfter(ctx, c, timeout)
}

// ClearAfter waits for the timeout (or context cancellation) and
// overwrites the clipboard with an empty string. A non-positive timeout
// disables clearing. The clipboard is cleared even when the context is
// cancelled early.
func ClearAfter(ctx context.Context, c Clipboard, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}

	select {
	case <-time.After(timeout):
	case <-ctx.Done():
	}
	return c.Set("")
}
