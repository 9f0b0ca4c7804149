package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

var ErrNoDesktopNotifier = errors.New("no desktop notifier available")

// Desktop shows a native desktop notification through notify-send on Linux
// and osascript on macOS.
type Desktop struct {
	command func(ctx context.Context, title, body string) *exec.Cmd
}

func NewDesktop() (*Desktop, error) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		if _, err := exec.LookPath("notify-send"); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoDesktopNotifier, err)
		}
		return &Desktop{command: notifySend}, nil
	case "darwin":
		if _, err := exec.LookPath("osascript"); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoDesktopNotifier, err)
		}
		return &Desktop{command: osascript}, nil
	default:
		return nil, fmt.Errorf("%w on %s", ErrNoDesktopNotifier, runtime.GOOS)
	}
}

func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	out, err := d.command(ctx, title, body).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: can't show desktop notification: %s", err, out)
	}
	return nil
}

func notifySend(ctx context.Context, title, body string) *exec.Cmd {
	return exec.CommandContext(ctx, "notify-send", "--app-name=t212-monitor", title, body)
}

func osascript(ctx context.Context, title, body string) *exec.Cmd {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
	return exec.CommandContext(ctx, "osascript", "-e", script)
}
