// Package hyprland talks to the Hyprland compositor over its two unix
// sockets: .socket.sock for requests and .socket2.sock for events.
package hyprland

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoInstance means no Hyprland instance signature is known.
var ErrNoInstance = errors.New("HYPRLAND_INSTANCE_SIGNATURE not set; is Hyprland running?")

const (
	requestSocket = ".socket.sock"
	eventSocket   = ".socket2.sock"
)

// Sockets locates one Hyprland instance's IPC directory.
type Sockets struct {
	Dir string
}

// Request is the path of the request socket.
func (s Sockets) Request() string { return filepath.Join(s.Dir, requestSocket) }

// Events is the path of the event socket.
func (s Sockets) Events() string { return filepath.Join(s.Dir, eventSocket) }

// Locate resolves the socket directory. Empty arguments fall back to
// HYPRLAND_INSTANCE_SIGNATURE and $XDG_RUNTIME_DIR/hypr, then /tmp/hypr for
// compositors older than 0.40.
func Locate(instance, socketDir string) (Sockets, error) {
	if instance == "" {
		instance = os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	}
	if instance == "" {
		return Sockets{}, ErrNoInstance
	}
	if socketDir != "" {
		return Sockets{Dir: filepath.Join(socketDir, instance)}, nil
	}

	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		dir := filepath.Join(runtime, "hypr", instance)
		if _, err := os.Stat(dir); err == nil {
			return Sockets{Dir: dir}, nil
		}
	}
	legacy := filepath.Join(os.TempDir(), "hypr", instance)
	if _, err := os.Stat(legacy); err == nil {
		return Sockets{Dir: legacy}, nil
	}

	// Neither exists yet; prefer the modern location so WaitForSocket can watch it.
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return Sockets{Dir: filepath.Join(runtime, "hypr", instance)}, nil
	}
	return Sockets{Dir: legacy}, nil
}

// WaitForSocket blocks until path exists, ctx is done or timeout elapses.
// A zero timeout only checks once.
func WaitForSocket(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if timeout <= 0 {
		return fmt.Errorf("socket %s does not exist", path)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// The socket may have appeared between the first Stat and Add.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s: %w", path, ctx.Err())
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", path)
			}
			if event.Name == path && event.Has(fsnotify.Create) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed while waiting for %s", path)
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}
