package hyprland

import (
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeHyprland serves canned replies on a request socket and scripted lines
// on an event socket, both under a temp dir.
type fakeHyprland struct {
	sockets Sockets

	mu       sync.Mutex
	replies  map[string]string
	requests []string

	events chan string
}

func newFakeHyprland(t *testing.T) *fakeHyprland {
	t.Helper()
	dir := t.TempDir()
	f := &fakeHyprland{
		sockets: Sockets{Dir: dir},
		replies: make(map[string]string),
		events:  make(chan string, 64),
	}

	reqLn, err := net.Listen("unix", filepath.Join(dir, requestSocket))
	if err != nil {
		t.Fatalf("listen request socket: %v", err)
	}
	evLn, err := net.Listen("unix", filepath.Join(dir, eventSocket))
	if err != nil {
		t.Fatalf("listen event socket: %v", err)
	}
	t.Cleanup(func() {
		reqLn.Close()
		evLn.Close()
	})

	go f.serveRequests(reqLn)
	go f.serveEvents(evLn)
	return f
}

func (f *fakeHyprland) reply(command, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[command] = body
}

func (f *fakeHyprland) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeHyprland) serveRequests(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		buf := make([]byte, 256)
		n, _ := conn.Read(buf)
		cmd := strings.TrimPrefix(string(buf[:n]), "j/")

		f.mu.Lock()
		f.requests = append(f.requests, cmd)
		body, ok := f.replies[cmd]
		f.mu.Unlock()
		if !ok {
			body = "unknown request"
		}
		io.WriteString(conn, body)
		conn.Close()
	}
}

// serveEvents writes queued lines to the first client; closing f.events
// closes the connection.
func (f *fakeHyprland) serveEvents(ln net.Listener) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	for line := range f.events {
		if _, err := io.WriteString(conn, line+"\n"); err != nil {
			return
		}
	}
}
