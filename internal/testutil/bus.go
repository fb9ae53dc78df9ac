package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

// busConfigTemplate is a permissive dbus-daemon config: any local client may
// own any name and call anything. Arg: socket path.
const busConfigTemplate = `<?xml version="1.0"?>
<!DOCTYPE busconfig PUBLIC "-//freedesktop//DTD D-BUS Bus Configuration 1.0//EN"
 "http://www.freedesktop.org/standards/dbus/1.0/busconfig.dtd">
<busconfig>
  <type>session</type>
  <listen>unix:path=%s</listen>
  <policy context="default">
    <allow user="*"/>
    <allow own="*"/>
    <allow send_type="method_call"/>
    <allow send_type="signal"/>
    <allow send_requested_reply="true" send_type="method_return"/>
    <allow send_requested_reply="true" send_type="error"/>
    <allow receive_type="method_call"/>
    <allow receive_type="method_return"/>
    <allow receive_type="error"/>
    <allow receive_type="signal"/>
  </policy>
</busconfig>`

// StartBus starts a private dbus-daemon and returns its address.
// Uses filesystem sockets (NOT abstract) to avoid cross-test collisions.
// The test is skipped when dbus-daemon is not installed.
func StartBus(t testing.TB) string {
	t.Helper()

	if _, err := exec.LookPath("dbus-daemon"); err != nil {
		t.Skip("dbus-daemon not installed")
	}

	tmpDir := t.TempDir()
	sockPath := filepath.Join(tmpDir, "bus.sock")
	confPath := filepath.Join(tmpDir, "bus.conf")

	if err := os.WriteFile(confPath, []byte(fmt.Sprintf(busConfigTemplate, sockPath)), 0600); err != nil {
		t.Fatalf("write bus config: %v", err)
	}

	cmd := exec.Command("dbus-daemon", "--config-file="+confPath, "--nofork")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start dbus-daemon: %v", err)
	}
	t.Cleanup(func() {
		cmd.Process.Kill() //nolint:errcheck
		cmd.Wait()         //nolint:errcheck
	})

	// Wait for socket file to appear (50 * 100ms = 5s max).
	for range 50 {
		if _, err := os.Stat(sockPath); err == nil {
			return "unix:path=" + sockPath
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("dbus-daemon socket not created in time")
	return ""
}

// Dial connects to addr and closes the connection when the test ends.
func Dial(t testing.TB, addr string) *dbus.Conn {
	t.Helper()
	conn, err := dbus.Connect(addr)
	if err != nil {
		t.Fatalf("connect to %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// StartMockNetworkManager starts a private bus with a registered mock
// NetworkManager and returns the bus address.
func StartMockNetworkManager(t testing.TB) (*MockNetworkManager, string) {
	t.Helper()
	addr := StartBus(t)
	mock := NewMockNetworkManager()
	if err := mock.Register(Dial(t, addr)); err != nil {
		t.Fatalf("register mock NetworkManager: %v", err)
	}
	return mock, addr
}
