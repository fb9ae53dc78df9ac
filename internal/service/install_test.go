package service

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// --- test helpers ---

func mockSystemctl(t *testing.T, fail string) *[]string {
	t.Helper()
	orig := systemctlFunc
	var calls []string
	systemctlFunc = func(args ...string) error {
		call := strings.Join(args, " ")
		calls = append(calls, call)
		if call == fail {
			return errors.New("systemctl failed")
		}
		return nil
	}
	t.Cleanup(func() { systemctlFunc = orig })
	return &calls
}

func mockExecutable(t *testing.T, path string) {
	t.Helper()
	orig := executableFunc
	executableFunc = func() (string, error) { return path, nil }
	t.Cleanup(func() { executableFunc = orig })
}

func readUnit(t *testing.T, dir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, "systemd", "user", unitFileName))
	if err != nil {
		t.Fatalf("read unit: %v", err)
	}
	return string(content)
}

func TestInstallWritesUnit(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	mockExecutable(t, "/usr/bin/bar-helper")
	mockSystemctl(t, "")

	if err := Install(Options{}); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	s := readUnit(t, tmpDir)
	if !strings.Contains(s, "ExecStart=/usr/bin/bar-helper network info --follow --notify\n") {
		t.Errorf("unit missing ExecStart:\n%s", s)
	}
	if !strings.Contains(s, "Type=notify") {
		t.Error("unit missing Type=notify")
	}
	if !strings.Contains(s, "WantedBy=graphical-session.target") {
		t.Error("unit missing WantedBy=graphical-session.target")
	}
	if strings.Contains(s, "--config") {
		t.Error("unit should not pass --config without a config path")
	}
}

func TestInstallCustomConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	mockExecutable(t, "/usr/bin/bar-helper")
	mockSystemctl(t, "")

	if err := Install(Options{ConfigPath: "/etc/bar-helper.yaml"}); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	s := readUnit(t, tmpDir)
	want := "ExecStart=/usr/bin/bar-helper --config /etc/bar-helper.yaml network info --follow --notify\n"
	if !strings.Contains(s, want) {
		t.Errorf("unit missing %q:\n%s", want, s)
	}
}

func TestInstallSystemctlCalls(t *testing.T) {
	tests := []struct {
		name  string
		start bool
		want  []string
	}{
		{"enable only", false, []string{"daemon-reload", "enable " + unitFileName}},
		{"with start", true, []string{"daemon-reload", "enable " + unitFileName, "start " + unitFileName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			mockExecutable(t, "/usr/bin/bar-helper")
			calls := mockSystemctl(t, "")

			if err := Install(Options{Start: tt.start}); err != nil {
				t.Fatalf("Install() error: %v", err)
			}
			if !slices.Equal(*calls, tt.want) {
				t.Errorf("systemctl calls = %v, want %v", *calls, tt.want)
			}
		})
	}
}

func TestInstallStopsOnSystemctlError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	mockExecutable(t, "/usr/bin/bar-helper")
	calls := mockSystemctl(t, "daemon-reload")

	if err := Install(Options{Start: true}); err == nil {
		t.Fatal("Install() succeeded despite failing daemon-reload")
	}
	if len(*calls) != 1 {
		t.Errorf("systemctl calls after failure = %v", *calls)
	}
}

func TestUninstall(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	mockExecutable(t, "/usr/bin/bar-helper")
	mockSystemctl(t, "")

	if err := Install(Options{}); err != nil {
		t.Fatalf("Install() error: %v", err)
	}

	calls := mockSystemctl(t, "stop "+unitFileName)
	if err := Uninstall(); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}

	path, _ := UnitPath()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("unit file still present: %v", err)
	}
	want := []string{"stop " + unitFileName, "disable " + unitFileName, "daemon-reload"}
	if !slices.Equal(*calls, want) {
		t.Errorf("systemctl calls = %v, want %v", *calls, want)
	}
}

func TestUninstallWithoutUnitFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	mockSystemctl(t, "")

	if err := Uninstall(); err != nil {
		t.Errorf("Uninstall() without a unit file: %v", err)
	}
}

func TestReady(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sock, Net: "unixgram"})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer conn.Close()
	t.Setenv("NOTIFY_SOCKET", sock)

	Ready()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "READY=1" {
		t.Errorf("notify state = %q, want READY=1", got)
	}
}

func TestReadyWithoutSystemd(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	Ready() // must not panic or block
}
