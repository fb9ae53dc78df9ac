package service

import (
	"log/slog"
	"net"
	"os"
)

// Ready tells systemd that a Type=notify unit has finished starting.
// Outside systemd it does nothing.
func Ready() { sdNotify("READY=1") }

// Stopping tells systemd that shutdown has begun.
func Stopping() { sdNotify("STOPPING=1") }

func sdNotify(state string) {
	socket := os.Getenv("NOTIFY_SOCKET")
	if socket == "" {
		return
	}
	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: socket, Net: "unixgram"})
	if err != nil {
		slog.Warn("sd-notify dial failed", "socket", socket, "error", err)
		return
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(state)); err != nil {
		slog.Warn("sd-notify write failed", "socket", socket, "error", err)
	}
}
