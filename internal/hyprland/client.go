package hyprland

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// Workspace is one entry of j/workspaces.
type Workspace struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Monitor         string `json:"monitor"`
	Windows         int    `json:"windows"`
	HasFullscreen   bool   `json:"hasfullscreen"`
	LastWindow      string `json:"lastwindow"`
	LastWindowTitle string `json:"lastwindowtitle"`
}

// Window is the reply of j/activewindow. Hyprland answers {} when nothing
// is focused.
type Window struct {
	Address   string `json:"address"`
	Class     string `json:"class"`
	Title     string `json:"title"`
	Workspace struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"workspace"`
}

// Keyboard is one entry of j/devices "keyboards".
type Keyboard struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Layout       string `json:"layout"`
	Variant      string `json:"variant"`
	ActiveKeymap string `json:"active_keymap"`
	Main         bool   `json:"main"`
}

// Devices is the reply of j/devices, trimmed to what is used here.
type Devices struct {
	Keyboards []Keyboard `json:"keyboards"`
}

// Client issues requests on the request socket. Each request uses a fresh
// connection; Hyprland closes it after replying.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient creates a client for the request socket at path.
func NewClient(path string) *Client {
	return &Client{path: path, timeout: 5 * time.Second}
}

// Request sends "j/<command>" and decodes the JSON reply into v.
func (c *Client) Request(ctx context.Context, command string, v any) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return fmt.Errorf("connect to hyprland: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	if _, err := io.WriteString(conn, "j/"+command); err != nil {
		return fmt.Errorf("send %s: %w", command, err)
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		return fmt.Errorf("read %s reply: %w", command, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s reply %.64q: %w", command, data, err)
	}
	return nil
}

func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var ws []Workspace
	if err := c.Request(ctx, "workspaces", &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (c *Client) ActiveWorkspace(ctx context.Context) (Workspace, error) {
	var ws Workspace
	err := c.Request(ctx, "activeworkspace", &ws)
	return ws, err
}

func (c *Client) ActiveWindow(ctx context.Context) (Window, error) {
	var w Window
	err := c.Request(ctx, "activewindow", &w)
	return w, err
}

func (c *Client) Devices(ctx context.Context) (Devices, error) {
	var d Devices
	err := c.Request(ctx, "devices", &d)
	return d, err
}
