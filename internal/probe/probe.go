// Package probe checks global internet connectivity with a single ICMP echo.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"golang.org/x/sys/unix"
)

// ErrNoReply is reported when the echo request got no answer within the timeout.
var ErrNoReply = errors.New("no echo reply")

// Config describes the echo request.
type Config struct {
	Host        string
	Timeout     time.Duration
	PayloadSize int
	ID          int
}

// Result is the outcome of one probe.
type Result struct {
	Target    string    `json:"target"`
	Address   string    `json:"address,omitempty"`
	OK        bool      `json:"ok"`
	LatencyMS float64   `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func (r Result) Text() string {
	if r.OK {
		return fmt.Sprintf("%s reachable in %.1fms", r.Target, r.LatencyMS)
	}
	return fmt.Sprintf("%s unreachable: %s", r.Target, r.Error)
}

// Pinger sends one echo request per Check. Raw ICMP sockets are used when
// running as root, unprivileged datagram sockets otherwise.
type Pinger struct {
	cfg        Config
	privileged bool
	logger     *slog.Logger
}

// New creates a Pinger.
func New(cfg Config) *Pinger {
	return &Pinger{
		cfg:        cfg,
		privileged: unix.Geteuid() == 0,
		logger:     slog.Default().With("component", "probe"),
	}
}

// Check sends the echo request and waits for the reply or the timeout.
func (p *Pinger) Check(ctx context.Context) Result {
	res := Result{Target: p.cfg.Host, CheckedAt: time.Now()}

	pinger := probing.New(p.cfg.Host)
	pinger.Count = 1
	pinger.Size = p.cfg.PayloadSize
	pinger.Timeout = p.cfg.Timeout
	pinger.ResolveTimeout = p.cfg.Timeout
	pinger.SetID(p.cfg.ID)
	pinger.SetPrivileged(p.privileged)
	pinger.SetLogger(slogLogger{p.logger})

	if err := pinger.RunWithContext(ctx); err != nil {
		res.Error = err.Error()
		p.logger.Debug("echo failed", "host", p.cfg.Host, "error", err)
		return res
	}

	stats := pinger.Statistics()
	if stats.IPAddr != nil {
		res.Address = stats.IPAddr.String()
	}
	if stats.PacketsRecv == 0 {
		res.Error = ErrNoReply.Error()
		p.logger.Debug("echo got no reply", "host", p.cfg.Host, "addr", res.Address)
		return res
	}
	res.OK = true
	res.LatencyMS = float64(stats.AvgRtt.Microseconds()) / 1000
	p.logger.Debug("echo reply", "host", p.cfg.Host, "addr", res.Address, "rtt", stats.AvgRtt)
	return res
}

// Connected reports whether the echo request was answered.
func (p *Pinger) Connected(ctx context.Context) bool {
	return p.Check(ctx).OK
}

// slogLogger adapts slog to the pinger's printf-style logger. Fatalf is
// downgraded to an error so a probe can never exit the process.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Fatalf(format string, v ...interface{}) {
	s.l.Error(fmt.Sprintf(format, v...))
}

func (s slogLogger) Errorf(format string, v ...interface{}) {
	s.l.Error(fmt.Sprintf(format, v...))
}

func (s slogLogger) Warnf(format string, v ...interface{}) {
	s.l.Warn(fmt.Sprintf(format, v...))
}

func (s slogLogger) Infof(format string, v ...interface{}) {
	s.l.Info(fmt.Sprintf(format, v...))
}

func (s slogLogger) Debugf(format string, v ...interface{}) {
	s.l.Debug(fmt.Sprintf(format, v...))
}
