// Package genlog writes synthetic sshd auth-log batches, useful for feeding
// the watcher during demos and load tests.
package genlog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/logsieve/logsieve/pkg/log"
)

// Defaults mirror the traffic the generator is meant to simulate: mostly
// failed logins, the threat the filter is tuned to catch.
var (
	DefaultUsers = []string{"root", "admin", "user1", "guest", "db_admin"}
	DefaultIPs   = []string{"192.168.1.105", "10.0.0.42", "172.16.0.5", "45.33.22.11"}
)

const (
	DefaultInterval     = "5s"
	DefaultLinesPerFile = 5
	DefaultFailureRate  = 0.8
)

// Config describes the generator's output.
type Config struct {
	// Interval is the delay between batches, as a duration string.
	Interval string `json:"interval,omitempty" jsonschema:"title=Batch Interval"`
	// FailureRate is the fraction of lines reporting a failed login,
	// between 0 and 1.
	FailureRate *float64 `json:"failureRate,omitempty" jsonschema:"title=Failure Rate"`
	// Users is the pool of account names appearing in generated lines.
	Users []string `json:"users,omitempty" jsonschema:"title=User Pool"`
	// IPs is the pool of source addresses appearing in generated lines.
	IPs []string `json:"ips,omitempty" jsonschema:"title=IP Pool"`
	// LinesPerFile is the number of lines written per batch file.
	LinesPerFile int `json:"linesPerFile,omitempty" jsonschema:"title=Lines Per File"`
}

func DefaultConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Interval == "" {
		c.Interval = DefaultInterval
	}
	if c.LinesPerFile <= 0 {
		c.LinesPerFile = DefaultLinesPerFile
	}
	if c.FailureRate == nil {
		rate := DefaultFailureRate
		c.FailureRate = &rate
	}
	if len(c.Users) == 0 {
		c.Users = DefaultUsers
	}
	if len(c.IPs) == 0 {
		c.IPs = DefaultIPs
	}
}

// Generator writes auth-log batches.
type Generator struct {
	cfg      *Config
	interval time.Duration
}

// New creates a [Generator], validating the configured interval and rate.
func New(cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.EnsureDefaults()
	}

	interval, err := time.ParseDuration(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("parse interval: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("parse interval: %q must be positive", cfg.Interval)
	}

	if rate := *cfg.FailureRate; rate < 0 || rate > 1 {
		return nil, fmt.Errorf("failure rate %v out of range [0, 1]", rate)
	}

	return &Generator{cfg: cfg, interval: interval}, nil
}

// Interval returns the delay between batches.
func (g *Generator) Interval() time.Duration { return g.interval }

// WriteBatch writes one batch file into dir and returns its path. Unlike the
// watcher, the generator creates the directory if it is missing.
func (g *Generator) WriteBatch(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("auth_%d.log", time.Now().UnixNano()))

	var sb strings.Builder
	for range g.cfg.LinesPerFile {
		sb.WriteString(g.line())
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write batch: %w", err)
	}

	return path, nil
}

// Run writes batches on the configured interval until ctx is cancelled or
// the batch count is reached. A count of 0 means run until cancelled.
func (g *Generator) Run(ctx context.Context, dir string, count int) error {
	logger := log.WithContext(ctx)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	written := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		path, err := g.WriteBatch(dir)
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "generated log batch",
			slog.String("path", path),
			slog.Int("lines", g.cfg.LinesPerFile),
		)

		written++
		if count > 0 && written >= count {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// line renders one sshd-style auth line, failed or accepted depending on the
// configured rate.
func (g *Generator) line() string {
	var (
		timestamp = time.Now().Format("Jan 02 15:04:05")
		user      = g.cfg.Users[rand.IntN(len(g.cfg.Users))]
		ip        = g.cfg.IPs[rand.IntN(len(g.cfg.IPs))]
	)

	verdict := "Accepted"
	if rand.Float64() < *g.cfg.FailureRate {
		verdict = "Failed"
	}

	return fmt.Sprintf("%s my-server sshd[1234]: %s password for %s from %s port 54321 ssh2\n",
		timestamp, verdict, user, ip)
}
