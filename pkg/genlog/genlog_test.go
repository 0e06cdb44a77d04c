package genlog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsieve/logsieve/pkg/genlog"
)

func rate(v float64) *float64 { return &v }

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     *genlog.Config
		wantErr bool
	}{
		"nil config uses defaults": {
			cfg: nil,
		},
		"explicit interval": {
			cfg: &genlog.Config{Interval: "250ms"},
		},
		"bad interval": {
			cfg:     &genlog.Config{Interval: "soon"},
			wantErr: true,
		},
		"negative interval": {
			cfg:     &genlog.Config{Interval: "-1s"},
			wantErr: true,
		},
		"rate above one": {
			cfg:     &genlog.Config{FailureRate: rate(1.5)},
			wantErr: true,
		},
		"negative rate": {
			cfg:     &genlog.Config{FailureRate: rate(-0.1)},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := genlog.New(tc.cfg)
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	cfg := &genlog.Config{}
	cfg.EnsureDefaults()

	assert.Equal(t, genlog.DefaultInterval, cfg.Interval)
	assert.Equal(t, genlog.DefaultLinesPerFile, cfg.LinesPerFile)
	require.NotNil(t, cfg.FailureRate)
	assert.InDelta(t, genlog.DefaultFailureRate, *cfg.FailureRate, 0.0001)
	assert.Equal(t, genlog.DefaultUsers, cfg.Users)
	assert.Equal(t, genlog.DefaultIPs, cfg.IPs)
}

func TestGenerator_WriteBatch(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs", "raw")

	g, err := genlog.New(&genlog.Config{LinesPerFile: 7})
	require.NoError(t, err)

	// The generator creates the target directory, unlike the watcher.
	path, err := g.WriteBatch(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "auth_"))
	assert.True(t, strings.HasSuffix(path, ".log"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 7)

	for _, line := range lines {
		assert.Contains(t, line, "my-server sshd[1234]:")
		assert.Contains(t, line, "password for")
		assert.Contains(t, line, "port 54321 ssh2")
	}
}

func TestGenerator_FailureRateBounds(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		rate float64
		want string
	}{
		"all failures": {
			rate: 1.0,
			want: "Failed password for",
		},
		"all accepted": {
			rate: 0.0,
			want: "Accepted password for",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g, err := genlog.New(&genlog.Config{
				LinesPerFile: 20,
				FailureRate:  rate(tc.rate),
			})
			require.NoError(t, err)

			path, err := g.WriteBatch(t.TempDir())
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
				assert.Contains(t, line, tc.want)
			}
		})
	}
}

func TestGenerator_Run_Count(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	g, err := genlog.New(&genlog.Config{Interval: "1ms", LinesPerFile: 1})
	require.NoError(t, err)

	require.NoError(t, g.Run(t.Context(), dir, 3))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestGenerator_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	g, err := genlog.New(&genlog.Config{Interval: "1ms", LinesPerFile: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// An already-cancelled context writes nothing, not even a first batch.
	require.NoError(t, g.Run(ctx, dir, 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
