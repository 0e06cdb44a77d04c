package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsieve/logsieve/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantRawDir    string
		args          []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"LOGSIEVE_LOG_LEVEL": "debug",
				"LOGSIEVE_RAW_DIR":   "/var/spool/raw",
			},
			args:         []string{},
			wantLogLevel: "debug",
			wantRawDir:   "/var/spool/raw",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"LOGSIEVE_LOG_LEVEL": "debug",
				"LOGSIEVE_RAW_DIR":   "/var/spool/raw",
			},
			args:         []string{"--log-level", "error", "--raw-dir", "/tmp/raw"},
			wantLogLevel: "error",
			wantRawDir:   "/tmp/raw",
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"LOGSIEVE_LOG_LEVEL": "warn",
			},
			args:         []string{"--raw-dir", "/tmp/raw"},
			wantLogLevel: "warn",
			wantRawDir:   "/tmp/raw",
		},
		"no environment variables uses defaults": {
			envVars:      map[string]string{},
			args:         []string{},
			wantLogLevel: "info", // Default value.
			wantRawDir:   "",    // Default value.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			// Parse flags (this triggers environment variable binding).
			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			// Check flag values.
			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			rawDir, err := cmd.Flags().GetString("raw-dir")
			require.NoError(t, err)
			assert.Equal(t, tc.wantRawDir, rawDir)
		})
	}
}

// Test that flag usage strings are updated to include environment variable names.
func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$LOGSIEVE_LOG_LEVEL")

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$LOGSIEVE_CONFIG")
}
