package cli_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"

	"github.com/logsieve/logsieve/internal/cli"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err      error
		wantHint bool
	}{
		"unknown flag gets a help hint": {
			err:      errors.New(`unknown flag: --frobnicate`),
			wantHint: true,
		},
		"unknown command gets a help hint": {
			err:      errors.New(`unknown command "wach" for "logsieve"`),
			wantHint: true,
		},
		"too many arguments gets a help hint": {
			err:      errors.New("accepts at most 2 arg(s), received 3"),
			wantHint: true,
		},
		"runtime error gets no hint": {
			err:      errors.New("raw directory: stat /tmp/missing: no such file or directory"),
			wantHint: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var sb strings.Builder
			cli.ErrorHandler(&sb, fang.Styles{}, tc.err)

			out := sb.String()
			assert.Contains(t, out, tc.err.Error())
			if tc.wantHint {
				assert.Contains(t, out, "--help")
			} else {
				assert.NotContains(t, out, "--help")
			}
		})
	}
}
