package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logsieve/logsieve/pkg/filter"
)

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		line string
		want bool
	}{
		"failed login": {
			line: "Failed to authenticate user bob",
			want: true,
		},
		"error marker": {
			line: "2024-01-01 ERROR something broke",
			want: true,
		},
		"critical marker": {
			line: "Critical disk space low",
			want: true,
		},
		"marker mid-line": {
			line: "sshd[1234]: Failed password for root",
			want: true,
		},
		"info line": {
			line: "INFO: heartbeat",
			want: false,
		},
		"successful login": {
			line: "User login OK",
			want: false,
		},
		"case sensitive lowercase error": {
			line: "error: lowercase is not a marker",
			want: false,
		},
		"case sensitive failed": {
			line: "failed silently",
			want: false,
		},
		"empty line": {
			line: "",
			want: false,
		},
	}

	f := filter.Default()
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, f.Match(tc.line))
		})
	}
}

func TestFilter_CustomKeywords(t *testing.T) {
	t.Parallel()

	f := filter.New("WARN", "panic")

	assert.True(t, f.Match("WARN: high latency"))
	assert.True(t, f.Match("goroutine panic observed"))
	assert.False(t, f.Match("Failed password for root"))
}

func TestFilter_Empty(t *testing.T) {
	t.Parallel()

	f := filter.New()

	// An empty keyword set retains nothing.
	assert.False(t, f.Match("Failed password for root"))
	assert.False(t, f.Match(""))
}

func TestFilter_IgnoresEmptyKeyword(t *testing.T) {
	t.Parallel()

	f := filter.New("", "ERROR")

	assert.Equal(t, []string{"ERROR"}, f.Keywords())
	assert.False(t, f.Match("plain line"))
	assert.True(t, f.Match("ERROR line"))
}

func TestFilter_Keywords_Copy(t *testing.T) {
	t.Parallel()

	f := filter.New("ERROR")
	kws := f.Keywords()
	kws[0] = "mutated"

	assert.True(t, f.Match("ERROR line"))
}
