package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "parse", err: ParseError("invalid JSON").Build(), expected: 3},
		{name: "not found", err: NotFoundError("missing input").Build(), expected: 4},
		{name: "missing key", err: MissingKeyError("no such key").Build(), expected: 6},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "write", err: WriteError("cannot write").Build(), expected: 11},
		{name: "runtime", err: RuntimeError("watcher died").Build(), expected: 12},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{
			name:     "internal error in non-verbose mode",
			err:      InternalError("unexpected value type").Build(),
			expected: "Internal error occurred (use -v for details)",
		},
		{
			name:     "user facing error shows detail",
			err:      NotFoundError("input file not found").WithContext("path", "data/content.json").Build(),
			expected: "Error: input file not found (path=data/content.json)",
		},
		{
			name:     "verbose shows the full chain",
			verbose:  true,
			err:      WrapError(errors.New("EOF"), CategoryParse, "invalid JSON").Build(),
			expected: "Error: [parse] invalid JSON: EOF",
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			expected: "Error: unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			require.Equal(t, tt.expected, adapter.FormatError(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(MissingKeyError("path segment not found").WithContext("path", "globals.socials").Build())

	require.Equal(t, 6, code)
	require.Equal(t, "Error: path segment not found (path=globals.socials)\n", stderr.String())
	require.True(t, strings.Contains(logs.String(), "category=missing_key"))

	code = -1
	adapter.HandleError(nil)
	require.Equal(t, -1, code, "nil error must not exit")
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
