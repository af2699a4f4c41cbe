package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyInput        = "input"
	KeyOutput       = "output"
	KeyOverwriteSet = "overwrite_set"
	KeyPath         = "path"
	KeyAction       = "action"
	KeyCount        = "count"
	KeyBytes        = "bytes"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Input(path string) slog.Attr      { return slog.String(KeyInput, path) }
func Output(path string) slog.Attr     { return slog.String(KeyOutput, path) }
func OverwriteSet(n string) slog.Attr  { return slog.String(KeyOverwriteSet, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Action(a string) slog.Attr        { return slog.String(KeyAction, a) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
