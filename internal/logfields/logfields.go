package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyComposeID  = "compose_id"
	KeyPlugin     = "plugin"
	KeyTheme      = "theme"
	KeyExtension  = "extension"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ComposeID(id string) slog.Attr   { return slog.String(KeyComposeID, id) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Extension(name string) slog.Attr { return slog.String(KeyExtension, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
