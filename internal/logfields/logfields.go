// Package logfields defines canonical log field names so keys do not drift
// between packages.
package logfields

import "log/slog"

const (
	KeyBuildID  = "build_id"
	KeyTarget   = "target"
	KeyFragment = "fragment"
	KeyLine     = "line"
	KeyLevel    = "level"
	KeyStage    = "stage"
	KeyPath     = "path"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr  { return slog.String(KeyBuildID, id) }
func Target(name string) slog.Attr { return slog.String(KeyTarget, name) }
func Fragment(n string) slog.Attr  { return slog.String(KeyFragment, n) }
func Line(n int) slog.Attr         { return slog.Int(KeyLine, n) }
func Level(l int) slog.Attr        { return slog.Int(KeyLevel, l) }
func Stage(name string) slog.Attr  { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
