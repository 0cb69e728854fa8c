package sl

import (
	"log/slog"
)

// Err makes an attribute with the error message for structured logs
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
