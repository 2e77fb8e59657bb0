package app

import (
	"log/slog"

	"github.com/treykane/norganisers/internal/logging"
)

// appLog is the package-level structured logger for the app package.
//
// It is tagged with component "app". Reducer failures that the user sees on
// the status line are logged here with full context.
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message and
// logs a structured error entry.
//
// The status parameter is displayed verbatim in the UI, while err and any
// additional key-value attrs only go to the log.
//
//	m.setStatusError("Saving note failed", err, "note", id)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	if err != nil {
		m.status = status + ": " + err.Error()
	}
	m.statusErr = true
	fields := make([]any, 0, len(attrs)+1)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}

// setStatus shows an informational message on the status line.
func (m *Model) setStatus(status string) {
	m.status = status
	m.statusErr = false
}
