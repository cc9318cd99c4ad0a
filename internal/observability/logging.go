// Package observability holds the repository logger, domain metrics and tracing setup.
package observability

import (
	"context"
	"log/slog"
)

// Repository operations, used as the "operation" log field.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// RepoLogger writes one debug line per successful write and one error line
// per failed one, tagged with the table name.
type RepoLogger struct {
	table string
}

// NewRepoLogger returns a RepoLogger for table. It logs through slog.Default
// at call time so ConfigureLogger at startup is honoured.
func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

// Wrote records a successful write.
func (l *RepoLogger) Wrote(ctx context.Context, op string, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{slog.String("table", l.table), slog.String("operation", op)}, attrs...)
	slog.Default().LogAttrs(ctx, slog.LevelDebug, "repository "+op, attrs...)
}

// Failed records a write the database rejected.
func (l *RepoLogger) Failed(ctx context.Context, op string, err error) {
	slog.Default().LogAttrs(ctx, slog.LevelError, "repository error",
		slog.String("table", l.table),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
