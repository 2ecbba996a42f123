package audit

import (
	"github.com/insuregov/governance/internal/application"
	"github.com/insuregov/governance/internal/domain/audit"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Logger appends audit events to the audit log and serves filtered reads.
type Logger struct {
	Log   *jsonfile.EventLog
	Clock application.Clock
}

func NewLogger(log *jsonfile.EventLog, clock application.Clock) *Logger {
	return &Logger{Log: log, Clock: clock}
}

// Record stamps and appends one audit entry.
func (l *Logger) Record(e audit.Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = l.Clock.Now()
	}
	if e.UserID == "" {
		e.UserID = "system"
	}
	rec, err := jsonfile.ToRecord(e)
	if err != nil {
		return err
	}
	return l.Log.Append(rec)
}

// QueryFilter narrows an audit log read; zero values mean no constraint.
type QueryFilter struct {
	ModelID    string
	EntityType string
	ActionType string
	Limit      int
}

// Query returns matching entries, newest first. Limit defaults to 100 and is
// capped at 1000.
func (l *Logger) Query(f QueryFilter) ([]jsonfile.Record, error) {
	attrs := jsonfile.Record{}
	if f.ModelID != "" {
		attrs["model_id"] = f.ModelID
	}
	if f.EntityType != "" {
		attrs["entity_type"] = f.EntityType
	}
	if f.ActionType != "" {
		attrs["action_type"] = f.ActionType
	}
	records, err := l.Log.Filter(attrs)
	if err != nil {
		return nil, err
	}
	jsonfile.SortDescending(records, "timestamp")

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
