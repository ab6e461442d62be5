package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is a persisted record of one HTTP request handled by the proxy.
// Image requests fill the Source* and Cache fields; other routes leave them empty.
type LogEntry struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp   time.Time              `bson:"timestamp" json:"timestamp"`
	Level       string                 `bson:"level" json:"level"`
	Message     string                 `bson:"message" json:"message"`
	RequestID   string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method      string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path        string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode  int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration    int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP          string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent   string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error       string                 `bson:"error,omitempty" json:"error,omitempty"`
	SourceHost  string                 `bson:"source_host,omitempty" json:"source_host,omitempty"`
	CacheStatus string                 `bson:"cache_status,omitempty" json:"cache_status,omitempty"`
	Steps       []string               `bson:"steps,omitempty" json:"steps,omitempty"`
	Fields      map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField adds a field to the log entry's Fields map.
// If Fields is nil, it will be initialized.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields adds multiple fields to the log entry's Fields map.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// LogQueryOptions provides options for querying logs.
type LogQueryOptions struct {
	RequestID   string
	Level       string
	SourceHost  string
	CacheStatus string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int
	Skip        int
}

// LogSummary aggregates persisted image requests by cache status.
type LogSummary struct {
	CacheStatus   string  `bson:"_id" json:"cache_status"`
	Requests      int64   `bson:"requests" json:"requests"`
	Errors        int64   `bson:"errors" json:"errors"`
	AvgDurationMs float64 `bson:"avg_duration_ms" json:"avg_duration_ms"`
}
