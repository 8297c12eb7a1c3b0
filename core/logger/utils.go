package logger

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event identifies the kind of a log entry.
type Event string

const (
	EventCommand             Event = "command"
	EventSpawn               Event = "spawn"
	EventExit                Event = "exit"
	EventBackground          Event = "background"
	EventCommandNotFound     Event = "command_not_found"
	EventRedirectError       Event = "redirect_error"
	EventInterrupt           Event = "interrupt"
	EventHistoryReplay       Event = "history_replay"
	EventInvalidHistoryIndex Event = "invalid_history_index"
)

// Well known entry fields.
const (
	FieldTimestampMicros = "timestamp_micros"
	FieldSessionID       = "session_id"
	FieldEvent           = "event"
)

// Fields holds event specific values. Values must be representable by
// structpb.NewValue.
type Fields map[string]interface{}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures interaction event logs for the shell.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format. It is safe for concurrent use.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error {
			return nil
		},
	}
}

func (l *Logger) recordEvent(sessionID string, event Event, fields Fields) error {
	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values[FieldTimestampMicros] = time.Now().UnixNano() / int64(time.Microsecond)
	values[FieldSessionID] = sessionID
	values[FieldEvent] = string(event)

	le, err := structpb.NewStruct(values)
	if err != nil {
		return err
	}
	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every entry.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record logs the event with the session ID.
func (l *SessionLogger) Record(event Event, fields Fields) error {
	return l.recordEvent(l.sessionID, event, fields)
}

// StringList converts a string slice to a value structpb accepts.
func StringList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
