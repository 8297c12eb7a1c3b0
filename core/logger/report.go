package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *structpb.Struct)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// EntryEvent returns the event type of an entry.
func EntryEvent(le *structpb.Struct) Event {
	return Event(le.GetFields()[FieldEvent].GetStringValue())
}

// entryCommand returns the name of the command an entry refers to, if any.
func entryCommand(le *structpb.Struct) string {
	values := le.GetFields()["argv"].GetListValue().GetValues()
	if len(values) == 0 {
		return ""
	}
	return values[0].GetStringValue()
}

// FormatEntry renders an entry as a single human readable line.
func FormatEntry(le *structpb.Struct) string {
	fields := le.GetFields()

	var keys []string
	for k := range fields {
		switch k {
		case FieldEvent, FieldSessionID, FieldTimestampMicros:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%.0f %s", fields[FieldTimestampMicros].GetNumberValue(), EntryEvent(le))
	for _, k := range keys {
		value, err := protojson.Marshal(fields[k])
		if err != nil {
			value = []byte("?")
		}
		fmt.Fprintf(&sb, " %s=%s", k, value)
	}
	return sb.String()
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Command        CommandReport        `json:"command_report"`
	Job            JobReport            `json:"job_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	Redirect       RedirectReport       `json:"redirect_report"`
	History        HistoryReport        `json:"history_report"`
}

func (r *Report) Update(le *structpb.Struct) {
	r.LogEntries++
	r.Sessions.Increment(le.GetFields()[FieldSessionID].GetStringValue())

	switch event := EntryEvent(le); event {
	case EventCommand:
		r.Command.update(le)
	case EventSpawn, EventExit, EventBackground, EventInterrupt:
		r.Job.update(event, le)
	case EventCommandNotFound:
		r.UnknownCommand.update(le)
	case EventRedirectError:
		r.Redirect.update(le)
	case EventHistoryReplay, EventInvalidHistoryIndex:
		r.History.update(event)
	default:
		r.InvalidEntries.Increment(string(event))
	}
}

type CommandReport struct {
	// Name of the command and the number of times it was submitted.
	CommandNames StrCounter `json:"command_names"`
	Background   int        `json:"background"`
}

func (r *CommandReport) update(le *structpb.Struct) {
	r.CommandNames.Increment(entryCommand(le))
	if le.GetFields()["background"].GetBoolValue() {
		r.Background++
	}
}

type JobReport struct {
	// Resolved program paths and the number of times they were started.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	ExitStatuses         StrCounter `json:"exit_statuses"`
	Backgrounded         int        `json:"backgrounded"`
	Interrupted          int        `json:"interrupted"`
}

func (r *JobReport) update(event Event, le *structpb.Struct) {
	fields := le.GetFields()
	switch event {
	case EventSpawn:
		r.ResolvedCommandPaths.Increment(fields["path"].GetStringValue())
	case EventExit:
		r.ExitStatuses.Increment(fmt.Sprintf("%.0f", fields["status"].GetNumberValue()))
	case EventBackground:
		r.Backgrounded++
	case EventInterrupt:
		r.Interrupted++
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(le *structpb.Struct) {
	r.CommandNames.Increment(entryCommand(le))
}

type RedirectReport struct {
	Operators StrCounter `json:"operators"`
}

func (r *RedirectReport) update(le *structpb.Struct) {
	r.Operators.Increment(le.GetFields()["operator"].GetStringValue())
}

type HistoryReport struct {
	Replays        int `json:"replays"`
	InvalidIndexes int `json:"invalid_indexes"`
}

func (r *HistoryReport) update(event Event) {
	switch event {
	case EventHistoryReplay:
		r.Replays++
	case EventInvalidHistoryIndex:
		r.InvalidIndexes++
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}
