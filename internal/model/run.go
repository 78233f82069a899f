package model

import "time"

// RunStatus is the terminal outcome of one execute request
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunRejected  RunStatus = "rejected"
)

// TraceEvent is one step of a run trace
type TraceEvent struct {
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
	Type      string            `json:"type" bson:"type"`
	Data      map[string]string `json:"data,omitempty" bson:"data,omitempty"`
}

// Run is the artifact record of one execute request: the submitted spec, the
// validation outcome and the trace. Result values are deliberately absent;
// results live only in the response and the TTL cache, never durably.
type Run struct {
	ID         string            `json:"id" bson:"_id"`
	SessionID  string            `json:"session_id" bson:"sessionId"`
	StudyID    string            `json:"study_id" bson:"studyId"`
	Prompt     string            `json:"prompt,omitempty" bson:"prompt,omitempty"` // Present when the planner proposed the spec
	SpecJSON   string            `json:"spec_json" bson:"specJson"`
	Status     RunStatus         `json:"status" bson:"status"`
	Errors     []ValidationError `json:"errors,omitempty" bson:"errors,omitempty"`
	Trace      []TraceEvent      `json:"trace,omitempty" bson:"trace,omitempty"`
	DurationMS int64             `json:"duration_ms" bson:"durationMs"`
	CreatedAt  time.Time         `json:"created_at" bson:"createdAt"`
}

// AddEvent appends a trace event stamped now.
func (r *Run) AddEvent(eventType string, data map[string]string) {
	r.Trace = append(r.Trace, TraceEvent{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Data:      data,
	})
}
