package engine

import "time"

// EventType represents the lifecycle phases of one engine operation
type EventType string

const (
	EventOpStart EventType = "op_start"
	EventOpEnd   EventType = "op_end"
)

// Event represents a lifecycle event of an engine operation
type Event struct {
	Type      EventType   // Type of event
	Op        string      // Operation name, e.g. "insert_row"
	TxID      string      // Transaction ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Operation target on start, OpResult on end
}

// OpResult is the Data of an EventOpEnd event
type OpResult struct {
	Inserted int
	Updated  int
	Deleted  int
	Err      error
}

// Observer interface for event subscribers
type Observer interface {
	OnEvent(event Event)
}
