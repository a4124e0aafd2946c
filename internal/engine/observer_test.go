package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leengari/contactbook/internal/domain/contact"
	"github.com/leengari/contactbook/internal/testutil"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	Events []Event
}

func (m *MockObserver) OnEvent(event Event) {
	m.Events = append(m.Events, event)
}

func TestAddObserver(t *testing.T) {
	eng := New(nil, nil)
	observer := &MockObserver{}

	eng.AddObserver(observer)

	if len(eng.observers) != 1 {
		t.Errorf("Expected 1 observer, got %d", len(eng.observers))
	}
}

func TestRemoveObserver(t *testing.T) {
	eng := New(nil, nil)
	observer := &MockObserver{}

	eng.AddObserver(observer)
	eng.RemoveObserver(observer)

	if len(eng.observers) != 0 {
		t.Errorf("Expected 0 observers, got %d", len(eng.observers))
	}
}

func TestNotifyWithNoObservers(t *testing.T) {
	eng := New(nil, nil)

	// Should not panic
	eng.notify(Event{Type: EventOpStart, TxID: "test-tx"})
}

func TestNotifyWithMultipleObservers(t *testing.T) {
	eng := New(nil, nil)
	observer1 := &MockObserver{}
	observer2 := &MockObserver{}

	eng.AddObserver(observer1)
	eng.AddObserver(observer2)

	eng.notify(Event{Type: EventOpStart, Op: "open_table", TxID: "test-tx", Data: "people"})

	if len(observer1.Events) != 1 {
		t.Errorf("Observer1: Expected 1 event, got %d", len(observer1.Events))
	}
	if len(observer2.Events) != 1 {
		t.Errorf("Observer2: Expected 1 event, got %d", len(observer2.Events))
	}
	if observer1.Events[0].Type != EventOpStart {
		t.Errorf("Observer1: Expected EventOpStart, got %v", observer1.Events[0].Type)
	}
}

func TestEventTimestamp(t *testing.T) {
	eng := New(nil, nil)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	eng.notify(Event{Type: EventOpStart, TxID: "test-tx"})

	if observer.Events[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be set, got zero value")
	}
}

func TestOperationEvents(t *testing.T) {
	ctx := context.Background()
	eng := New(testutil.NewFileBackend(t), testutil.DiscardLogger())
	observer := &MockObserver{}
	eng.AddObserver(observer)

	err := eng.AddContact(ctx, contact.Contact{Name: "Jo", Phone: "555-1234"})
	testutil.AssertNoError(t, err, "add contact")

	if len(observer.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(observer.Events))
	}

	start, end := observer.Events[0], observer.Events[1]
	if start.Type != EventOpStart || end.Type != EventOpEnd {
		t.Errorf("Expected start then end, got %v then %v", start.Type, end.Type)
	}
	if start.Op != "add_contact" {
		t.Errorf("Expected op add_contact, got %q", start.Op)
	}
	if start.TxID == "" || start.TxID != end.TxID {
		t.Errorf("Expected matching tx ids, got %q and %q", start.TxID, end.TxID)
	}

	res, ok := end.Data.(OpResult)
	if !ok {
		t.Fatalf("Expected OpResult on end event, got %T", end.Data)
	}
	if res.Inserted != 1 || res.Err != nil {
		t.Errorf("Expected 1 insert and no error, got %+v", res)
	}
}

func TestOperationEventsCarryError(t *testing.T) {
	ctx := context.Background()
	eng := New(testutil.NewFileBackend(t), testutil.DiscardLogger())
	observer := &MockObserver{}
	eng.AddObserver(observer)

	_, err := eng.OpenTable(ctx, "missing")
	testutil.AssertError(t, err, "open missing table")

	res := observer.Events[len(observer.Events)-1].Data.(OpResult)
	if !errors.Is(res.Err, err) {
		t.Errorf("Expected end event to carry %v, got %v", err, res.Err)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := New(testutil.NewFileBackend(t), logger)
	eng.AddObserver(NewLoggingObserver(logger))

	_, err := eng.DeleteContact(context.Background(), "nobody")
	testutil.AssertError(t, err, "delete missing contact")

	out := buf.String()
	for _, want := range []string{"event=op_start", "event=op_end", "op=delete_contact", "level=WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
