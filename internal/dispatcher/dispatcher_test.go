package dispatcher

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger implements Logger for testing
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("DEBUG: %s %v", msg, keysAndValues))
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("INFO: %s %v", msg, keysAndValues))
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("ERROR: %s %v", msg, keysAndValues))
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *testLogger) {
	logger := &testLogger{}

	d, err := New(logger)
	if err != nil {
		t.Fatalf("failed to create dispatcher: %v", err)
	}

	return d, logger
}

func TestDispatcher_SyncHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	called := false
	d.Register(":HEALTH:", func(e Event) (any, error) {
		called = true
		return "result", nil
	})

	result, err := d.Dispatch(Event{Command: ":HEALTH:", Args: []string{`{"id":"x"}`}})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if result != "result" {
		t.Errorf("expected 'result', got %v", result)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(Event{Command: ":UNKNOWN:"})

	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDispatcher_HasHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	d.Register(":BATTLE:START:", func(e Event) (any, error) { return nil, nil })

	if !d.HasHandler(":BATTLE:START:") {
		t.Error("expected handler to be registered")
	}
	if d.HasHandler(":NOPE:") {
		t.Error("expected no handler for unregistered command")
	}
}

func TestDispatcher_BufferedHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int64
	done := make(chan struct{}, 10)

	d.Register(":HEALTH:", func(e Event) (any, error) {
		processed.Add(1)
		done <- struct{}{}
		return nil, nil
	}, Buffered(10))

	for i := 0; i < 5; i++ {
		result, err := d.Dispatch(Event{Command: ":HEALTH:"})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "queued" {
			t.Errorf("expected 'queued', got %v", result)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for buffered handler")
		}
	}

	if processed.Load() != 5 {
		t.Errorf("expected 5 processed, got %d", processed.Load())
	}
}

func TestDispatcher_BufferedHandler_DropsWhenFull(t *testing.T) {
	d, _ := newTestDispatcher(t)

	block := make(chan struct{})
	d.Register(":HEALTH:", func(e Event) (any, error) {
		<-block
		return nil, nil
	}, Buffered(1))

	// First fills the worker, second fills the buffer; give the worker
	// goroutine a moment to pick up the first event.
	_, _ = d.Dispatch(Event{Command: ":HEALTH:"})
	time.Sleep(50 * time.Millisecond)
	_, _ = d.Dispatch(Event{Command: ":HEALTH:"})

	_, err := d.Dispatch(Event{Command: ":HEALTH:"})
	if err == nil {
		t.Error("expected queue full error")
	}

	close(block)
}

func TestDispatcher_BlockingHandler(t *testing.T) {
	d, _ := newTestDispatcher(t)

	var processed atomic.Int64
	done := make(chan struct{}, 20)

	d.Register(":SWITCH:", func(e Event) (any, error) {
		processed.Add(1)
		done <- struct{}{}
		return nil, nil
	}, Buffered(1), Blocking())

	for i := 0; i < 10; i++ {
		if _, err := d.Dispatch(Event{Command: ":SWITCH:"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for blocking handler")
		}
	}

	if processed.Load() != 10 {
		t.Errorf("expected 10 processed, got %d", processed.Load())
	}
}

func TestDispatcher_LoggedHandler(t *testing.T) {
	d, logger := newTestDispatcher(t)

	d.Register(":BATTLE:END:", func(e Event) (any, error) {
		return nil, fmt.Errorf("boom")
	}, Logged())

	_, err := d.Dispatch(Event{Command: ":BATTLE:END:"})
	if err == nil {
		t.Error("expected handler error to propagate")
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	found := false
	for _, m := range logger.messages {
		if len(m) >= 5 && m[:5] == "ERROR" {
			found = true
		}
	}
	if !found {
		t.Error("expected an error log entry")
	}
}
