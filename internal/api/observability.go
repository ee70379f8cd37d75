package api

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single API request.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	LatencyMs int64
	RequestID string
	Success   bool
	Err       string
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes API call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.Err
	}
	fmt.Fprintf(o.w, "[%s] api_call method=%s path=%s http=%d latency_ms=%d req_id=%s status=%s\n",
		ts, event.Method, event.Path, event.Status, event.LatencyMs, event.RequestID, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
