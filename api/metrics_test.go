package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestBoardRequestMetricsSpan(t *testing.T) {
	recorder := withSpanRecorder(t)

	logger := log.New()
	logger.SetOutput(io.Discard)

	m, _ := newBoardRequestMetrics(context.Background(), logger)
	m.ObserveAuth(2 * time.Millisecond)
	m.ObserveFetch(5 * time.Millisecond)
	m.SetPageTokenProvided(true)
	m.SetTasksReturned(7)
	m.SetHasNextPage(true)
	m.Log(http.StatusOK, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != boardSpanName {
		t.Fatalf("unexpected span name: %s", span.Name())
	}
	if span.Status().Code != codes.Ok {
		t.Fatalf("unexpected span status: %v", span.Status())
	}

	attrs := spanAttrs(span)
	if got := attrs["http.status_code"].AsInt64(); got != http.StatusOK {
		t.Fatalf("unexpected status attribute: %d", got)
	}
	if got := attrs["board.tasks_returned"].AsInt64(); got != 7 {
		t.Fatalf("unexpected tasks_returned: %d", got)
	}
	if !attrs["board.page_token_provided"].AsBool() {
		t.Fatal("page_token_provided not set")
	}
	if !attrs["board.has_next_page"].AsBool() {
		t.Fatal("has_next_page not set")
	}
}

func TestBoardRequestMetricsSpanError(t *testing.T) {
	recorder := withSpanRecorder(t)

	logger := log.New()
	logger.SetOutput(io.Discard)

	m, _ := newBoardRequestMetrics(context.Background(), logger)
	m.SetErrorStage("storage")
	m.Log(http.StatusInternalServerError, errors.New("table unavailable"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Fatalf("unexpected span status: %v", span.Status())
	}
	attrs := spanAttrs(span)
	if got := attrs["board.error_stage"].AsString(); got != "storage" {
		t.Fatalf("unexpected error stage: %q", got)
	}
	if len(span.Events()) == 0 {
		t.Fatal("expected recorded error event")
	}
}

func TestBoardRequestMetricsLogFields(t *testing.T) {
	logger, hook := newCapturedLogger()

	m, _ := newBoardRequestMetrics(context.Background(), logger)
	m.ObserveFetch(3 * time.Millisecond)
	m.SetTasksReturned(2)
	m.Log(http.StatusOK, nil)

	entries := hook.entries()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "board.request.metrics" {
		t.Fatalf("unexpected message: %s", entry.Message)
	}
	if entry.Data["status"] != http.StatusOK {
		t.Fatalf("unexpected status field: %v", entry.Data["status"])
	}
	if entry.Data["tasks_returned"] != 2 {
		t.Fatalf("unexpected tasks_returned field: %v", entry.Data["tasks_returned"])
	}
	if _, ok := entry.Data["fetch_ms"]; !ok {
		t.Fatal("fetch_ms field missing")
	}
	if _, ok := entry.Data["auth_ms"]; ok {
		t.Fatal("auth_ms must be omitted when not observed")
	}
}

type captureHook struct {
	captured []*log.Entry
}

func (h *captureHook) Levels() []log.Level { return log.AllLevels }

func (h *captureHook) Fire(e *log.Entry) error {
	h.captured = append(h.captured, e)
	return nil
}

func (h *captureHook) entries() []*log.Entry { return h.captured }

func newCapturedLogger() (*log.Logger, *captureHook) {
	logger := log.New()
	logger.SetOutput(io.Discard)
	hook := &captureHook{}
	logger.AddHook(hook)
	return logger, hook
}
