package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDraws(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Packing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Composing...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Packing...") {
		t.Errorf("output missing first message: %q", got)
	}
	if !strings.Contains(got, "Composing...") {
		t.Errorf("output missing updated message: %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var out syncBuffer
			s := newSpinnerTo(ctx, &out, "waiting")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "stop")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
	}{
		{"success", func(s *Spinner) { s.StopWithSuccess("Packed atlas") }},
		{"error", func(s *Spinner) { s.StopWithError("Pack failed") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSpinnerTo(context.Background(), &syncBuffer{}, "working")
			s.Start()
			tt.stop(s)

			select {
			case <-s.stopped:
			default:
				t.Error("spinner goroutine still running")
			}
			if s.Cancelled() {
				t.Error("a finished spinner should not report cancellation")
			}
		})
	}
}

func TestNilSpinnerIsSilent(t *testing.T) {
	var s *Spinner
	s.Update("ignored")
	s.Stop()
	s.StopWithSuccess("ignored")
	s.StopWithError("ignored")
	if s.Cancelled() {
		t.Error("nil spinner reported cancellation")
	}
}
