package sse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/suppai/internal/models"
)

type scriptedSource struct {
	mu    sync.Mutex
	steps []*models.IndexMeta
	calls int
}

func (s *scriptedSource) FetchIndexMeta(context.Context) (*models.IndexMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	if s.steps[i] == nil {
		return nil, errors.New("upstream down")
	}
	m := *s.steps[i]
	return &m, nil
}

func TestPollMetaPublishesOnlyChanges(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	v1 := &models.IndexMeta{Version: "v1", AgentCount: 2044}
	v2 := &models.IndexMeta{Version: "v2", AgentCount: 2045}
	src := &scriptedSource{steps: []*models.IndexMeta{v1, v1, nil, v2}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		PollMeta(ctx, src, b, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
		close(done)
	}()

	msg := recv(t, ch)
	if !strings.Contains(msg, `"version":"v2"`) {
		t.Fatalf("expected v2 snapshot, got %q", msg)
	}

	select {
	case extra := <-ch:
		t.Fatalf("unchanged snapshot was republished: %q", extra)
	case <-time.After(60 * time.Millisecond):
	}

	cancel()
	<-done
}
