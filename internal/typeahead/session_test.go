package typeahead

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/starford/suppai/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type collector struct {
	mu      sync.Mutex
	results []Result
	ch      chan Result
}

func newCollector() *collector {
	return &collector{ch: make(chan Result, 16)}
}

func (c *collector) deliver(r Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	c.ch <- r
}

func (c *collector) wait(t *testing.T) Result {
	t.Helper()
	select {
	case r := <-c.ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for result")
	}
	return Result{}
}

func (c *collector) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func answer(q string) *models.SuggestResponse {
	return &models.SuggestResponse{
		Query:   models.Query{Q: q},
		Total:   1,
		Results: []models.Agent{{CUI: "C-" + q, PreferredName: q}},
	}
}

func TestDebounceIssuesOneCall(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		mu.Lock()
		calls = append(calls, q)
		mu.Unlock()
		return answer(q), nil
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(50*time.Millisecond))
	defer s.Close()

	s.Update("g")
	s.Update("gi")
	s.Update("gin")

	r := c.wait(t)
	if r.Query != "gin" || r.Response.Results[0].CUI != "C-gin" {
		t.Fatalf("result = %+v", r)
	}
	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != "gin" {
		t.Errorf("backend calls = %v, want [gin]", calls)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	entered := make(chan string, 4)
	release := make(chan struct{})
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		entered <- q
		if q == "a" {
			<-release
		}
		return answer(q), nil
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(5*time.Millisecond))

	s.Update("a")
	if q := <-entered; q != "a" {
		t.Fatalf("first fetch = %q", q)
	}
	s.Update("ab")
	r := c.wait(t)
	if r.Query != "ab" {
		t.Fatalf("delivered %q, want ab", r.Query)
	}

	close(release)
	s.Close()

	for _, got := range c.all() {
		if got.Query == "a" {
			t.Fatal("stale response for \"a\" was delivered")
		}
	}
	if s.Current() != "ab" {
		t.Errorf("current = %q", s.Current())
	}
}

func TestEmptyQueryShortCircuits(t *testing.T) {
	var calls atomic.Int32
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		calls.Add(1)
		return answer(q), nil
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(5*time.Millisecond))
	defer s.Close()

	s.Update("   ")
	r := c.wait(t)
	if r.Query != "" || len(r.Response.Results) != 0 {
		t.Errorf("result = %+v", r)
	}
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
}

func TestClearingQueryDuringDeliveryEndsEmpty(t *testing.T) {
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		return answer(q), nil
	}
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []Result
	deliver := func(r Result) {
		if r.Query == "a" {
			close(entered)
			<-release
		}
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}
	s := NewSession(context.Background(), fetch, deliver, WithDelay(5*time.Millisecond))
	defer s.Close()

	s.Update("a")
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for delivery of a")
	}

	cleared := make(chan struct{})
	go func() {
		s.Update("")
		close(cleared)
	}()
	time.Sleep(30 * time.Millisecond)
	close(release)
	select {
	case <-cleared:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for blank update")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("deliveries = %+v, want 2", got)
	}
	if last := got[len(got)-1]; last.Query != "" || len(last.Response.Results) != 0 {
		t.Errorf("last delivery = %+v, want the empty result", last)
	}
}

func TestClearingQueryCancelsPendingLookup(t *testing.T) {
	var calls atomic.Int32
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		calls.Add(1)
		return answer(q), nil
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(40*time.Millisecond))
	defer s.Close()

	s.Update("gin")
	s.Update("")
	c.wait(t)
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
}

func TestFetchErrorDegradesToEmpty(t *testing.T) {
	fetch := func(context.Context, string) (*models.SuggestResponse, error) {
		return nil, errors.New("backend down")
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(5*time.Millisecond))
	defer s.Close()

	s.Update("war")
	r := c.wait(t)
	if r.Err == nil || r.Response == nil || len(r.Response.Results) != 0 {
		t.Errorf("result = %+v", r)
	}
}

func TestUpdateAfterCloseIsIgnored(t *testing.T) {
	fetch := func(_ context.Context, q string) (*models.SuggestResponse, error) {
		return answer(q), nil
	}
	c := newCollector()
	s := NewSession(context.Background(), fetch, c.deliver, WithDelay(5*time.Millisecond))
	s.Close()
	s.Update("gin")
	s.Close()
	time.Sleep(20 * time.Millisecond)
	if n := len(c.all()); n != 0 {
		t.Errorf("delivered %d results after close", n)
	}
}
