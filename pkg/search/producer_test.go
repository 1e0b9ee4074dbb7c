package search

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vanderheijden86/histscope/internal/history"
)

// fakeStore yields scripted entries and records the queries it saw.
type fakeStore struct {
	entries []history.Entry
	err     error
	queries atomic.Int32
	active  atomic.Int32 // concurrent Search calls, to assert single-flight
	maxSeen atomic.Int32
}

func (f *fakeStore) Search(q history.SearchQuery, yield func(history.Entry) bool) error {
	f.queries.Add(1)
	cur := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		prev := f.maxSeen.Load()
		if cur <= prev || f.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}

	if f.err != nil {
		return f.err
	}
	for _, e := range f.entries {
		if !yield(e) {
			return nil
		}
	}
	return nil
}

func TestProducerStreamsAllEntriesThenCloses(t *testing.T) {
	store := &fakeStore{entries: []history.Entry{
		{Command: "one"}, {Command: "two"}, {Command: "three"},
	}}

	p := Run(store, history.Anything())

	var got []string
	for e := range p.Entries() {
		got = append(got, e.Command)
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Fatalf("unexpected stream %v", got)
	}
	if n := store.queries.Load(); n != 1 {
		t.Fatalf("expected exactly one store query, got %d", n)
	}

	// Channel must be closed: a further receive returns immediately.
	select {
	case _, ok := <-p.Entries():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Wait")
	}
}

func TestProducerEmptyResultSet(t *testing.T) {
	store := &fakeStore{}
	p := Run(store, history.Anything())

	count := 0
	for range p.Entries() {
		count++
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero entries, got %d", count)
	}
}

func TestProducerSurfacesStoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	store := &fakeStore{err: storeErr}

	p := Run(store, history.Anything())
	for range p.Entries() {
	}
	if err := p.Wait(); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestProducerDrainAfterConsumerStops(t *testing.T) {
	// More entries than the buffer holds, so the producer would block
	// forever if Drain did not empty the channel.
	entries := make([]history.Entry, entryBuffer*3)
	for i := range entries {
		entries[i] = history.Entry{Command: "cmd"}
	}
	store := &fakeStore{entries: entries}

	p := Run(store, history.Anything())
	// Consume just one entry, then abandon the stream like an aborted picker.
	<-p.Entries()

	done := make(chan error, 1)
	go func() { done <- p.Drain() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Drain: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Drain did not unblock the producer")
	}
}

func TestSequentialProducersNeverOverlap(t *testing.T) {
	store := &fakeStore{entries: []history.Entry{{Command: "a"}, {Command: "b"}}}

	// Launch-join three times, as the controller does across scope cycles.
	for i := 0; i < 3; i++ {
		p := Run(store, history.Anything())
		for range p.Entries() {
		}
		if err := p.Wait(); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}

	if n := store.queries.Load(); n != 3 {
		t.Fatalf("expected 3 queries, got %d", n)
	}
	if maxConc := store.maxSeen.Load(); maxConc != 1 {
		t.Fatalf("expected at most one producer alive, saw %d", maxConc)
	}
}

func TestProducerQueryIsBackwardUnbounded(t *testing.T) {
	var seen history.SearchQuery
	store := &captureStore{capture: &seen}

	p := Run(store, history.SearchFilter{})
	for range p.Entries() {
	}
	if err := p.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if seen.Direction != history.Backward {
		t.Error("expected backward direction")
	}
	if seen.Limit != nil || seen.StartTime != nil || seen.EndTime != nil || seen.StartID != nil || seen.EndID != nil {
		t.Errorf("expected unbounded query, got %+v", seen)
	}
}

type captureStore struct {
	capture *history.SearchQuery
}

func (c *captureStore) Search(q history.SearchQuery, yield func(history.Entry) bool) error {
	*c.capture = q
	return nil
}
