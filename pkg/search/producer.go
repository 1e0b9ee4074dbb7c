// Package search launches history store queries and streams their results
// to the picker as they arrive.
package search

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/histscope/internal/history"
	"github.com/vanderheijden86/histscope/pkg/debug"
)

// Store is the slice of the history store the producer needs.
type Store interface {
	Search(q history.SearchQuery, yield func(history.Entry) bool) error
}

// entryBuffer absorbs bursts from the store so the query keeps draining
// while the picker is busy rendering. The producer still applies ordinary
// backpressure once the buffer fills.
const entryBuffer = 128

// Producer runs one store query in the background and streams matching
// entries into its channel, closing it when the query completes. Exactly
// one query is issued per producer.
type Producer struct {
	out chan history.Entry
	g   *errgroup.Group
}

// Run launches a producer for the given filter. Entries stream into
// Entries() most-recent-first; the channel is closed exactly once, by the
// producer, after the last entry. The caller must Wait() before starting
// another producer.
func Run(store Store, filter history.SearchFilter) *Producer {
	p := &Producer{
		out: make(chan history.Entry, entryBuffer),
		g:   &errgroup.Group{},
	}

	query := history.SearchQuery{
		Direction: history.Backward,
		Filter:    filter,
	}

	p.g.Go(func() error {
		defer close(p.out)
		start := time.Now()
		count := 0
		err := store.Search(query, func(e history.Entry) bool {
			p.out <- e
			count++
			return true
		})
		debug.Log("producer streamed %d entries in %v", count, time.Since(start))
		return err
	})

	return p
}

// Entries returns the stream of matching entries. A closed channel with no
// entries means an empty result set, not an error.
func (p *Producer) Entries() <-chan history.Entry {
	return p.out
}

// Wait joins the background query, returning its error. It only returns
// once the channel has been closed, so after Wait no producer work is
// outstanding. Callers that stop reading early must drain Entries() first
// or Wait can block on a full buffer.
func (p *Producer) Wait() error {
	return p.g.Wait()
}

// Drain discards any entries still buffered and joins the producer. Used
// when the consumer has already stopped reading.
func (p *Producer) Drain() error {
	for range p.out {
	}
	return p.Wait()
}
