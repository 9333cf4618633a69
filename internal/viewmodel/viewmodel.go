// Package viewmodel holds the screen-facing state. Each view-model owns
// its background work and signals state changes on a coalescing channel
// that the screens wait on.
package viewmodel

import (
	"context"
	"sync"
)

// base is the plumbing shared by the view-models: a lifetime context,
// a wait group for background work and the change signal.
type base struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	changes chan struct{}
}

func newBase() base {
	ctx, cancel := context.WithCancel(context.Background())
	return base{
		ctx:     ctx,
		cancel:  cancel,
		changes: make(chan struct{}, 1),
	}
}

// Changes receives a value after one or more state changes.
func (b *base) Changes() <-chan struct{} { return b.changes }

func (b *base) changed() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

// launch runs fn in the background, tracked by Close.
func (b *base) launch(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Close cancels live reads and waits for in-flight work.
func (b *base) Close() {
	b.cancel()
	b.wg.Wait()
}
