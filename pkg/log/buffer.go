package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Buffer hands entries to transporters on a background goroutine so that
// a slow destination never blocks a render. When full it drops the oldest
// queued entry.
type Buffer struct {
	entries      chan Entry
	transporters []Transporter
	dropped      atomic.Int64
	closed       atomic.Bool
	done         chan struct{}
	wg           sync.WaitGroup
}

// NewBuffer starts a buffer of the given capacity.
func NewBuffer(capacity int, transporters ...Transporter) *Buffer {
	b := &Buffer{
		entries:      make(chan Entry, capacity),
		transporters: transporters,
		done:         make(chan struct{}),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// Send queues entry. It never blocks.
func (b *Buffer) Send(entry Entry) {
	if b.closed.Load() {
		return
	}
	select {
	case b.entries <- entry:
		return
	default:
	}

	select {
	case <-b.entries:
		b.dropped.Add(1)
	default:
	}
	select {
	case b.entries <- entry:
	default:
		b.dropped.Add(1)
	}
}

// Dropped returns how many entries were discarded on overflow.
func (b *Buffer) Dropped() int64 {
	return b.dropped.Load()
}

// Close stops the worker, flushes what is queued and closes the
// transporters. Calling it more than once is a no-op.
func (b *Buffer) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	close(b.done)
	b.wg.Wait()

	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		default:
			for _, t := range b.transporters {
				_ = t.Close()
			}
			return
		}
	}
}

func (b *Buffer) run() {
	defer b.wg.Done()
	for {
		select {
		case entry := <-b.entries:
			b.deliver(entry)
		case <-b.done:
			return
		}
	}
}

func (b *Buffer) deliver(entry Entry) {
	for _, t := range b.transporters {
		if err := t.Write(entry); err != nil {
			fmt.Fprintf(os.Stderr, "log transporter %q failed: %v\n", t.Name(), err)
		}
	}
}
