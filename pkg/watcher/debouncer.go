package watcher

import (
	"context"
	"time"

	"github.com/timsearle/swift-dependency-graph/pkg/logging"
)

// Debouncer coalesces bursts of change events into a single trigger. A
// package resolution touches many files in quick succession; re-running
// the pipeline once per file would thrash.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer wraps an event channel. quietPeriod is the silence needed
// before a flush; maxWait bounds how long a continuous stream of events
// can postpone one.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins debouncing in a background goroutine.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		accumulated = make(map[ChangeKind][]string)
		count       int
		quiet       = time.NewTimer(0)
		deadline    = time.NewTimer(0)
	)
	if !quiet.Stop() {
		<-quiet.C
	}
	if !deadline.Stop() {
		<-deadline.C
	}

	flush := func() {
		if count == 0 {
			return
		}
		logging.Debug("flushing batched change events", "count", count)

		// Manifests first: a changed Package.swift can change classification,
		// which matters more than refreshed pins.
		for _, kind := range []ChangeKind{ChangeManifest, ChangeLockfile, ChangeProject} {
			if paths := accumulated[kind]; len(paths) > 0 {
				d.output <- ChangeEvent{Kind: kind, Paths: paths, Timestamp: time.Now()}
			}
		}
		accumulated = make(map[ChangeKind][]string)
		count = 0
		quiet.Stop()
		deadline.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}
			accumulated[event.Kind] = append(accumulated[event.Kind], event.Paths...)
			count++

			quiet.Reset(d.quietPeriod)
			if count == 1 {
				deadline.Reset(d.maxWait)
			}

		case <-quiet.C:
			flush()

		case <-deadline.C:
			flush()
		}
	}
}

// Output returns the channel of debounced event batches.
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
