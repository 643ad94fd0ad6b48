// Package sink persists flattened vacancy rows. Sinks are append-only
// consumers of the orchestrator's row stream.
package sink

import (
	"context"

	"vacfetch/pkg/fetch"
)

// Sink receives rows as the fetch run produces them.
type Sink interface {
	Write(ctx context.Context, row fetch.FlatRow) error
	Close() error
}

// Multi fans one row stream out to several sinks.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Write(ctx context.Context, row fetch.FlatRow) error {
	for _, s := range m {
		if err := s.Write(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
