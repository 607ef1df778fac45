// Package stream defines the row-iteration contract the write evaluators
// consume: bounded batches for the batched terms, single rows for foreach,
// and a transformation hook used by the replace term's key projection.
package stream

import (
	"context"

	"github.com/samuelmolinski/rethinkdb/datum"
)

// DefaultBatchSize is used when a BatchSpec does not bound the batch.
const DefaultBatchSize = 256

// BatchSpec describes how the next batch should be cut. This is the
// terminal batching policy: the consumer drains the stream to exhaustion,
// so the spec only bounds how many documents one pull may return.
type BatchSpec struct {
	MaxSize int
}

// Size returns the effective batch bound.
func (s BatchSpec) Size() int {
	if s.MaxSize <= 0 {
		return DefaultBatchSize
	}
	return s.MaxSize
}

// MapFunc transforms one document as it is yielded.
type MapFunc func(datum.Datum) (datum.Datum, error)

// Stream yields documents. An empty batch from NextBatch, or ok=false from
// Next, signals exhaustion. AddTransformation must be called before
// iteration begins; transformations apply in attachment order.
type Stream interface {
	Next(ctx context.Context) (row datum.Datum, ok bool, err error)
	NextBatch(ctx context.Context, spec BatchSpec) ([]datum.Datum, error)
	AddTransformation(fn MapFunc)
}

// SliceStream iterates over documents already held in memory. It is the
// reference implementation used by the table scans, the CLI and tests.
type SliceStream struct {
	docs       []datum.Datum
	pos        int
	transforms []MapFunc
}

// FromSlice returns a stream over a copy of docs.
func FromSlice(docs []datum.Datum) *SliceStream {
	copied := make([]datum.Datum, len(docs))
	copy(copied, docs)
	return &SliceStream{docs: copied}
}

// AddTransformation attaches a per-document transformation.
func (s *SliceStream) AddTransformation(fn MapFunc) {
	s.transforms = append(s.transforms, fn)
}

// Next yields the next document, or ok=false when the stream is exhausted.
func (s *SliceStream) Next(ctx context.Context) (datum.Datum, bool, error) {
	if err := ctx.Err(); err != nil {
		return datum.Datum{}, false, err
	}
	if s.pos >= len(s.docs) {
		return datum.Datum{}, false, nil
	}
	doc := s.docs[s.pos]
	s.pos++
	for _, fn := range s.transforms {
		var err error
		doc, err = fn(doc)
		if err != nil {
			return datum.Datum{}, false, err
		}
	}
	return doc, true, nil
}

// NextBatch yields up to spec.Size() documents. An empty batch means the
// stream is exhausted.
func (s *SliceStream) NextBatch(ctx context.Context, spec BatchSpec) ([]datum.Datum, error) {
	var batch []datum.Datum
	for len(batch) < spec.Size() {
		doc, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		batch = append(batch, doc)
	}
	return batch, nil
}
