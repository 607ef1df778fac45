package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelmolinski/rethinkdb/datum"
	"github.com/samuelmolinski/rethinkdb/ql"
	"github.com/samuelmolinski/rethinkdb/stream"
)

// These tests drive the evaluators end to end against the SQLite store.

func TestEvaluatorInsertIntoStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := ql.NewEvaluator(datum.DefaultLimits(), 2, nil)

	docs := []datum.Datum{
		datum.Object(nil),
		datum.Object(nil),
		docWithID("fixed", map[string]datum.Datum{"v": datum.Number(1)}),
	}
	stats, err := e.Insert(ctx, s, stream.FromSlice(docs), ql.OptArgs{})
	require.NoError(t, err)

	assert.Equal(t, 3.0, counter(t, stats, "inserted"))
	keys, ok := stats.Field("generated_keys")
	require.True(t, ok)
	assert.Equal(t, 2, keys.Len())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEvaluatorInsertConflictScenario(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := ql.NewEvaluator(datum.DefaultLimits(), 0, nil)

	seedStore(t, s, docWithID("a", nil), docWithID("b", nil))

	docs := []datum.Datum{
		docWithID("a", map[string]datum.Datum{"v": datum.Number(1)}),
		docWithID("b", map[string]datum.Datum{"v": datum.Number(2)}),
		docWithID("c", nil),
	}
	stats, err := e.Insert(ctx, s, stream.FromSlice(docs), ql.OptArgs{"conflict": datum.String("error")})
	require.NoError(t, err)

	assert.Equal(t, 1.0, counter(t, stats, "inserted"))
	assert.Equal(t, 2.0, counter(t, stats, "errors"))
	_, ok := stats.Field("generated_keys")
	assert.False(t, ok)
	_, ok = stats.Field("first_error")
	assert.True(t, ok)
}

func TestEvaluatorReplaceOverStoreSelection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := ql.NewEvaluator(datum.DefaultLimits(), 2, nil)

	seedStore(t, s,
		docWithID("a", map[string]datum.Datum{"v": datum.Number(1)}),
		docWithID("b", map[string]datum.Datum{"v": datum.Number(2)}),
		docWithID("c", map[string]datum.Datum{"v": datum.Number(3)}),
	)

	sel, err := s.Selection(ctx)
	require.NoError(t, err)

	stats, err := e.Replace(ctx, sel, setFieldFn("v", datum.Number(0)), ql.OptArgs{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, counter(t, stats, "replaced"))

	got, _ := s.Get(ctx, datum.String("b"))
	v, _ := got.Field("v")
	assert.Equal(t, 0.0, v.NumVal())
}

func TestEvaluatorForeachWritesThroughFunction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := ql.NewEvaluator(datum.DefaultLimits(), 0, nil)

	input := stream.FromSlice([]datum.Datum{
		docWithID("f1", nil),
		docWithID("f2", nil),
	})

	// the per-row function performs its own insert and hands back its stats
	fn := ql.NewFunc(false, func(ctx context.Context, row datum.Datum) (datum.Datum, error) {
		return e.Insert(ctx, s, row, ql.OptArgs{})
	})

	stats, err := e.Foreach(ctx, input, fn)
	require.NoError(t, err)
	assert.Equal(t, 2.0, counter(t, stats, "inserted"))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEvaluatorSingleRowReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	e := ql.NewEvaluator(datum.DefaultLimits(), 0, nil)

	seedStore(t, s, docWithID("solo", map[string]datum.Datum{"v": datum.Number(1)}))

	stats, err := e.Replace(ctx, s.Row(datum.String("solo")), setFieldFn("v", datum.Number(8)), ql.OptArgs{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, counter(t, stats, "replaced"))
}
