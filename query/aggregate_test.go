package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/irtree/geo"
	"github.com/katalvlaran/irtree/invertedfile"
	"github.com/katalvlaran/irtree/query"
)

func pt(coords ...float64) geo.Point {
	p, err := geo.NewPoint(coords...)
	if err != nil {
		panic(err)
	}

	return p
}

// TestAggregateQuery_MBRAndKeywords exercises spec §8 scenario 5: three
// queries whose combined MBR and merged keyword set are checked exactly.
func TestAggregateQuery_MBRAndKeywords(t *testing.T) {
	queries := []query.Query{
		{Location: pt(0, 0), Keywords: []invertedfile.TermID{1, 2}},
		{Location: pt(10, 0), Keywords: []invertedfile.TermID{2, 3}},
		{Location: pt(0, 10), Keywords: []invertedfile.TermID{3, 4}},
	}
	agg, err := query.NewAggregateQuery(queries)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.GroupSize())

	mbr, err := agg.GetMBR()
	require.NoError(t, err)
	assert.True(t, mbr.Equals(geo.Region{Low: pt(0, 0), High: pt(10, 10)}))

	assert.Equal(t, []invertedfile.TermID{1, 2, 3, 4}, agg.GetCombinedKeywords())
}

func TestAggregateQuery_RejectsEmpty(t *testing.T) {
	_, err := query.NewAggregateQuery(nil)
	assert.ErrorIs(t, err, query.ErrNoQueries)
}

func TestAggregateQuery_WithWeightsAndDefaultAggregator(t *testing.T) {
	queries := []query.Query{{Location: pt(0, 0)}, {Location: pt(1, 1)}}
	agg, err := query.NewAggregateQuery(queries, query.WithWeights([]float64{2, 0.5}))
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0.5}, agg.GetWeights())

	total := agg.Aggregate([]query.Cost{{Total: 1.0}, {Total: 2.0}})
	assert.Equal(t, 2*1.0+0.5*2.0, total.Total)
}

func TestAggregateQuery_CustomAggregator(t *testing.T) {
	queries := []query.Query{{Location: pt(0, 0)}, {Location: pt(1, 1)}}
	var maxAgg query.Aggregator = func(costs []query.Cost) query.Cost {
		out := costs[0]
		for _, c := range costs[1:] {
			if c.Total > out.Total {
				out = c
			}
		}

		return out
	}
	agg, err := query.NewAggregateQuery(queries, query.WithAggregator(maxAgg))
	require.NoError(t, err)

	got := agg.Aggregate([]query.Cost{{Total: 0.3}, {Total: 0.9}})
	assert.Equal(t, 0.9, got.Total)
}

func TestCombinedScore_Monotonic(t *testing.T) {
	low := query.CombinedScore(1, 0.9, 0.5, 10)
	high := query.CombinedScore(5, 0.9, 0.5, 10)
	assert.GreaterOrEqual(t, high.Total, low.Total)

	goodIR := query.CombinedScore(1, 0.9, 0.5, 10)
	badIR := query.CombinedScore(1, 0.1, 0.5, 10)
	assert.GreaterOrEqual(t, badIR.Total, goodIR.Total)
}
