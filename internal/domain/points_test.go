package domain

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomloop/sweep/internal/model"
)

func collectPoints(t *testing.T, generators []Generator, options model.ScanOptions, limit int) []model.Point {
	t.Helper()
	var points []model.Point
	for p := range GeneratePoints(generators, options) {
		points = append(points, p)
		if len(points) >= limit {
			break
		}
	}
	return points
}

func defaultOptions() model.ScanOptions {
	return model.ScanOptions{NumRepeats: 1, NumRepeatsPerPoint: 1, Seed: 1}
}

func coords(points []model.Point, axis int) []any {
	values := make([]any, len(points))
	for i, p := range points {
		values[i] = p[axis]
	}
	return values
}

func TestGeneratePoints_1DLinear(t *testing.T) {
	g, err := NewLinearGenerator(0, 1, 5, false)
	require.NoError(t, err)

	points := collectPoints(t, []Generator{g}, defaultOptions(), 100)
	assert.Equal(t, []any{0.0, 0.25, 0.5, 0.75, 1.0}, coords(points, 0))
}

func TestGeneratePoints_2DFirstAxisFastest(t *testing.T) {
	a := NewListGenerator([]any{0.0, 1.0, 2.0}, false)
	b := NewListGenerator([]any{3.0, 4.0}, false)

	points := collectPoints(t, []Generator{a, b}, defaultOptions(), 100)
	require.Len(t, points, 6)

	assert.Equal(t, []any{0.0, 1.0, 2.0, 0.0, 1.0, 2.0}, coords(points, 0))
	assert.Equal(t, []any{3.0, 3.0, 3.0, 4.0, 4.0, 4.0}, coords(points, 1))
}

func TestGeneratePoints_NumRepeats(t *testing.T) {
	g := NewListGenerator([]any{1.0, 2.0}, false)
	options := defaultOptions()
	options.NumRepeats = 3

	points := collectPoints(t, []Generator{g}, options, 100)
	assert.Equal(t, []any{1.0, 2.0, 1.0, 2.0, 1.0, 2.0}, coords(points, 0))
}

func TestGeneratePoints_NumRepeatsPerPoint(t *testing.T) {
	g := NewListGenerator([]any{1.0, 2.0}, false)
	options := defaultOptions()
	options.NumRepeatsPerPoint = 2

	points := collectPoints(t, []Generator{g}, options, 100)
	assert.Equal(t, []any{1.0, 1.0, 2.0, 2.0}, coords(points, 0))
}

func TestGeneratePoints_RefiningVisitsEachResolutionOnce(t *testing.T) {
	g := NewRefiningGenerator(0, 1, false)

	points := collectPoints(t, []Generator{g}, defaultOptions(), 17)
	seen := map[any]bool{}
	for _, p := range points {
		assert.Falsef(t, seen[p[0]], "refining scan repeated %v", p[0])
		seen[p[0]] = true
	}
	// 17 distinct points are exactly levels 0..4.
	assert.Len(t, seen, 17)
}

func TestGeneratePoints_RefiningTimesLinear(t *testing.T) {
	ref := NewRefiningGenerator(0, 1, false)
	lin := NewListGenerator([]any{10.0, 20.0}, false)

	points := collectPoints(t, []Generator{ref, lin}, defaultOptions(), 6)

	// Level 0: the refining endpoints against the full finite axis, first
	// axis fastest.
	assert.Equal(t, []model.Point{
		{0.0, 10.0}, {1.0, 10.0}, {0.0, 20.0}, {1.0, 20.0},
	}, points[:4])
	// Level 1: only the new midpoint, again against the full finite axis.
	assert.Equal(t, []model.Point{
		{0.5, 10.0}, {0.5, 20.0},
	}, points[4:6])
}

func TestGeneratePoints_2DRefiningCoversGrid(t *testing.T) {
	a := NewRefiningGenerator(0, 1, false)
	b := NewRefiningGenerator(0, 1, false)

	// After levels 0..3 the scan must have visited the full (2^3+1)^2 grid,
	// each node exactly once.
	points := collectPoints(t, []Generator{a, b}, defaultOptions(), 81)
	seen := map[[2]float64]bool{}
	for _, p := range points {
		key := [2]float64{p[0].(float64), p[1].(float64)}
		assert.Falsef(t, seen[key], "grid node %v repeated", key)
		seen[key] = true
	}
	assert.Len(t, seen, 81)
}

func TestGeneratePoints_GlobalShuffleIsSeedStable(t *testing.T) {
	options := defaultOptions()
	options.RandomiseOrderGlobally = true
	options.Seed = 99

	gen := func() []Generator {
		g, err := NewLinearGenerator(0, 1, 9, false)
		require.NoError(t, err)
		return []Generator{g}
	}

	first := collectPoints(t, gen(), options, 100)
	second := collectPoints(t, gen(), options, 100)
	assert.Equal(t, first, second)

	// The shuffled order is exactly the seeded permutation of the plain
	// one; nothing is lost or invented.
	inOrder := collectPoints(t, gen(), defaultOptions(), 100)
	expected := slices.Clone(inOrder)
	rand.New(rand.NewSource(99)).Shuffle(len(expected), func(i, j int) {
		expected[i], expected[j] = expected[j], expected[i]
	})
	assert.Equal(t, expected, first)
}

func TestGeneratePoints_StopsMidStream(t *testing.T) {
	g := NewRefiningGenerator(0, 1, false)

	count := 0
	for range GeneratePoints([]Generator{g}, defaultOptions()) {
		count++
		if count == 10 {
			break
		}
	}
	assert.Equal(t, 10, count)
}

func TestGeneratePoints_ExpandingTerminatesAtLimits(t *testing.T) {
	g, err := NewExpandingGenerator(0, 1, false, floatPtr(-2), floatPtr(2))
	require.NoError(t, err)

	points := collectPoints(t, []Generator{g}, defaultOptions(), 100)
	assert.Equal(t, []any{0.0, -1.0, 1.0, -2.0, 2.0}, coords(points, 0))
}

func TestCountPoints(t *testing.T) {
	lin, err := NewLinearGenerator(0, 1, 5, false)
	require.NoError(t, err)

	options := defaultOptions()
	options.NumRepeats = 2
	options.NumRepeatsPerPoint = 3

	total, finite := CountPoints([]Generator{lin}, options, 32)
	assert.True(t, finite)
	assert.Equal(t, 30, total)
}

func TestCountPoints_InfiniteScan(t *testing.T) {
	ref := NewRefiningGenerator(0, 1, false)
	_, finite := CountPoints([]Generator{ref}, defaultOptions(), 32)
	assert.False(t, finite)
}

func TestCountPoints_MatchesGeneratedStream(t *testing.T) {
	a, err := NewLinearGenerator(0, 1, 3, false)
	require.NoError(t, err)
	b, err := NewExpandingGenerator(0, 1, false, floatPtr(-1), floatPtr(1))
	require.NoError(t, err)

	options := defaultOptions()
	total, finite := CountPoints([]Generator{a, b}, options, 32)
	require.True(t, finite)

	points := collectPoints(t, []Generator{a, b}, options, total+10)
	assert.Len(t, points, total)
}
