package domain

import (
	"iter"
	"math/rand"

	"github.com/atomloop/sweep/internal/model"
)

// GeneratePoints combines the per-axis generators into one lazy stream of
// multi-axis coordinate tuples. The sequence is infinite if any generator
// is; it terminates once no generator has points left for a new level. A
// fresh iteration restarts from scratch and, via the seed stored in the
// options, re-derives the identical sequence.
//
// Per outer iteration ("max level"), every axis that still has points at
// that level contributes them, and the batch consists of all index
// combinations into the per-axis level lists except those made up entirely
// of previously visited levels. Each new resolution level is therefore
// visited exactly once, combined with all already-known levels of the other
// axes. The whole batch is repeated NumRepeats times (reshuffled before
// each repeat when requested), with each point repeated
// NumRepeatsPerPoint times consecutively.
//
// Within a batch the first axis varies fastest; the per-axis level lists
// are built in reversed axis order and every product tuple is reversed
// back when emitted.
func GeneratePoints(generators []Generator, options model.ScanOptions) iter.Seq[model.Point] {
	return func(yield func(model.Point) bool) {
		rng := rand.New(rand.NewSource(options.Seed))
		numAxes := len(generators)

		// Computed points for each axis, indexed first by reversed axis
		// order, then by level.
		axisLevelPoints := make([][][]any, numAxes)

		for maxLevel := 0; ; maxLevel++ {
			foundNewLevels := false
			for i := range numAxes {
				g := generators[numAxes-1-i]
				if g.HasLevel(maxLevel) {
					axisLevelPoints[i] = append(axisLevelPoints[i], g.PointsForLevel(maxLevel, rng))
					foundNewLevels = true
				}
			}
			if !foundNewLevels {
				// No levels left to exhaust, done.
				return
			}

			batch := levelBatch(axisLevelPoints, maxLevel)

			for range options.NumRepeats {
				if options.RandomiseOrderGlobally {
					rng.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
				}
				for _, p := range batch {
					for range options.NumRepeatsPerPoint {
						if !yield(p) {
							return
						}
					}
				}
			}
		}
	}
}

// levelBatch builds the batch of coordinate tuples newly reachable at
// maxLevel: all combinations of per-axis levels where at least one selected
// level is the newly added one.
func levelBatch(axisLevelPoints [][][]any, maxLevel int) []model.Point {
	numAxes := len(axisLevelPoints)
	levelCounts := make([]int, numAxes)
	for i, levels := range axisLevelPoints {
		levelCounts[i] = len(levels)
	}

	var batch []model.Point
	eachIndexCombination(levelCounts, func(levels []int) {
		allSeen := true
		for _, lvl := range levels {
			if lvl >= maxLevel {
				allSeen = false
				break
			}
		}
		if allSeen {
			// Previously visited this combination already.
			return
		}

		lists := make([][]any, numAxes)
		for i, lvl := range levels {
			lists[i] = axisLevelPoints[i][lvl]
		}
		counts := make([]int, numAxes)
		for i, l := range lists {
			counts[i] = len(l)
		}
		eachIndexCombination(counts, func(idx []int) {
			// Reverse back into natural axis order.
			p := make(model.Point, numAxes)
			for i := range numAxes {
				p[i] = lists[numAxes-1-i][idx[numAxes-1-i]]
			}
			batch = append(batch, p)
		})
	})
	return batch
}

// CountPoints returns the total number of points the given generators and
// options produce, and whether that number is finite. Generators still
// producing levels past levelCap are treated as infinite (a refining
// generator never terminates, so any cap works for it; pick the cap to
// bound expanding scans with far-away limits).
func CountPoints(generators []Generator, options model.ScanOptions, levelCap int) (int, bool) {
	rng := rand.New(rand.NewSource(options.Seed))
	numAxes := len(generators)
	axisLevelPoints := make([][][]any, numAxes)

	total := 0
	for maxLevel := 0; ; maxLevel++ {
		if maxLevel > levelCap {
			return 0, false
		}
		foundNewLevels := false
		for i := range numAxes {
			g := generators[numAxes-1-i]
			if g.HasLevel(maxLevel) {
				axisLevelPoints[i] = append(axisLevelPoints[i], g.PointsForLevel(maxLevel, rng))
				foundNewLevels = true
			}
		}
		if !foundNewLevels {
			return total, true
		}
		total += len(levelBatch(axisLevelPoints, maxLevel)) * options.NumRepeats * options.NumRepeatsPerPoint
	}
}

// eachIndexCombination visits the Cartesian product of index ranges
// [0,sizes[0]) x ... x [0,sizes[n-1]), last position varying fastest. The
// slice passed to fn is reused between calls. Empty ranges make the product
// empty; with no ranges at all it consists of the single empty combination.
func eachIndexCombination(sizes []int, fn func(idx []int)) {
	for _, size := range sizes {
		if size == 0 {
			return
		}
	}
	idx := make([]int, len(sizes))
	for {
		fn(idx)
		pos := len(sizes) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < sizes[pos] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
