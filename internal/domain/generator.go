// Package domain implements the scan engine core: the per-axis point
// generators, the multi-axis point sequencer and the scan runners.
package domain

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Sentinel errors raised eagerly while constructing a scan specification,
// before any device interaction.
var (
	// ErrUnknownGenerator indicates an unrecognised generator kind.
	ErrUnknownGenerator = errors.New("domain: unknown generator kind")
	// ErrNeedTwoPoints indicates a linear scan with fewer than 2 points.
	ErrNeedTwoPoints = errors.New("domain: need at least 2 points in linear scan")
	// ErrNeedOnePoint indicates a centre/span scan with fewer than 1 point.
	ErrNeedOnePoint = errors.New("domain: need at least one point in centre/span scan")
	// ErrEmptySpan indicates a centre/span scan whose lower limit exceeds its upper one.
	ErrEmptySpan = errors.New("domain: empty centre/span scan")
	// ErrCentreOutsideLimits indicates an expanding scan centred beyond a limit.
	ErrCentreOutsideLimits = errors.New("domain: scan centre exceeds limit")
	// ErrAxisGeneratorCount indicates mismatched axis and generator lists.
	ErrAxisGeneratorCount = errors.New("domain: axis and generator counts differ")
	// ErrStoreTypeMismatch indicates an axis store whose type differs from the schema.
	ErrStoreTypeMismatch = errors.New("domain: axis store type does not match schema")
)

// Generator produces the points along a single scan axis, organised into
// refinement levels: level n adds points without invalidating those of
// levels below. The set of variants is closed (Refining, Linear, List,
// Expanding); the sequencer and the spec serialisation handle it
// exhaustively.
type Generator interface {
	// HasLevel reports whether the generator still produces points at the
	// given refinement level.
	HasLevel(level int) bool

	// PointsForLevel returns the points newly introduced at the given
	// level. Levels of one axis are disjoint, so no point repeats within
	// the axis's own stream.
	PointsForLevel(level int, rng *rand.Rand) []any

	// DescribeLimits records the value range covered by the generator into
	// target, for scan metadata.
	DescribeLimits(target map[string]any)

	sealed()
}

// RefiningGenerator generates a progressively finer grid over
// [Lower, Upper] by halving the distance between points at each level.
// Level 0 yields the two endpoints; level n the 2^(n-1) midpoints of the
// level n-1 partition. It never runs out of points.
type RefiningGenerator struct {
	Lower, Upper   float64
	RandomiseOrder bool

	// Points outside [LimitLower, LimitUpper] are silently dropped. Used by
	// the centre/span variant, where the span may exceed a parameter's
	// valid range.
	LimitLower, LimitUpper float64
}

// NewRefiningGenerator creates a refining generator over the given bounded
// range (order of the bounds does not matter).
func NewRefiningGenerator(lower, upper float64, randomiseOrder bool) *RefiningGenerator {
	return &RefiningGenerator{
		Lower:          math.Min(lower, upper),
		Upper:          math.Max(lower, upper),
		RandomiseOrder: randomiseOrder,
		LimitLower:     math.Inf(-1),
		LimitUpper:     math.Inf(1),
	}
}

// NewCentreSpanRefiningGenerator creates a refining generator over
// centre±halfSpan. The scan stays centred on centre even if the span
// exceeds the limits: if both extents do, the span grows to the larger
// one-sided extent and out-of-limit points are dropped per level.
func NewCentreSpanRefiningGenerator(centre, halfSpan float64, randomiseOrder bool,
	limitLower, limitUpper *float64) *RefiningGenerator {
	lo := math.Inf(-1)
	if limitLower != nil {
		lo = *limitLower
	}
	hi := math.Inf(1)
	if limitUpper != nil {
		hi = *limitUpper
	}
	span := math.Abs(halfSpan)
	if centre-span < lo && centre+span > hi {
		span = math.Max(math.Abs(centre-lo), math.Abs(hi-centre))
	}
	return &RefiningGenerator{
		Lower:          centre - span,
		Upper:          centre + span,
		RandomiseOrder: randomiseOrder,
		LimitLower:     lo,
		LimitUpper:     hi,
	}
}

func (g *RefiningGenerator) sealed() {}

// HasLevel is always true: for floating-point parameters a refining scan
// never runs out of points in practical terms.
func (g *RefiningGenerator) HasLevel(int) bool { return true }

func (g *RefiningGenerator) PointsForLevel(level int, rng *rand.Rand) []any {
	var points []float64
	if level == 0 {
		points = []float64{g.Lower, g.Upper}
	} else {
		d := g.Upper - g.Lower
		num := 1 << (level - 1)
		points = make([]float64, 0, num)
		for i := range num {
			points = append(points, g.Lower+d*float64(i)/float64(num)+d/float64(2*num))
		}
	}

	kept := points[:0]
	for _, p := range points {
		if p >= g.LimitLower && p <= g.LimitUpper {
			kept = append(kept, p)
		}
	}
	if g.RandomiseOrder {
		rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
	}
	return boxFloats(kept)
}

func (g *RefiningGenerator) DescribeLimits(target map[string]any) {
	target["min"] = g.Lower
	target["max"] = g.Upper
}

// LinearGenerator generates numPoints equally spaced points between Start
// and Stop (both included), all at level 0.
type LinearGenerator struct {
	Start, Stop    float64
	NumPoints      int
	RandomiseOrder bool
}

// NewLinearGenerator creates a linear generator; at least 2 points are
// required.
func NewLinearGenerator(start, stop float64, numPoints int, randomiseOrder bool) (*LinearGenerator, error) {
	if numPoints < 2 {
		return nil, ErrNeedTwoPoints
	}
	return &LinearGenerator{Start: start, Stop: stop, NumPoints: numPoints, RandomiseOrder: randomiseOrder}, nil
}

// NewCentreSpanGenerator creates a linear generator over centre±halfSpan,
// clamped to the given limits. A single-point scan collapses to the centre.
func NewCentreSpanGenerator(centre, halfSpan float64, numPoints int, randomiseOrder bool,
	limitLower, limitUpper *float64) (*LinearGenerator, error) {
	if numPoints < 1 {
		return nil, ErrNeedOnePoint
	}
	start := centre - halfSpan
	if limitLower != nil {
		start = math.Max(start, *limitLower)
	}
	stop := centre + halfSpan
	if limitUpper != nil {
		stop = math.Min(stop, *limitUpper)
	}
	if start > stop {
		return nil, fmt.Errorf("%w (lower limit larger than upper)", ErrEmptySpan)
	}
	if numPoints == 1 {
		start, stop = centre, centre
	}
	return &LinearGenerator{Start: start, Stop: stop, NumPoints: numPoints, RandomiseOrder: randomiseOrder}, nil
}

func (g *LinearGenerator) sealed() {}

func (g *LinearGenerator) HasLevel(level int) bool { return level == 0 }

func (g *LinearGenerator) PointsForLevel(level int, rng *rand.Rand) []any {
	if level != 0 {
		panic("linear generator only has level 0")
	}
	points := make([]float64, g.NumPoints)
	if g.NumPoints == 1 {
		points[0] = g.Start
	} else {
		step := (g.Stop - g.Start) / float64(g.NumPoints-1)
		for i := range points {
			points[i] = g.Start + float64(i)*step
		}
		points[g.NumPoints-1] = g.Stop
	}
	if g.RandomiseOrder {
		rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	}
	return boxFloats(points)
}

func (g *LinearGenerator) DescribeLimits(target map[string]any) {
	target["min"] = math.Min(g.Start, g.Stop)
	target["max"] = math.Max(g.Start, g.Stop)
	if g.NumPoints > 1 {
		target["increment"] = math.Abs(g.Stop-g.Start) / float64(g.NumPoints-1)
	}
}

// ListGenerator generates points by reading from an explicitly specified,
// possibly non-numeric, value list, all at level 0.
type ListGenerator struct {
	Values         []any
	RandomiseOrder bool
}

// NewListGenerator creates a list generator over the given values.
func NewListGenerator(values []any, randomiseOrder bool) *ListGenerator {
	return &ListGenerator{Values: values, RandomiseOrder: randomiseOrder}
}

func (g *ListGenerator) sealed() {}

func (g *ListGenerator) HasLevel(level int) bool { return level == 0 }

func (g *ListGenerator) PointsForLevel(level int, rng *rand.Rand) []any {
	if level != 0 {
		panic("list generator only has level 0")
	}
	values := make([]any, len(g.Values))
	copy(values, g.Values)
	if g.RandomiseOrder {
		rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	}
	return values
}

func (g *ListGenerator) DescribeLimits(target map[string]any) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		f, ok := v.(float64)
		if !ok {
			return
		}
		min = math.Min(min, f)
		max = math.Max(max, f)
	}
	if len(g.Values) > 0 {
		target["min"] = min
		target["max"] = max
	}
}

// ExpandingGenerator generates points with constant spacing in a
// progressively growing range around Centre: level 0 is the centre itself,
// level n adds centre±n*spacing, dropping whichever side has run past its
// limit. With both limits finite it terminates once both sides are
// exhausted; otherwise it is infinite.
type ExpandingGenerator struct {
	Centre, Spacing        float64
	RandomiseOrder         bool
	LimitLower, LimitUpper float64
}

// NewExpandingGenerator creates an expanding generator. Nil limits mean
// unbounded on that side; the centre must lie within the limits.
func NewExpandingGenerator(centre, spacing float64, randomiseOrder bool,
	limitLower, limitUpper *float64) (*ExpandingGenerator, error) {
	g := &ExpandingGenerator{
		Centre:         centre,
		Spacing:        math.Abs(spacing),
		RandomiseOrder: randomiseOrder,
		LimitLower:     math.Inf(-1),
		LimitUpper:     math.Inf(1),
	}
	if limitLower != nil {
		g.LimitLower = *limitLower
	}
	if centre < g.LimitLower {
		return nil, fmt.Errorf("%w: centre %v below lower limit %v", ErrCentreOutsideLimits, centre, g.LimitLower)
	}
	if limitUpper != nil {
		g.LimitUpper = *limitUpper
	}
	if centre > g.LimitUpper {
		return nil, fmt.Errorf("%w: centre %v above upper limit %v", ErrCentreOutsideLimits, centre, g.LimitUpper)
	}
	return g, nil
}

func (g *ExpandingGenerator) sealed() {}

func (g *ExpandingGenerator) HasLevel(level int) bool {
	numPoints := func(limit float64) float64 {
		return math.Floor(math.Abs(g.Centre-limit) / g.Spacing)
	}
	return float64(level) <= math.Max(numPoints(g.LimitLower), numPoints(g.LimitUpper))
}

func (g *ExpandingGenerator) PointsForLevel(level int, rng *rand.Rand) []any {
	if level == 0 {
		return []any{g.Centre}
	}

	var points []float64
	if lower := g.Centre - float64(level)*g.Spacing; lower >= g.LimitLower {
		points = append(points, lower)
	}
	if upper := g.Centre + float64(level)*g.Spacing; upper <= g.LimitUpper {
		points = append(points, upper)
	}
	if g.RandomiseOrder {
		rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	}
	return boxFloats(points)
}

func (g *ExpandingGenerator) DescribeLimits(target map[string]any) {
	if !math.IsInf(g.LimitLower, -1) {
		target["min"] = g.LimitLower
	}
	if !math.IsInf(g.LimitUpper, 1) {
		target["max"] = g.LimitUpper
	}
	target["increment"] = g.Spacing
}

func boxFloats(values []float64) []any {
	boxed := make([]any, len(values))
	for i, v := range values {
		boxed[i] = v
	}
	return boxed
}
