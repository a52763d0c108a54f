package domain

import "fmt"

// GeneratorKind names one of the closed set of generator variants, as it
// appears in serialised scan metadata.
type GeneratorKind string

// Available GeneratorKind values.
const (
	KindRefining           GeneratorKind = "refining"
	KindExpanding          GeneratorKind = "expanding"
	KindLinear             GeneratorKind = "linear"
	KindCentreSpan         GeneratorKind = "centre_span"
	KindCentreSpanRefining GeneratorKind = "centre_span_refining"
	KindList               GeneratorKind = "list"
)

// GeneratorArgs carries the union of construction parameters of all
// generator kinds, in the shape scan metadata is parsed into.
type GeneratorArgs struct {
	Kind GeneratorKind `json:"kind"`

	Start     float64 `json:"start,omitempty"`
	Stop      float64 `json:"stop,omitempty"`
	NumPoints int     `json:"num_points,omitempty"`

	Lower float64 `json:"lower,omitempty"`
	Upper float64 `json:"upper,omitempty"`

	Centre   float64 `json:"centre,omitempty"`
	HalfSpan float64 `json:"half_span,omitempty"`
	Spacing  float64 `json:"spacing,omitempty"`

	Values []any `json:"values,omitempty"`

	LimitLower *float64 `json:"limit_lower,omitempty"`
	LimitUpper *float64 `json:"limit_upper,omitempty"`

	RandomiseOrder bool `json:"randomise_order,omitempty"`
}

// NewGenerator constructs the generator described by args. Unknown kinds
// and malformed parameters fail here, eagerly, so configuration mistakes
// never manifest mid-run.
func NewGenerator(args GeneratorArgs) (Generator, error) {
	switch args.Kind {
	case KindRefining:
		return NewRefiningGenerator(args.Lower, args.Upper, args.RandomiseOrder), nil
	case KindCentreSpanRefining:
		return NewCentreSpanRefiningGenerator(args.Centre, args.HalfSpan, args.RandomiseOrder,
			args.LimitLower, args.LimitUpper), nil
	case KindExpanding:
		return NewExpandingGenerator(args.Centre, args.Spacing, args.RandomiseOrder,
			args.LimitLower, args.LimitUpper)
	case KindLinear:
		return NewLinearGenerator(args.Start, args.Stop, args.NumPoints, args.RandomiseOrder)
	case KindCentreSpan:
		return NewCentreSpanGenerator(args.Centre, args.HalfSpan, args.NumPoints, args.RandomiseOrder,
			args.LimitLower, args.LimitUpper)
	case KindList:
		return NewListGenerator(args.Values, args.RandomiseOrder), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, args.Kind)
	}
}
