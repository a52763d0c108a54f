package domain

import (
	"fmt"
	"iter"
	"math/rand"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/model"
)

// ScanSpec describes a single scan: the axes being scanned, the generators
// giving the points for each of them, and the options applying to the scan
// as a whole. It is immutable once the point stream starts consuming it.
type ScanSpec struct {
	Axes       []model.ScanAxis
	Generators []Generator
	Options    model.ScanOptions
}

// NewScanSpec validates and assembles a scan spec. The seed is resolved
// here when unset, so the same spec always re-derives the same point
// sequence. All shape mistakes (mismatched lists, wrong store types,
// invalid options) surface here, before any device interaction.
func NewScanSpec(axes []model.ScanAxis, generators []Generator, options model.ScanOptions) (*ScanSpec, error) {
	if len(axes) != len(generators) {
		return nil, fmt.Errorf("%w: %d axes, %d generators", ErrAxisGeneratorCount, len(axes), len(generators))
	}
	for _, axis := range axes {
		if axis.Store == nil {
			return nil, fmt.Errorf("%w: no store for %s", ErrStoreTypeMismatch, axis.Schema.FQN)
		}
		if axis.Store.Type() != axis.Schema.Type {
			return nil, fmt.Errorf("%w: %s declares %q, store holds %q",
				ErrStoreTypeMismatch, axis.Schema.FQN, axis.Schema.Type, axis.Store.Type())
		}
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Seed == 0 {
		options.Seed = rand.Int63()
	}
	return &ScanSpec{Axes: axes, Generators: generators, Options: options}, nil
}

// Points returns the spec's coordinate stream.
func (s *ScanSpec) Points() iter.Seq[model.Point] {
	return GeneratePoints(s.Generators, s.Options)
}

// DescribeScan returns metadata for the given spec in stringly typed
// dictionary form: the scanned axes with their generator limits, the seed
// used for point order randomisation, and the saved result channels.
func DescribeScan(spec *ScanSpec, fragment adapter.Fragment) map[string]any {
	desc := map[string]any{
		"fragment_fqn": fragment.FQN(),
		"seed":         spec.Options.Seed,
	}

	axes := make([]map[string]any, 0, len(spec.Axes))
	for i, ax := range spec.Axes {
		param := map[string]any{
			"fqn":         ax.Schema.FQN,
			"type":        string(ax.Schema.Type),
			"description": ax.Schema.Description,
		}
		if ax.Schema.Unit != "" {
			param["unit"] = ax.Schema.Unit
		}
		spec.Generators[i].DescribeLimits(param)
		axes = append(axes, map[string]any{
			"param": param,
			"path":  ax.Path,
		})
	}
	desc["axes"] = axes

	channels := map[string]any{}
	for _, ch := range fragment.ResultChannels() {
		// Non-saved channels are omitted so external consumers do not
		// attempt to display them.
		if ch.SaveByDefault {
			channels[ch.Path] = ch.Describe()
		}
	}
	desc["channels"] = channels

	return desc
}
