package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/domain"
	"github.com/atomloop/sweep/internal/model"
)

// scanFile is the JSON shape of a scan description.
type scanFile struct {
	Device  bool        `json:"device,omitempty"`
	Axes    []axisFile  `json:"axes"`
	Options optionsFile `json:"options"`
}

type axisFile struct {
	FQN       string               `json:"fqn"`
	Path      string               `json:"path,omitempty"`
	Generator domain.GeneratorArgs `json:"generator"`
}

type optionsFile struct {
	NumRepeats             int   `json:"num_repeats,omitempty"`
	NumRepeatsPerPoint     int   `json:"num_repeats_per_point,omitempty"`
	RandomiseOrderGlobally bool  `json:"randomise_order_globally,omitempty"`
	Seed                   int64 `json:"seed,omitempty"`
}

// defaultScanFile is used when no spec file is given: a 21-point linear
// frequency scan of the simulated Rabi flop.
func defaultScanFile() scanFile {
	return scanFile{
		Axes: []axisFile{{
			FQN:  "rabi_flop.freq",
			Path: "/",
			Generator: domain.GeneratorArgs{
				Kind:      domain.KindLinear,
				Start:     -1.0,
				Stop:      2.0,
				NumPoints: 21,
			},
		}},
	}
}

func loadScanFile(path string) (scanFile, error) {
	if path == "" {
		return defaultScanFile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scanFile{}, fmt.Errorf("reading scan spec: %w", err)
	}
	var sf scanFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return scanFile{}, fmt.Errorf("parsing scan spec: %w", err)
	}
	return sf, nil
}

// buildScan assembles the fragment and validated scan spec described by the
// file, resolving each axis' parameter store on the fragment.
func buildScan(sf scanFile, fragment *adapter.RabiFlopFragment) (*domain.ScanSpec, error) {
	if len(sf.Axes) == 0 {
		return nil, fmt.Errorf("scan spec declares no axes")
	}

	stores := fragment.ParamStores()
	schemas := fragment.ParamSchemas()

	axes := make([]model.ScanAxis, 0, len(sf.Axes))
	generators := make([]domain.Generator, 0, len(sf.Axes))
	for _, af := range sf.Axes {
		store, ok := stores[af.FQN]
		if !ok {
			return nil, fmt.Errorf("fragment %s has no parameter %q", fragment.FQN(), af.FQN)
		}
		path := af.Path
		if path == "" {
			path = "/"
		}
		axes = append(axes, model.ScanAxis{
			Schema: schemas[af.FQN],
			Path:   path,
			Store:  store,
		})
		gen, err := domain.NewGenerator(af.Generator)
		if err != nil {
			return nil, err
		}
		generators = append(generators, gen)
	}

	options := model.ScanOptions{
		NumRepeats:             max(sf.Options.NumRepeats, 1),
		NumRepeatsPerPoint:     max(sf.Options.NumRepeatsPerPoint, 1),
		RandomiseOrderGlobally: sf.Options.RandomiseOrderGlobally,
		Seed:                   sf.Options.Seed,
	}
	return domain.NewScanSpec(axes, generators, options)
}

func axisNames(spec *domain.ScanSpec) []string {
	names := make([]string, len(spec.Axes))
	for i, ax := range spec.Axes {
		names[i] = ax.Schema.FQN
	}
	return names
}
