package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/domain"
)

func writeSpecFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScanFile_Default(t *testing.T) {
	sf, err := loadScanFile("")
	require.NoError(t, err)
	require.Len(t, sf.Axes, 1)
	assert.Equal(t, "rabi_flop.freq", sf.Axes[0].FQN)
	assert.Equal(t, domain.KindLinear, sf.Axes[0].Generator.Kind)
}

func TestLoadScanFile_ParsesJSON(t *testing.T) {
	path := writeSpecFile(t, `{
		"device": true,
		"axes": [
			{"fqn": "rabi_flop.freq",
			 "generator": {"kind": "centre_span", "centre": 0.5, "half_span": 1,
			               "num_points": 11, "limit_lower": 0, "limit_upper": 1}},
			{"fqn": "rabi_flop.duration",
			 "generator": {"kind": "list", "values": [0.5, 1.0, 2.0]}}
		],
		"options": {"num_repeats": 2, "seed": 7}
	}`)

	sf, err := loadScanFile(path)
	require.NoError(t, err)
	assert.True(t, sf.Device)
	require.Len(t, sf.Axes, 2)
	assert.Equal(t, domain.KindCentreSpan, sf.Axes[0].Generator.Kind)
	require.NotNil(t, sf.Axes[0].Generator.LimitUpper)
	assert.Equal(t, 1.0, *sf.Axes[0].Generator.LimitUpper)
	assert.Equal(t, 2, sf.Options.NumRepeats)
	assert.Equal(t, int64(7), sf.Options.Seed)
}

func TestLoadScanFile_Errors(t *testing.T) {
	_, err := loadScanFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading scan spec")

	_, err = loadScanFile(writeSpecFile(t, "{not json"))
	assert.ErrorContains(t, err, "parsing scan spec")
}

func TestBuildScan(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	sf, err := loadScanFile("")
	require.NoError(t, err)

	spec, err := buildScan(sf, fragment)
	require.NoError(t, err)
	require.Len(t, spec.Axes, 1)
	assert.Same(t, fragment.FreqStore(), spec.Axes[0].Store)
	assert.Equal(t, "MHz", spec.Axes[0].Schema.Unit)
	assert.NotZero(t, spec.Options.Seed)
	assert.Equal(t, []string{"rabi_flop.freq"}, axisNames(spec))
}

func TestBuildScan_UnknownParameter(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	sf := defaultScanFile()
	sf.Axes[0].FQN = "rabi_flop.phase"

	_, err := buildScan(sf, fragment)
	assert.ErrorContains(t, err, "rabi_flop.phase")
}

func TestBuildScan_BadGenerator(t *testing.T) {
	fragment := adapter.NewRabiFlopFragment("/")
	sf := defaultScanFile()
	sf.Axes[0].Generator = domain.GeneratorArgs{Kind: "spiral"}

	_, err := buildScan(sf, fragment)
	assert.ErrorIs(t, err, domain.ErrUnknownGenerator)
}
