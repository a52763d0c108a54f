package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeCmd_DefaultScan(t *testing.T) {
	output := executeCommand(t, "describe")

	var desc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &desc))

	assert.Equal(t, "sim_rabi_flop", desc["fragment_fqn"])
	assert.NotZero(t, desc["seed"])

	axes := desc["axes"].([]any)
	require.Len(t, axes, 1)
	param := axes[0].(map[string]any)["param"].(map[string]any)
	assert.Equal(t, "rabi_flop.freq", param["fqn"])
	assert.Equal(t, -1.0, param["min"])
	assert.Equal(t, 2.0, param["max"])

	channels := desc["channels"].(map[string]any)
	assert.Contains(t, channels, "readout/p")
}

func TestDescribeCmd_FixedSeedRoundTrips(t *testing.T) {
	path := writeSpecFile(t, `{
		"axes": [{"fqn": "rabi_flop.freq",
		          "generator": {"kind": "linear", "start": 0, "stop": 1, "num_points": 3}}],
		"options": {"seed": 1234}
	}`)

	var desc map[string]any
	require.NoError(t, json.Unmarshal([]byte(executeCommand(t, "describe", "--spec", path)), &desc))
	assert.Equal(t, float64(1234), desc["seed"])
}
