package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsCmd_DefaultScan(t *testing.T) {
	output := strings.ToLower(executeCommand(t, "points", "--limit", "5"))

	assert.Contains(t, output, "rabi_flop.freq")
	assert.Contains(t, output, "-1")
	assert.Contains(t, output, "points 5")
}

func TestPointsCmd_ListsWholeFiniteScan(t *testing.T) {
	path := writeSpecFile(t, `{
		"axes": [{"fqn": "rabi_flop.duration",
		          "generator": {"kind": "list", "values": [0.5, 1.0, 2.0]}}]
	}`)

	output := strings.ToLower(executeCommand(t, "points", "--spec", path))
	assert.Contains(t, output, "points 3")
	assert.Contains(t, output, "0.5")
	assert.Contains(t, output, "2")
}

func TestPointsCmd_CapsInfiniteScan(t *testing.T) {
	path := writeSpecFile(t, `{
		"axes": [{"fqn": "rabi_flop.freq",
		          "generator": {"kind": "refining", "lower": 0, "upper": 1}}]
	}`)

	output := strings.ToLower(executeCommand(t, "points", "--spec", path, "--limit", "9"))
	assert.Contains(t, output, "points 9")
}
