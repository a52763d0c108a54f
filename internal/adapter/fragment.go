package adapter

// Fragment is the executable unit of experiment logic being scanned. The
// runner drives it through the host/device setup and cleanup pairs and
// executes RunOnce once per point (with the axis parameter stores already
// set to that point's coordinates).
type Fragment interface {
	// FQN is the fragment's fully qualified name, used in scan metadata.
	FQN() string

	// RunsOnDevice reports whether the per-point body executes on the
	// real-time coprocessor. The runner selects its strategy from this and
	// never mixes strategies for the same fragment at runtime.
	RunsOnDevice() bool

	// RecomputeParamDefaults pulls in external changes to parameter
	// defaults. Called before (re-)entering host setup, so changes made
	// while the scan was paused are picked up.
	RecomputeParamDefaults()

	HostSetup() error
	DeviceSetup() error
	RunOnce() error
	DeviceCleanup() error
	HostCleanup() error

	// ResultChannels lists all result channels of the fragment tree, so the
	// runner can batch per-point results.
	ResultChannels() []*ResultChannel
}
