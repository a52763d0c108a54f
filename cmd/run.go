package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/atomloop/sweep/internal/adapter"
	"github.com/atomloop/sweep/internal/controller"
	"github.com/atomloop/sweep/internal/domain"
	"github.com/atomloop/sweep/internal/model"
)

var runSpecFlag string
var runDeviceFlag bool
var runMaxPointsFlag int
var runChunkSizeFlag int
var runNoiseFlag float64
var runUnderflowEveryFlag int
var runTransitoryEveryFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scan of the simulated Rabi flop fragment",
		Long: `Run executes the scan described by --spec (or the built-in default
linear frequency scan) against the simulated Rabi flop fragment,
showing progress live. Infinite scans (refining/expanding axes) keep
running until terminated; use --max-points to bound them, or q in the
interactive monitor.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := loadScanFile(runSpecFlag)
			if err != nil {
				return err
			}
			if runDeviceFlag {
				sf.Device = true
			}

			fragment := adapter.NewRabiFlopFragment("/")
			fragment.OnDevice = sf.Device
			fragment.NoiseAmplitude = runNoiseFlag
			fragment.UnderflowEvery = runUnderflowEveryFlag
			fragment.TransitoryEvery = runTransitoryEveryFlag

			spec, err := buildScan(sf, fragment)
			if err != nil {
				return err
			}

			sched := adapter.NewManualScheduler()
			ui := controller.NewUI(cmd.OutOrStdout(), sched)
			return runScan(fragment, spec, sched, ui)
		},
	}
	cmd.Flags().StringVarP(&runSpecFlag, "spec", "f", "", "JSON scan spec file")
	cmd.Flags().BoolVarP(&runDeviceFlag, "device", "d", false, "run the fragment body on the simulated core device")
	cmd.Flags().IntVarP(&runMaxPointsFlag, "max-points", "n", 0, "terminate the scan after this many points (0: unbounded)")
	cmd.Flags().IntVar(&runChunkSizeFlag, "chunk-size", 0, "points per device chunk (default 10)")
	cmd.Flags().Float64Var(&runNoiseFlag, "noise", 0.02, "simulated readout noise amplitude")
	cmd.Flags().IntVar(&runUnderflowEveryFlag, "underflow-every", 0, "inject an RTIO underflow on every nth point execution")
	cmd.Flags().IntVar(&runTransitoryEveryFlag, "transitory-every", 0, "inject a transitory error on every nth point execution")

	return cmd
}

// runScan wires sinks and monitor around the selected runner and executes
// the scan, treating a requested termination as success.
func runScan(fragment *adapter.RabiFlopFragment, spec *domain.ScanSpec,
	sched *adapter.ManualScheduler, ui controller.UI) error {
	axisArrays := make([]*adapter.ArraySink, len(spec.Axes))
	axisSinks := make([]adapter.ResultSink, len(spec.Axes))
	for i := range spec.Axes {
		axisArrays[i] = adapter.NewArraySink()
		axisSinks[i] = axisArrays[i]
	}

	resultArrays := map[string]*adapter.ArraySink{}
	for _, ch := range fragment.ResultChannels() {
		sink := adapter.NewArraySink()
		resultArrays[ch.Path] = sink
		ch.SetSink(sink)
	}

	// The runner pushes a committed point's coordinates to the axis sinks
	// in axis order, after the results; a push on the last axis therefore
	// marks the point complete.
	completed := 0
	last := len(axisSinks) - 1
	axisSinks[last] = &adapter.CallbackSink{
		Inner: axisArrays[last],
		Fn: func(any) {
			coords := make([]any, len(axisArrays))
			for i, arr := range axisArrays {
				coords[i] = arr.GetLast()
			}
			results := map[string]any{}
			for path, arr := range resultArrays {
				results[path] = arr.GetLast()
			}
			ui.PointCompleted(completed, coords, results)
			completed++
			if runMaxPointsFlag > 0 && completed >= runMaxPointsFlag {
				sched.RequestTermination()
			}
		},
	}

	total, finite := domain.CountPoints(spec.Generators, spec.Options, 32)
	if !finite {
		total = 0
	}
	if runMaxPointsFlag > 0 && (total == 0 || runMaxPointsFlag < total) {
		total = runMaxPointsFlag
	}
	ui.ScanStarted(controller.ScanInfo{
		FragmentFQN: fragment.FQN(),
		AxisNames:   axisNames(spec),
		Seed:        spec.Options.Seed,
		TotalPoints: total,
		Device:      fragment.RunsOnDevice(),
	})

	runner := domain.SelectRunner(fragment, sched, adapter.NewSimulatedCore(), domain.RunnerOptions{
		ChunkSize: runChunkSizeFlag,
		Logger:    slog.Default(),
	})

	var g errgroup.Group
	g.Go(ui.Run)
	g.Go(func() error {
		err := runner.Run(fragment, spec, axisSinks)
		if errors.Is(err, model.ErrTerminationRequested) {
			// Graceful shutdown of an interactive or bounded scan.
			err = nil
		}
		ui.Done(err)
		return err
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(runCmd)
}
