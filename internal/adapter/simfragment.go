package adapter

import (
	"math"
	"math/rand"

	"github.com/atomloop/sweep/internal/model"
)

// RabiFlopFragment is a simulated two-level-system readout used by the CLI
// demo scans and in tests: scanning drive frequency and/or pulse duration
// traces out a Rabi flop. It exposes the two parameters through regular
// stores/handles so scans mutate them exactly like real fragment parameters.
type RabiFlopFragment struct {
	// Resonance and Rabi frequency of the simulated transition, in the same
	// (arbitrary) unit as the freq parameter.
	Resonance     float64
	RabiFrequency float64

	// NoiseAmplitude adds Gaussian readout noise to the transition
	// probability.
	NoiseAmplitude float64

	// OnDevice marks the per-point body as device-resident, selecting the
	// chunked device strategy.
	OnDevice bool

	// UnderflowEvery injects an RTIO underflow on every nth RunOnce call
	// (0 disables). TransitoryEvery likewise for transitory errors.
	UnderflowEvery  int
	TransitoryEvery int

	freqStore     *model.FloatParamStore
	durationStore *model.FloatParamStore
	freq          *model.ParamHandle
	duration      *model.ParamHandle

	readout *ResultChannel

	rng      *rand.Rand
	runCount int

	hostSetups     int
	deviceSetups   int
	hostCleanups   int
	deviceCleanups int
}

// NewRabiFlopFragment creates the fragment with its default parameter
// stores attached.
func NewRabiFlopFragment(path string) *RabiFlopFragment {
	f := &RabiFlopFragment{
		Resonance:     0.5,
		RabiFrequency: 4.0,
		rng:           rand.New(rand.NewSource(0x5eed)),
	}
	f.freqStore = model.NewFloatParamStore(model.ParamIdent{FQN: "rabi_flop.freq", Path: path}, f.Resonance)
	f.durationStore = model.NewFloatParamStore(model.ParamIdent{FQN: "rabi_flop.duration", Path: path}, 1.0)
	f.freq = model.NewParamHandle(f.freqStore)
	f.duration = model.NewParamHandle(f.durationStore)
	f.readout = NewResultChannel("readout/p", model.ParamFloat)
	return f
}

func (f *RabiFlopFragment) FQN() string        { return "sim_rabi_flop" }
func (f *RabiFlopFragment) RunsOnDevice() bool { return f.OnDevice }

// FreqStore returns the store backing the frequency parameter, for use as a
// scan axis target.
func (f *RabiFlopFragment) FreqStore() *model.FloatParamStore { return f.freqStore }

// DurationStore returns the store backing the pulse duration parameter.
func (f *RabiFlopFragment) DurationStore() *model.FloatParamStore { return f.durationStore }

// Readout returns the transition probability result channel.
func (f *RabiFlopFragment) Readout() *ResultChannel { return f.readout }

// ParamStores maps the fragment's parameter FQNs to their stores, for
// resolving scan axis targets.
func (f *RabiFlopFragment) ParamStores() map[string]model.ParamStore {
	return map[string]model.ParamStore{
		f.freqStore.Ident().FQN:     f.freqStore,
		f.durationStore.Ident().FQN: f.durationStore,
	}
}

// ParamSchemas maps the fragment's parameter FQNs to their schemas.
func (f *RabiFlopFragment) ParamSchemas() map[string]model.ParamSchema {
	return map[string]model.ParamSchema{
		f.freqStore.Ident().FQN: {
			FQN:         f.freqStore.Ident().FQN,
			Type:        model.ParamFloat,
			Description: "drive frequency",
			Unit:        "MHz",
		},
		f.durationStore.Ident().FQN: {
			FQN:         f.durationStore.Ident().FQN,
			Type:        model.ParamFloat,
			Description: "pulse duration",
			Unit:        "us",
		},
	}
}

func (f *RabiFlopFragment) RecomputeParamDefaults() {}

func (f *RabiFlopFragment) HostSetup() error {
	f.hostSetups++
	return nil
}

func (f *RabiFlopFragment) DeviceSetup() error {
	f.deviceSetups++
	return nil
}

func (f *RabiFlopFragment) RunOnce() error {
	f.runCount++
	if f.UnderflowEvery > 0 && f.runCount%f.UnderflowEvery == 0 {
		return &model.RTIOUnderflowError{SlackMu: -int64(f.runCount)}
	}
	if f.TransitoryEvery > 0 && f.runCount%f.TransitoryEvery == 0 {
		return model.NewTransitoryError("simulated ion loss")
	}

	detuning := f.freq.UseFloat() - f.Resonance
	t := f.duration.UseFloat()
	omega := f.RabiFrequency
	omegaEff := math.Sqrt(omega*omega + detuning*detuning)

	p := 0.0
	if omegaEff > 0 {
		amp := omega * omega / (omegaEff * omegaEff)
		s := math.Sin(omegaEff * t / 2)
		p = amp * s * s
	}
	p += f.NoiseAmplitude * f.rng.NormFloat64()
	f.readout.Push(math.Max(0, math.Min(1, p)))
	return nil
}

func (f *RabiFlopFragment) DeviceCleanup() error {
	f.deviceCleanups++
	return nil
}

func (f *RabiFlopFragment) HostCleanup() error {
	f.hostCleanups++
	return nil
}

func (f *RabiFlopFragment) ResultChannels() []*ResultChannel {
	return []*ResultChannel{f.readout}
}

// RunCount returns how many times RunOnce has executed, including failed
// attempts.
func (f *RabiFlopFragment) RunCount() int { return f.runCount }

// HostSetupCount returns how many times HostSetup has executed.
func (f *RabiFlopFragment) HostSetupCount() int { return f.hostSetups }
