package ising

import "ising/internal/core"

const maxSweepsPerFrame = 100

// Parameters reports the configuration and running statistics for the HUD.
func (e *Engine) Parameters() core.ParameterSnapshot {
	sites := float64(e.lat.Len())
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				core.IntParam("rows", "Rows", int64(e.cfg.Rows)),
				core.IntParam("cols", "Cols", int64(e.cfg.Cols)),
				core.IntParam("seed", "Seed", e.seed),
			},
		},
		{
			Name: "Dynamics",
			Params: []core.Parameter{
				core.FloatParam("beta", "Beta", e.cfg.Beta),
				core.IntParam("sweeps_per_frame", "Sweeps/frame", int64(e.sweepsPerFrame)),
			},
		},
		{
			Name: "Statistics",
			Params: []core.Parameter{
				core.UintParam("steps", "Steps", e.steps),
				core.FloatParam("sweeps", "Sweeps", float64(e.steps)/sites),
				core.IntParam("magnetization", "Magnetization", e.mag),
				core.FloatParam("m", "m per site", float64(e.mag)/sites),
				core.FloatParam("accepted", "Accepted", e.stats.Fraction(e.stats.Accepted)),
				core.FloatParam("conditional", "Cond. accepted", e.stats.Fraction(e.stats.ConditionallyAccepted)),
				core.FloatParam("rejected", "Rejected", e.stats.Fraction(e.stats.Rejected)),
				core.BoolParam("trace", "Trace kept", e.trace != nil),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the HUD may adjust while running.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "beta", Label: "Beta", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, HasMin: true, Max: 5, HasMax: true},
		{Key: "sweeps_per_frame", Label: "Sweeps/frame", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: maxSweepsPerFrame, HasMax: true},
	}
}

// SetFloatParameter updates beta.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	if key != "beta" {
		return false
	}
	return e.SetBeta(value) == nil
}

// SetIntParameter updates the number of sweeps taken per Step.
func (e *Engine) SetIntParameter(key string, value int) bool {
	if key != "sweeps_per_frame" {
		return false
	}
	if value < 1 {
		value = 1
	}
	if value > maxSweepsPerFrame {
		value = maxSweepsPerFrame
	}
	e.sweepsPerFrame = value
	return true
}
