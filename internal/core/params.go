package core

import "strconv"

// Parameter describes a single tunable value exposed by an effect.
type Parameter struct {
	Key   string
	Label string
	Value float64

	// Step is the increment applied by HUD buttons; integer parameters use a
	// step of at least 1.
	Step    float64
	Min     float64
	Max     float64
	Integer bool
}

// Format renders the value with a precision derived from the step size.
func (p Parameter) Format() string {
	if p.Integer {
		return strconv.Itoa(int(p.Value))
	}
	precision := 1
	switch {
	case p.Step < 0.001:
		precision = 4
	case p.Step < 0.01:
		precision = 3
	case p.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(p.Value, 'f', precision, 64)
}

// Adjusted returns the value after moving direction steps, clamped to [Min, Max].
func (p Parameter) Adjusted(direction int) float64 {
	step := p.Step
	if p.Integer && step < 1 {
		step = 1
	}
	if step <= 0 {
		step = 0.05
	}
	v := p.Value + float64(direction)*step
	if v < p.Min {
		v = p.Min
	}
	if p.Max > p.Min && v > p.Max {
		v = p.Max
	}
	return v
}

// Tunable is implemented by effects that expose live-adjustable parameters.
type Tunable interface {
	Parameters() []Parameter
	SetParameter(key string, value float64) bool
}
