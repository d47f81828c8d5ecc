package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	// ScaleLightest is the target OKLCH lightness of the lightest step.
	ScaleLightest = 0.97

	// ScaleDarkest is the target OKLCH lightness of the darkest step.
	ScaleDarkest = 0.12

	// BaseStep is the step key that always holds the base colour.
	BaseStep = "500"

	// MinScaleSize and MaxScaleSize bound the number of steps in a scale.
	MinScaleSize = 3
	MaxScaleSize = 11

	// DefaultScaleSize matches the 50..900 ladder most token pipelines expect.
	DefaultScaleSize = 10

	// minStepGap is the smallest lightness gap kept between the base and the extremes
	// so scales built from very light or very dark bases remain strictly ordered.
	minStepGap = 0.015

	// separationNudge is how far a step's target lightness moves per attempt
	// when it quantises onto its inner neighbour.
	separationNudge = 0.001
)

// ErrNoLightnessRoom is returned when a base colour is too close to white or black
// for the requested number of distinct lighter or darker steps.
var ErrNoLightnessRoom = errors.New("base colour leaves no room for distinct scale steps")

// ladder is the full ordered set of step keys, lightest first.
var ladder = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

// Step is a single entry of a scale.
type Step struct {
	Key    string
	Colour Colour
}

// Scale is an ordered colour scale, lightest step first.
type Scale struct {
	steps []Step
}

// NewScale builds a scale from ordered steps. Steps are copied.
func NewScale(steps []Step) Scale {
	return Scale{steps: append([]Step(nil), steps...)}
}

// Steps returns a copy of the ordered steps.
func (s Scale) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Len returns the number of steps.
func (s Scale) Len() int { return len(s.steps) }

// Get returns the colour at the given step key.
func (s Scale) Get(key string) (Colour, bool) {
	for _, st := range s.steps {
		if st.Key == key {
			return st.Colour, true
		}
	}
	return Colour{}, false
}

// Base returns the colour at step 500.
func (s Scale) Base() Colour {
	c, _ := s.Get(BaseStep)
	return c
}

// Keys returns the step keys in order.
func (s Scale) Keys() []string {
	keys := make([]string, len(s.steps))
	for i, st := range s.steps {
		keys[i] = st.Key
	}
	return keys
}

// All returns an iterator over the steps using range over functions.
func (s Scale) All() func(func(string, Colour) bool) {
	return func(yield func(string, Colour) bool) {
		for _, st := range s.steps {
			if !yield(st.Key, st.Colour) {
				return
			}
		}
	}
}

// StepKeys returns the ordered step keys for a scale of the given size.
// Odd sizes up to 9 are centred on 500 in steps of 100, 10 is 50..900,
// 11 is 50..950 and even sizes below 10 extend the next smaller odd set
// by one lighter step.
func StepKeys(size int) ([]string, error) {
	if size < MinScaleSize || size > MaxScaleSize {
		return nil, fmt.Errorf("scale size %d out of range [%d, %d]", size, MinScaleSize, MaxScaleSize)
	}

	var values []int
	switch {
	case size == 11:
		values = ladder
	case size == 10:
		values = ladder[:10]
	case size%2 == 1:
		half := (size - 1) / 2
		for k := -half; k <= half; k++ {
			values = append(values, 500+k*100)
		}
	default:
		half := (size - 2) / 2
		values = append(values, 500-(half+1)*100)
		for k := -half; k <= half; k++ {
			values = append(values, 500+k*100)
		}
	}

	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = strconv.Itoa(v)
	}
	return keys, nil
}

// GenerateScale builds a scale around base. Hue and base chroma are held fixed,
// lightness follows an ease curve from ScaleLightest through the base lightness
// to ScaleDarkest and chroma is attenuated towards the extremes. Step 500 is base.
// Every step is strictly lighter than the step after it once quantised to hex;
// a base too close to white or black for that returns ErrNoLightnessRoom.
func GenerateScale(base Colour, size int) (Scale, error) {
	keys, err := StepKeys(size)
	if err != nil {
		return Scale{}, err
	}

	baseIdx := -1
	for i, k := range keys {
		if k == BaseStep {
			baseIdx = i
			break
		}
	}

	lighter := baseIdx
	darker := len(keys) - baseIdx - 1

	upper := math.Max(ScaleLightest, math.Min(1, base.l+minStepGap*float64(lighter)))
	lower := math.Min(ScaleDarkest, math.Max(0, base.l-minStepGap*float64(darker)))

	lighterTargets := make([]float64, lighter)
	for k := range lighterTargets {
		i := baseIdx - 1 - k
		lighterTargets[k] = upper + (base.l-upper)*easeInOutSine(float64(i)/float64(lighter))
	}
	darkerTargets := make([]float64, darker)
	for k := range darkerTargets {
		t := float64(k+1) / float64(darker)
		darkerTargets[k] = base.l + (lower-base.l)*easeInOutSine(t)
	}

	light, err := scaleSide(base, lighterTargets, 1)
	if err != nil {
		return Scale{}, fmt.Errorf("%w: %s cannot fit %d lighter steps", err, base.hex, lighter)
	}
	dark, err := scaleSide(base, darkerTargets, -1)
	if err != nil {
		return Scale{}, fmt.Errorf("%w: %s cannot fit %d darker steps", err, base.hex, darker)
	}

	steps := make([]Step, len(keys))
	steps[baseIdx] = Step{Key: BaseStep, Colour: base}
	for k, c := range light {
		i := baseIdx - 1 - k
		steps[i] = Step{Key: keys[i], Colour: c}
	}
	for k, c := range dark {
		i := baseIdx + 1 + k
		steps[i] = Step{Key: keys[i], Colour: c}
	}

	return Scale{steps: steps}, nil
}

// scaleStep maps a target lightness to a colour on the base hue.
func scaleStep(base Colour, l float64) Colour {
	return FromOKLCH(l, base.c*chromaAttenuation(l, base.l), base.h)
}

// beyond reports whether c is strictly lighter (direction +1) or darker (-1) than ref.
func beyond(c, ref Colour, direction float64) bool {
	if direction > 0 {
		return c.l > ref.l
	}
	return c.l < ref.l
}

// scaleSide places the steps on one side of the base, nearest the base first.
// Each step starts at its target and is nudged outwards until it clears its inner
// neighbour. If that runs out of room the side is rebuilt from the distinct
// colours that exist between the base and the extreme.
func scaleSide(base Colour, targets []float64, direction float64) ([]Colour, error) {
	out := make([]Colour, 0, len(targets))
	prev := base
	for _, target := range targets {
		c, ok := nudgeBeyond(base, target, prev, direction)
		if !ok {
			return packSide(base, targets, direction)
		}
		out = append(out, c)
		prev = c
	}
	return out, nil
}

func nudgeBeyond(base Colour, target float64, neighbour Colour, direction float64) (Colour, bool) {
	l := target
	for {
		c := scaleStep(base, l)
		if beyond(c, neighbour, direction) {
			return c, true
		}
		if (direction > 0 && l >= 1) || (direction < 0 && l <= 0) {
			return Colour{}, false
		}
		l = math.Max(0, math.Min(1, l+direction*separationNudge))
	}
}

// packSide assigns each target the nearest distinct colour that keeps the side
// strictly ordered and leaves enough colours for the steps further out.
func packSide(base Colour, targets []float64, direction float64) ([]Colour, error) {
	var candidates []Colour
	prev := base
	for l := base.l; ; l += direction * separationNudge {
		l = math.Max(0, math.Min(1, l))
		if c := scaleStep(base, l); beyond(c, prev, direction) {
			candidates = append(candidates, c)
			prev = c
		}
		if (direction > 0 && l >= 1) || (direction < 0 && l <= 0) {
			break
		}
	}

	n := len(targets)
	if len(candidates) < n {
		return nil, ErrNoLightnessRoom
	}

	out := make([]Colour, n)
	last := -1
	for k, target := range targets {
		j := nearestLightness(candidates, target)
		j = max(j, last+1)
		j = min(j, len(candidates)-(n-k))
		out[k] = candidates[j]
		last = j
	}
	return out, nil
}

func nearestLightness(cs []Colour, l float64) int {
	best := 0
	for i, c := range cs {
		if math.Abs(c.l-l) < math.Abs(cs[best].l-l) {
			best = i
		}
	}
	return best
}

// NeutralScale builds a low-chroma scale tinted towards the base hue.
func NeutralScale(base Colour, size int, tint float64) (Scale, error) {
	return GenerateScale(NeutralBase(base, tint), size)
}

// NeutralBase returns a mid-lightness colour on the base hue with chroma capped at tint.
func NeutralBase(base Colour, tint float64) Colour {
	return FromOKLCH(clampLightness(base.l), math.Min(base.c, tint), base.h)
}

// HueShifted returns a colour with hue rotated by degrees and chroma scaled by factor.
func HueShifted(base Colour, degrees, chromaFactor float64) Colour {
	return FromOKLCH(base.l, base.c*chromaFactor, NormaliseHue(base.h+degrees))
}

func easeInOutSine(t float64) float64 {
	return (1 - math.Cos(math.Pi*t)) / 2
}

// chromaAttenuation scales chroma by a parabolic envelope that peaks at mid lightness,
// relative to the envelope at the base lightness. It never boosts chroma.
func chromaAttenuation(l, baseL float64) float64 {
	envelope := func(x float64) float64 { return 4 * x * (1 - x) }
	baseEnv := envelope(baseL)
	if baseEnv <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, envelope(l)/baseEnv))
}

func clampLightness(l float64) float64 {
	return math.Max(0.35, math.Min(0.7, l))
}
