package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cutoff bounds accepted by the low-pass, upper bound is further limited to Nyquist
const (
	minCutoffHz = 20.0
	maxCutoffHz = 20000.0
)

// lowPass is a one-pole low-pass filter, y += a * (x - y)
type lowPass struct {
	alpha  float64
	state  float64
	cutoff float64
}

// setCutoff recomputes the coefficient for hz at sampleRate
func (f *lowPass) setCutoff(hz, sampleRate float64) {
	nyquist := sampleRate / 2
	hz = math.Max(minCutoffHz, math.Min(hz, math.Min(maxCutoffHz, nyquist)))
	f.cutoff = hz
	f.alpha = 1 - math.Exp(-2*math.Pi*hz/sampleRate)
}

func (f *lowPass) process(x float64) float64 {
	f.state += f.alpha * (x - f.state)
	return f.state
}

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Schroeder reverb tuning, delays in samples at 44.1 kHz
var (
	combDelays    = []int{1557, 1617, 1491, 1422}
	allPassDelays = []int{556, 225}
)

const allPassGain = 0.5

// comb is a feedback delay line
type comb struct {
	buf      []float64
	pos      int
	feedback float64
}

func (c *comb) process(x float64) float64 {
	out := c.buf[c.pos]
	c.buf[c.pos] = x + out*c.feedback
	c.pos = (c.pos + 1) % len(c.buf)
	return out
}

// allPass diffuses the comb output without coloring it
type allPass struct {
	buf []float64
	pos int
}

func (a *allPass) process(x float64) float64 {
	delayed := a.buf[a.pos]
	a.buf[a.pos] = x + delayed*allPassGain
	a.pos = (a.pos + 1) % len(a.buf)
	return delayed - x
}

// reverb is a mono Schroeder reverb: parallel combs into serial all-passes
type reverb struct {
	src    beep.Streamer
	wet    float64
	combs  []comb
	passes []allPass
}

// newReverb wraps src; decay is the time for the tail to fall by 60 dB
// A non-positive wet or decay returns src unchanged
func newReverb(src beep.Streamer, rate beep.SampleRate, decay time.Duration, wet float64) beep.Streamer {
	if wet <= 0 || decay <= 0 {
		return src
	}
	scale := float64(rate) / 44100

	r := &reverb{src: src, wet: math.Min(wet, 1)}
	for _, d := range combDelays {
		n := max(1, int(float64(d)*scale))
		// 60 dB drop over decay: g^(decay/delay) = 10^-3
		g := math.Pow(10, -3*float64(n)/(decay.Seconds()*float64(rate)))
		r.combs = append(r.combs, comb{buf: make([]float64, n), feedback: g})
	}
	for _, d := range allPassDelays {
		n := max(1, int(float64(d)*scale))
		r.passes = append(r.passes, allPass{buf: make([]float64, n)})
	}
	return r
}

func (r *reverb) Stream(samples [][2]float64) (int, bool) {
	n, ok := r.src.Stream(samples)
	for i := 0; i < n; i++ {
		dry := (samples[i][0] + samples[i][1]) / 2

		var tail float64
		for c := range r.combs {
			tail += r.combs[c].process(dry)
		}
		tail /= float64(len(r.combs))
		for p := range r.passes {
			tail = r.passes[p].process(tail)
		}

		out := dry*(1-r.wet) + tail*r.wet
		samples[i][0] = out
		samples[i][1] = out
	}
	return n, ok
}

func (r *reverb) Err() error {
	return r.src.Err()
}
