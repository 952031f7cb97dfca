// Package status publishes live counters from the frame loop to the status line
// and the debug log. The synth's speaker goroutine also writes here, so every
// value is atomic.
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the central metrics facade
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Format renders "key:value" pairs for keys in the given order
// Unregistered keys are skipped; floats print without decimals
func (r *Registry) Format(keys ...string) string {
	var b strings.Builder
	for _, key := range keys {
		var val string
		if p, ok := r.Strings.Lookup(key); ok {
			val = p.Load()
		} else if p, ok := r.Ints.Lookup(key); ok {
			val = fmt.Sprintf("%d", p.Load())
		} else if p, ok := r.Floats.Lookup(key); ok {
			val = fmt.Sprintf("%.0f", p.Get())
		} else {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("  ")
		}
		b.WriteString(shortKey(key))
		b.WriteByte(':')
		b.WriteString(val)
	}
	return b.String()
}

// Dump renders every metric, one per line, for the debug log
func (r *Registry) Dump() string {
	keys := append(r.Strings.Keys(), r.Ints.Keys()...)
	keys = append(keys, r.Floats.Keys()...)

	var b strings.Builder
	for _, key := range keys {
		line := r.Format(key)
		// Format shortens keys; the dump keeps them qualified
		b.WriteString(key)
		b.WriteString(line[len(shortKey(key)):])
		b.WriteByte('\n')
	}
	return b.String()
}

// shortKey drops the "subsystem." prefix
func shortKey(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}
