// Package strategies turns indicator state into per-bar trading signals.
// Each source is independent; combining opinions into one decision is the
// simulation engine's job, not the strategies'.
package strategies

import (
	"fmt"
	"strings"

	"github.com/stratlab/quantsim/market"
)

// Source produces one opinion per bar. Implementations carry indicator state
// and must be Reset between runs.
type Source interface {
	// Name returns a stable identifier used as the signal column name.
	Name() string

	// Reset clears all internal state.
	Reset()

	// Update consumes the next bar and returns this source's opinion.
	// During indicator warm-up the opinion is market.None.
	Update(b market.Bar) market.Signal
}

var registry = make(map[string]func(p Params) Source)

// Params bundles the tunable knobs shared by the built-in sources. A sweep
// varies these per task.
type Params struct {
	FastMA int
	SlowMA int

	RSIPeriod int
	RSIBuy    float64
	RSISell   float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	PanicDropPct  float64
	PanicVolRatio float64
}

// DefaultParams mirrors the conventional indicator settings.
func DefaultParams() Params {
	return Params{
		FastMA:        5,
		SlowMA:        20,
		RSIPeriod:     14,
		RSIBuy:        30,
		RSISell:       70,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		PanicDropPct:  0.02,
		PanicVolRatio: 1.0,
	}
}

// Register installs a named source constructor. Built-ins self-register from
// their init functions.
func Register(name string, build func(p Params) Source) {
	registry[name] = build
}

// New builds a source by registry name.
func New(name string, p Params) (Source, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown signal source %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return build(p), nil
}

// Names lists the registered source names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Annotate runs each source over the bar set and attaches its opinions as a
// named signal column. Invalid bars contribute no opinion and do not advance
// indicator state, matching how the engine skips them.
func Annotate(set *market.BarSet, sources ...Source) error {
	for _, src := range sources {
		src.Reset()
		col := make([]market.Signal, set.Len())
		for i := 0; i < set.Len(); i++ {
			b := set.At(i)
			if !b.Valid() {
				col[i] = market.None
				continue
			}
			col[i] = src.Update(b)
		}
		if err := set.AttachSignals(src.Name(), col); err != nil {
			return err
		}
	}
	return nil
}
