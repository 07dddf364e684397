package market

import (
	"fmt"
	"sort"
)

// BarSet is a time-ordered bar sequence for one symbol, plus any named signal
// columns attached after the strategy sources have run. The engine only ever
// reads from a BarSet.
type BarSet struct {
	Symbol string
	Bars   []Bar

	signals map[string][]Signal
}

func NewBarSet(symbol string, bars []Bar) *BarSet {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
	return &BarSet{
		Symbol:  symbol,
		Bars:    bars,
		signals: make(map[string][]Signal),
	}
}

func (s *BarSet) Len() int     { return len(s.Bars) }
func (s *BarSet) At(i int) Bar { return s.Bars[i] }

// AttachSignals adds (or replaces) a named signal column. The column must be
// aligned one value per bar.
func (s *BarSet) AttachSignals(name string, col []Signal) error {
	if len(col) != len(s.Bars) {
		return fmt.Errorf("signal column %q has %d values for %d bars", name, len(col), len(s.Bars))
	}
	if s.signals == nil {
		s.signals = make(map[string][]Signal)
	}
	s.signals[name] = col
	return nil
}

// Signal returns the named source's opinion for bar i. Unknown names and
// missing columns read as no opinion, never as an error.
func (s *BarSet) Signal(name string, i int) Signal {
	col, ok := s.signals[name]
	if !ok || i < 0 || i >= len(col) {
		return None
	}
	return col[i]
}

// SignalsAt collects every attached source's opinion for bar i.
func (s *BarSet) SignalsAt(i int) map[string]Signal {
	out := make(map[string]Signal, len(s.signals))
	for name := range s.signals {
		out[name] = s.Signal(name, i)
	}
	return out
}

// SignalNames lists the attached columns in stable order.
func (s *BarSet) SignalNames() []string {
	names := make([]string, 0, len(s.signals))
	for name := range s.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
