// Package analytics derives an equity curve from realized trade profits and
// computes drawdown and risk-adjusted return measures from it. It deals only
// in numbers: the trade ledger stays upstream.
package analytics

import "math"

// eps keeps the risk-adjusted ratio finite when return dispersion is tiny.
const eps = 1e-9

// Summary is the per-run performance rollup.
type Summary struct {
	TotalProfit float64
	MaxDrawdown float64
	Sharpe      float64
	TradeCount  int
	Wins        int
	Losses      int
	WinRate     float64
	FinalEquity float64
}

// EquityCurve folds trade profits in chronological order onto the initial
// capital: curve[0] is the starting value, one more point per trade. The
// curve is derived, never separately mutated state.
func EquityCurve(profits []float64, initialCapital float64) []float64 {
	curve := make([]float64, 0, len(profits)+1)
	curve = append(curve, initialCapital)
	equity := initialCapital
	for _, p := range profits {
		equity += p
		curve = append(curve, equity)
	}
	return curve
}

// MaxDrawdown returns the largest peak-to-trough decline of the curve as a
// fraction of the running peak. 0 when the curve never falls below its peak;
// always within [0, 1] for curves that stay non-negative.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0]
	maxDD := 0.0
	for _, e := range curve {
		if e > peak {
			peak = e
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - e) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SharpeRatio is the risk-adjusted return over the curve's per-step
// fractional returns: mean/stddev scaled by scale, or by sqrt(N) when scale
// is 0. Fewer than two returns, or zero dispersion, yield 0 by policy — the
// raw arithmetic would divide by zero.
func SharpeRatio(curve []float64, scale float64) float64 {
	returns := stepReturns(curve)
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	// Sample standard deviation, matching the usual return-series
	// convention.
	sd := math.Sqrt(variance / float64(len(returns)-1))
	if sd == 0 {
		return 0
	}

	if scale <= 0 {
		scale = math.Sqrt(float64(len(returns)))
	}
	ratio := mean / (sd + eps) * scale
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return ratio
}

// stepReturns computes per-step fractional returns, skipping steps whose
// base is zero or non-finite rather than producing NaN.
func stepReturns(curve []float64) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		base := curve[i-1]
		if base == 0 || math.IsNaN(base) || math.IsInf(base, 0) {
			continue
		}
		r := (curve[i] - base) / base
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// Summarize rolls realized trade profits into a Summary. sharpeScale of 0
// keeps the sqrt(N) default.
func Summarize(profits []float64, initialCapital, sharpeScale float64) Summary {
	curve := EquityCurve(profits, initialCapital)

	s := Summary{
		TotalProfit: curve[len(curve)-1] - initialCapital,
		MaxDrawdown: MaxDrawdown(curve),
		Sharpe:      SharpeRatio(curve, sharpeScale),
		TradeCount:  len(profits),
		FinalEquity: curve[len(curve)-1],
	}
	for _, p := range profits {
		if p > 0 {
			s.Wins++
		} else if p < 0 {
			s.Losses++
		}
	}
	if s.TradeCount > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TradeCount)
	}
	return s
}
