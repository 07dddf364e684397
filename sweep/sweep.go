// Package sweep runs one backtest per point of a parameter grid across a
// worker pool and ranks the outcomes.
package sweep

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/stratlab/quantsim/analytics"
	"github.com/stratlab/quantsim/market"
	"github.com/stratlab/quantsim/sim"
	"github.com/stratlab/quantsim/strategies"
)

// Grid holds the parameter ranges to explore. An empty dimension is pinned
// to the runner's base value instead of being swept.
type Grid struct {
	FastMA  []int
	SlowMA  []int
	RSIBuy  []float64
	RSISell []float64

	TakeProfitPct []float64
	StopLossPct   []float64
}

// Point is one fully specified combination from a Grid.
type Point struct {
	FastMA  int
	SlowMA  int
	RSIBuy  float64
	RSISell float64

	TakeProfitPct float64
	StopLossPct   float64
}

func (p Point) String() string {
	return fmt.Sprintf("ma=%d/%d rsi=%g/%g tp=%g sl=%g",
		p.FastMA, p.SlowMA, p.RSIBuy, p.RSISell, p.TakeProfitPct, p.StopLossPct)
}

// Points expands the grid into its cartesian product, pinning empty
// dimensions to base. Combinations with a fast average at or above the slow
// one are dropped.
func (g Grid) Points(base Point) []Point {
	fastMA := orInts(g.FastMA, base.FastMA)
	slowMA := orInts(g.SlowMA, base.SlowMA)
	rsiBuy := orFloats(g.RSIBuy, base.RSIBuy)
	rsiSell := orFloats(g.RSISell, base.RSISell)
	tp := orFloats(g.TakeProfitPct, base.TakeProfitPct)
	sl := orFloats(g.StopLossPct, base.StopLossPct)

	var points []Point
	for _, f := range fastMA {
		for _, s := range slowMA {
			if f >= s {
				continue
			}
			for _, rb := range rsiBuy {
				for _, rs := range rsiSell {
					for _, t := range tp {
						for _, l := range sl {
							points = append(points, Point{
								FastMA: f, SlowMA: s,
								RSIBuy: rb, RSISell: rs,
								TakeProfitPct: t, StopLossPct: l,
							})
						}
					}
				}
			}
		}
	}
	return points
}

func orInts(vals []int, base int) []int {
	if len(vals) == 0 {
		return []int{base}
	}
	return vals
}

func orFloats(vals []float64, base float64) []float64 {
	if len(vals) == 0 {
		return []float64{base}
	}
	return vals
}

// Outcome is one grid point's result. Err is set when the run failed or
// panicked; failed outcomes sort last.
type Outcome struct {
	Point   Point
	Summary analytics.Summary
	Err     error
}

// Runner fans grid points out over a worker pool. Base supplies every
// setting the grid does not vary.
type Runner struct {
	Workers int
	Base    sim.Config
	Params  strategies.Params
	Logger  *zap.Logger
}

// Run backtests every grid point against the bar series and returns the
// outcomes ordered best first by total profit. The bars slice is shared
// read-only; each task annotates its own bar set copy.
func (r *Runner) Run(ctx context.Context, symbol string, bars []market.Bar, grid Grid) ([]Outcome, error) {
	if err := r.Base.Validate(); err != nil {
		return nil, fmt.Errorf("sweep base config: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("sweep: no bars")
	}

	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	base := Point{
		FastMA: r.Params.FastMA, SlowMA: r.Params.SlowMA,
		RSIBuy: r.Params.RSIBuy, RSISell: r.Params.RSISell,
		TakeProfitPct: r.Base.TakeProfitPct, StopLossPct: r.Base.StopLossPct,
	}
	points := grid.Points(base)
	if len(points) == 0 {
		return nil, fmt.Errorf("sweep: grid expands to no valid points")
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(points) {
		workers = len(points)
	}

	tasks := make(chan Point)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []Outcome
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pt := range tasks {
				out := r.runPoint(symbol, bars, pt, log)
				mu.Lock()
				outcomes = append(outcomes, out)
				mu.Unlock()
			}
		}()
	}

	dispatch := func() error {
		defer close(tasks)
		for _, pt := range points {
			select {
			case tasks <- pt:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	dispatchErr := dispatch()
	wg.Wait()

	sort.SliceStable(outcomes, func(i, j int) bool {
		if (outcomes[i].Err == nil) != (outcomes[j].Err == nil) {
			return outcomes[i].Err == nil
		}
		return outcomes[i].Summary.TotalProfit > outcomes[j].Summary.TotalProfit
	})

	log.Info("sweep finished",
		zap.Int("points", len(points)),
		zap.Int("completed", len(outcomes)),
		zap.Int("workers", workers))

	return outcomes, dispatchErr
}

// runPoint runs a single configuration. A panic inside one task becomes
// that outcome's error instead of taking the whole sweep down.
func (r *Runner) runPoint(symbol string, bars []market.Bar, pt Point, log *zap.Logger) (out Outcome) {
	out.Point = pt
	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("sweep task panicked: %v", rec)
			log.Error("sweep task panicked", zap.String("point", pt.String()), zap.Any("panic", rec))
		}
	}()

	params := r.Params
	params.FastMA = pt.FastMA
	params.SlowMA = pt.SlowMA
	params.RSIBuy = pt.RSIBuy
	params.RSISell = pt.RSISell

	cfg := r.Base
	cfg.TakeProfitPct = pt.TakeProfitPct
	cfg.StopLossPct = pt.StopLossPct

	names := cfg.Sources
	if len(names) == 0 {
		names = strategies.Names()
	}
	sources := make([]strategies.Source, 0, len(names))
	for _, name := range names {
		src, err := strategies.New(name, params)
		if err != nil {
			out.Err = err
			return out
		}
		sources = append(sources, src)
	}

	set := market.NewBarSet(symbol, append([]market.Bar(nil), bars...))
	if err := strategies.Annotate(set, sources...); err != nil {
		out.Err = err
		return out
	}

	eng, err := sim.NewEngine(cfg, sim.WithLogger(log))
	if err != nil {
		out.Err = err
		return out
	}
	res, err := eng.Run(set)
	if err != nil {
		out.Err = err
		return out
	}
	out.Summary = res.Summary
	return out
}

// WriteCSV exports outcomes in ranked order. Failed outcomes carry the error
// text in place of metrics.
func WriteCSV(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)
	header := []string{
		"fast_ma", "slow_ma", "rsi_buy", "rsi_sell", "take_profit_pct", "stop_loss_pct",
		"total_profit", "max_drawdown", "sharpe", "trades", "win_rate", "error",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, out := range outcomes {
		row := []string{
			strconv.Itoa(out.Point.FastMA),
			strconv.Itoa(out.Point.SlowMA),
			formatFloat(out.Point.RSIBuy),
			formatFloat(out.Point.RSISell),
			formatFloat(out.Point.TakeProfitPct),
			formatFloat(out.Point.StopLossPct),
		}
		if out.Err != nil {
			row = append(row, "", "", "", "", "", out.Err.Error())
		} else {
			row = append(row,
				formatFloat(out.Summary.TotalProfit),
				formatFloat(out.Summary.MaxDrawdown),
				formatFloat(out.Summary.Sharpe),
				strconv.Itoa(out.Summary.TradeCount),
				formatFloat(out.Summary.WinRate),
				"")
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
