// Package sim drives shop rounds to completion and records their traces.
package sim

import (
	"context"
	"log/slog"

	"shopsim/internal/dice"
	"shopsim/internal/game"
)

const DefaultMaxSteps = 500

type Options struct {
	Seed     int64
	MaxSteps int
	Catalog  *game.Catalog
	Logger   *slog.Logger
}

// Step is one recorded call to Shop.Step and the shop state after it.
type Step struct {
	Index  int         `json:"index"`
	Action game.Action `json:"action"`
	Done   bool        `json:"done"`
	Shop   game.View   `json:"shop"`
}

type Result struct {
	Seed      int64     `json:"seed"`
	Initial   game.View `json:"initial"`
	Steps     []Step    `json:"steps"`
	Final     game.View `json:"final"`
	Truncated bool      `json:"truncated"`
}

// Actions returns the sampled action of every step.
func (r Result) Actions() []game.Action {
	out := make([]game.Action, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Action
	}
	return out
}

// Applied counts the steps that changed the shop.
func (r Result) Applied() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Done {
			n++
		}
	}
	return n
}

// Run plays one round from opts.Seed until the shop reports it is finished or
// MaxSteps is reached. The context is checked between steps.
func Run(ctx context.Context, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	d := dice.NewSeeded(opts.Seed)
	shop := game.NewShop(d, opts.Catalog, logger)
	out := Result{
		Seed:    opts.Seed,
		Initial: shop.View(),
		Steps:   make([]Step, 0, 16),
	}

	finished := false
	for i := 0; i < maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		done := shop.Step(d)
		out.Steps = append(out.Steps, Step{
			Index:  i,
			Action: shop.LastAction(),
			Done:   done,
			Shop:   shop.View(),
		})
		if done {
			finished = true
			break
		}
	}
	out.Final = shop.View()
	out.Truncated = !finished
	logger.Debug("round complete", "seed", opts.Seed, "steps", len(out.Steps), "gold", out.Final.Gold, "truncated", out.Truncated)
	return out, nil
}
