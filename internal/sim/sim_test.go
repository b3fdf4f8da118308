package sim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"shopsim/internal/game"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRunDeterministic(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, 31337} {
		a, err := Run(context.Background(), Options{Seed: seed, Logger: quiet})
		if err != nil {
			t.Fatalf("seed=%d: %v", seed, err)
		}
		b, err := Run(context.Background(), Options{Seed: seed, Logger: quiet})
		if err != nil {
			t.Fatalf("seed=%d: %v", seed, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("seed=%d: expected identical results", seed)
		}
	}
}

func TestRunEndsOnTermination(t *testing.T) {
	res, err := Run(context.Background(), Options{Seed: 5, Logger: quiet})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Steps) == 0 {
		t.Fatalf("expected at least one step")
	}
	if res.Truncated {
		t.Skip("seed 5 hit the step cap")
	}
	last := res.Steps[len(res.Steps)-1]
	if !last.Done {
		t.Fatalf("expected last step to be terminal")
	}
	for _, s := range res.Steps[:len(res.Steps)-1] {
		if s.Done {
			t.Fatalf("step %d terminal before the end", s.Index)
		}
	}
	if !reflect.DeepEqual(res.Final, last.Shop) {
		t.Fatalf("final view should match last step")
	}
	if res.Applied() != len(res.Steps)-1 {
		t.Fatalf("applied got=%d want=%d", res.Applied(), len(res.Steps)-1)
	}
	if res.Initial.Gold != game.DefaultGold {
		t.Fatalf("initial gold got=%d", res.Initial.Gold)
	}
}

func TestRunMaxSteps(t *testing.T) {
	res, err := Run(context.Background(), Options{Seed: 11, MaxSteps: 1, Logger: quiet})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Steps) != 1 {
		t.Fatalf("steps got=%d want=1", len(res.Steps))
	}
	if res.Truncated == res.Steps[0].Done {
		t.Fatalf("truncated=%v should be the opposite of done=%v", res.Truncated, res.Steps[0].Done)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Seed: 1, Logger: quiet}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	res, err := Run(context.Background(), Options{Seed: 77, Logger: quiet})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Result
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(res.Actions(), back.Actions()) || !reflect.DeepEqual(res.Final, back.Final) {
		t.Fatalf("trace changed through JSON")
	}
}
