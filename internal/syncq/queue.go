// Package syncq keeps locally simulated rounds that still need uploading.
package syncq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"shopsim/internal/sim"
)

type Pending struct {
	IdempotencyKey string     `json:"idempotency_key"`
	QueuedAt       time.Time  `json:"queued_at"`
	Result         sim.Result `json:"result"`
}

func queuePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".shopsim")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "pending.json"), nil
}

func Load() ([]Pending, error) {
	path, err := queuePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Pending{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Pending{}, nil
	}
	var out []Pending
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the queue. An empty queue removes the file.
func Save(pending []Pending) error {
	path, err := queuePath()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	raw, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func Push(p Pending) error {
	pending, err := Load()
	if err != nil {
		return err
	}
	for _, q := range pending {
		if q.IdempotencyKey == p.IdempotencyKey {
			return nil
		}
	}
	return Save(append(pending, p))
}
