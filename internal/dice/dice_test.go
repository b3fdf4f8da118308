package dice

import "testing"

func TestSeededDeterministic(t *testing.T) {
	a := NewSeeded(12345)
	b := NewSeeded(12345)

	for i := 0; i < 50; i++ {
		gotA := a.Roll(100000)
		gotB := b.Roll(100000)
		if gotA != gotB {
			t.Fatalf("expected deterministic sequence, mismatch at %d: %d != %d", i, gotA, gotB)
		}
	}
}

func TestSeedWordChangesWithSalt(t *testing.T) {
	if seedWord(99, "a") == seedWord(99, "b") {
		t.Fatalf("expected different seed words for different salts")
	}
}

func TestRollPanicsOnEmptyRange(t *testing.T) {
	for _, n := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for n=%d", n)
				}
			}()
			NewSeeded(1).Roll(n)
		}()
	}
}

func TestPickOneSkipsEmptySlots(t *testing.T) {
	slots := []string{"", "a", "", "b", "c"}
	tests := []struct {
		roll int
		want int
	}{
		{roll: 0, want: 1},
		{roll: 1, want: 3},
		{roll: 2, want: 4},
	}
	for _, tc := range tests {
		seq := NewSequence(tc.roll)
		got, ok := PickOne(seq, slots)
		if !ok || got != tc.want {
			t.Fatalf("roll=%d got=(%d,%v) want=%d", tc.roll, got, ok, tc.want)
		}
		if len(seq.Requests) != 1 || seq.Requests[0] != 3 {
			t.Fatalf("expected one roll over 3 occupied slots, got %v", seq.Requests)
		}
	}
}

func TestPickOneAllEmptyDoesNotRoll(t *testing.T) {
	seq := NewSequence()
	if _, ok := PickOne(seq, []*int{nil, nil}); ok {
		t.Fatalf("expected no pick from empty slots")
	}
	if len(seq.Requests) != 0 {
		t.Fatalf("expected no rolls, got %v", seq.Requests)
	}
}

func TestSampleDistinct(t *testing.T) {
	d := NewSeeded(7)
	for i := 0; i < 200; i++ {
		got := Sample(d, []int{0, 2, 3, 4}, 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 picks, got %v", got)
		}
		if got[0] == got[1] {
			t.Fatalf("expected distinct picks, got %v", got)
		}
	}
	if got := Sample(d, []int{1}, 2); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected sample capped at candidate count, got %v", got)
	}
}

func TestSampleDoesNotModifyCandidates(t *testing.T) {
	candidates := []int{0, 1, 2}
	Sample(NewSequence(2, 1), candidates, 2)
	if candidates[0] != 0 || candidates[1] != 1 || candidates[2] != 2 {
		t.Fatalf("candidates mutated: %v", candidates)
	}
}

func TestSequenceRecordsRequests(t *testing.T) {
	seq := NewSequence(3, 0)
	seq.Roll(6)
	seq.Roll(1)
	if seq.Remaining() != 0 {
		t.Fatalf("expected script consumed")
	}
	if len(seq.Requests) != 2 || seq.Requests[0] != 6 || seq.Requests[1] != 1 {
		t.Fatalf("unexpected requests %v", seq.Requests)
	}
}
