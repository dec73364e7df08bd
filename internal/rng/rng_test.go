package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.NextU64(), b.NextU64(); x != y {
			t.Fatalf("step %d: %d != %d", i, x, y)
		}
	}
}

func TestZeroSeedIsUsable(t *testing.T) {
	r := New(0)
	if r.NextU64() == 0 && r.NextU64() == 0 {
		t.Fatal("zero seed produced a stuck generator")
	}
}

func TestRangeF(t *testing.T) {
	r := New(7)
	for i := 0; i < 10000; i++ {
		v := r.RangeF(-5, 5)
		if v < -5 || v >= 5 {
			t.Fatalf("RangeF(-5, 5) = %v", v)
		}
	}
	if got := r.RangeF(3, 3); got != 3 {
		t.Errorf("RangeF(3, 3) = %v, want 3", got)
	}
}

func TestIntn(t *testing.T) {
	r := New(9)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := r.Intn(5)
		if v < 0 || v >= 5 {
			t.Fatalf("Intn(5) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 5 {
		t.Errorf("Intn(5) covered %d values, want 5", len(seen))
	}
	if got := r.Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d", got)
	}
}

func TestIntnUniform(t *testing.T) {
	const n, draws = 15, 150000
	r := New(3)
	var counts [n]int
	for i := 0; i < draws; i++ {
		counts[r.Intn(n)]++
	}
	want := draws / n
	for v, c := range counts {
		if c < want*95/100 || c > want*105/100 {
			t.Errorf("value %d drawn %d times, want about %d", v, c, want)
		}
	}
}

func TestIntnLargeBound(t *testing.T) {
	r := New(5)
	n := 1<<62 + 1
	for i := 0; i < 1000; i++ {
		if v := r.Intn(n); v < 0 || v >= n {
			t.Fatalf("Intn(%d) = %d", n, v)
		}
	}
}
