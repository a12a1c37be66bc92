package useragent

import "testing"

func TestPool_Default(t *testing.T) {
	p := NewPool(nil)
	if p.Len() != len(DefaultPool) {
		t.Fatalf("expected default pool of %d, got %d", len(DefaultPool), p.Len())
	}
	if p.GetSequential() == "" {
		t.Error("expected non-empty UA from default pool")
	}
}

func TestPool_Sequential(t *testing.T) {
	uas := []string{"A/1.0", "B/2.0", "C/3.0"}
	p := NewPool(uas)

	for round := 0; round < 2; round++ {
		for _, want := range uas {
			if got := p.GetSequential(); got != want {
				t.Fatalf("round %d: expected %q, got %q", round, want, got)
			}
		}
	}
}

func TestPool_Random(t *testing.T) {
	uas := []string{"A/1.0", "B/2.0"}
	p := NewPool(uas)

	for i := 0; i < 20; i++ {
		got := p.GetRandom()
		if got != uas[0] && got != uas[1] {
			t.Fatalf("unexpected UA %q", got)
		}
	}
}

func TestPool_CopiesInput(t *testing.T) {
	uas := []string{"A/1.0"}
	p := NewPool(uas)
	uas[0] = "mutated"
	if got := p.GetSequential(); got != "A/1.0" {
		t.Errorf("pool should copy input, got %q", got)
	}
}
