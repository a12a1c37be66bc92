package proxy

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPool_Rotation(t *testing.T) {
	p := NewPool(Config{})
	if err := p.Add("http://p1:8080", "http://p2:8080"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := p.Next()
	second := p.Next()
	third := p.Next()

	if first == nil || second == nil || third == nil {
		t.Fatal("expected proxies from pool")
	}
	if first.String() == second.String() {
		t.Error("expected rotation between proxies")
	}
	if first.String() != third.String() {
		t.Error("expected round-robin to wrap")
	}
}

func TestPool_FailureCooldown(t *testing.T) {
	p := NewPool(Config{MaxFailures: 2, Cooldown: 50 * time.Millisecond})
	if err := p.Add("http://p1:8080"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := p.Next()
	_ = p.MarkFailure(u)
	_ = p.MarkFailure(u)

	if p.Next() != nil {
		t.Fatal("expected nil when the only proxy is cooling down")
	}

	time.Sleep(60 * time.Millisecond)
	if p.Next() == nil {
		t.Fatal("expected proxy to revive after cooldown")
	}
}

func TestPool_SchemeDefault(t *testing.T) {
	p := NewPool(Config{})
	if err := p.Add("1.2.3.4:3128"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u := p.Next()
	if u == nil || u.Scheme != "http" {
		t.Fatalf("expected http scheme default, got %v", u)
	}
}

func TestPool_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "# comment\nhttp://p1:8080\n\nhttp://p2:8080\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed writing fixture: %v", err)
	}

	p := NewPool(Config{})
	if err := p.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		if u := p.Next(); u != nil {
			seen[u.String()] = true
		}
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct proxies loaded, got %d", len(seen))
	}
}
