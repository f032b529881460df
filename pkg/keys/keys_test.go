package keys

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestCounter(t *testing.T) {
	c := NewCounter()

	got := []string{c.Key("Home"), c.Key("stack"), c.Key("Home")}
	want := []string{"Home-1", "stack-2", "Home-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Key() #%d = %q, want %q", i, got[i], want[i])
		}
	}

	c.Reset()
	if k := c.Key("Feed"); k != "Feed-1" {
		t.Errorf("Key() after Reset = %q, want Feed-1", k)
	}
}

func TestCounterConcurrent(t *testing.T) {
	c := NewCounter()
	const n = 100

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := c.Key("r")
			mu.Lock()
			seen[k] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("got %d unique keys, want %d", len(seen), n)
	}
}

func TestUUID(t *testing.T) {
	k := UUID{}.Key("tab")
	if !strings.HasPrefix(k, "tab-") {
		t.Fatalf("Key() = %q, want tab- prefix", k)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(k, "tab-")); err != nil {
		t.Errorf("Key() suffix is not a UUID: %v", err)
	}
	if (UUID{}).Key("tab") == k {
		t.Error("UUID keys should differ")
	}
}

func TestFunc(t *testing.T) {
	g := Func(func(prefix string) string { return prefix + "-fixed" })
	if got := g.Key("drawer"); got != "drawer-fixed" {
		t.Errorf("Key() = %q", got)
	}
}

func TestParse(t *testing.T) {
	for _, name := range []string{"", "uuid", "counter"} {
		if _, err := Parse(name); err != nil {
			t.Errorf("Parse(%q) error: %v", name, err)
		}
	}
	if _, err := Parse("random"); err == nil {
		t.Error("Parse() should reject unknown names")
	}
}
