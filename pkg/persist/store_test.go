package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

func sampleTree() *nav.State {
	return &nav.State{
		Key:        "tab-1",
		Index:      1,
		RouteNames: []string{"Home", "Profile"},
		Type:       "tab",
		Routes: []nav.Route{
			{Key: "Home-2", Name: "Home"},
			{Key: "Profile-3", Name: "Profile", Params: nav.Params{"user": "ada"}, State: &nav.State{
				Key:        "stack-4",
				RouteNames: []string{"Overview"},
				Type:       "stack",
				Routes:     []nav.Route{{Key: "Overview-5", Name: "Overview"}},
			}},
		},
		History: []nav.HistoryEntry{nav.RouteEntry("Home-2"), nav.RouteEntry("Profile-3")},
	}
}

// testStore runs the behavior every Store implementation shares.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test-" + time.Now().Format("150405.000000")

	got, err := s.Load(ctx, key)
	if err != nil || got != nil {
		t.Fatalf("Load(missing) = %v, %v; want nil, nil", got, err)
	}

	tree := sampleTree()
	if err := s.Save(ctx, key, tree); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	got, err = s.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got == nil {
		t.Fatal("Load after Save missed")
	}

	if !got.Stale || !got.Routes[1].State.Stale {
		t.Error("loaded state is not stale at every level")
	}
	if got.Key != "" || got.RouteNames != nil {
		t.Errorf("loaded state kept navigator identity: key=%q names=%v", got.Key, got.RouteNames)
	}
	if got.Index != 1 || got.Routes[1].Key != "Profile-3" || got.Routes[1].Params["user"] != "ada" {
		t.Errorf("loaded state lost route data: %+v", got.Routes)
	}
	if len(got.History) != 2 {
		t.Errorf("loaded history = %v", got.History)
	}
	if tree.Stale || tree.Key != "tab-1" {
		t.Error("Save mutated its input")
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got, _ := s.Load(ctx, key); got != nil {
		t.Error("Load after Delete hit")
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if err := s.Save(ctx, "../escape", tree); !errors.Is(err, errors.ErrCodeInvalidKey) {
		t.Errorf("Save(bad key) error = %v, want INVALID_KEY", err)
	}
	if err := s.Save(ctx, key, nil); err == nil {
		t.Error("Save(nil) succeeded")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after delete", s.Len())
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "k", sampleTree()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	got, err := s.Load(ctx, "k")
	if err != nil || got != nil {
		t.Errorf("Load(expired) = %v, %v; want miss", got, err)
	}
	if _, err := os.Stat(s.Path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "k", sampleTree()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path("k"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Load(ctx, "k"); err != nil || got != nil {
		t.Errorf("Load(corrupt) = %v, %v; want miss", got, err)
	}
}

func TestFileStorePathSharding(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	p1, p2 := s.Path("alpha"), s.Path("beta")
	if p1 == p2 {
		t.Error("different keys share a path")
	}
	if s.Path("alpha") != p1 {
		t.Error("Path is not deterministic")
	}
}

func TestLocate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}

	s, err := Open(ctx, Config{Backend: BackendFile, Dir: dir, Prefix: "tenant:"})
	if err != nil {
		t.Fatal(err)
	}
	path, ok := Locate(s, "main")
	if !ok || path != fs.Path("tenant:main") {
		t.Errorf("Locate = %q, %v; want %q", path, ok, fs.Path("tenant:main"))
	}
	if err := s.Save(ctx, "main", sampleTree()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved entry not at located path: %v", err)
	}

	if _, ok := Locate(NewMemoryStore(), "main"); ok {
		t.Error("Locate found a path for a memory store")
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Save(ctx, "key", sampleTree()); err != nil {
		t.Errorf("Save error: %v", err)
	}
	if got, err := s.Load(ctx, "key"); got != nil || err != nil {
		t.Errorf("NullStore should not store data: %v, %v", got, err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestScopedStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	a, b := Scoped(inner, "user:a:"), Scoped(inner, "user:b:")

	if err := a.Save(ctx, "main", sampleTree()); err != nil {
		t.Fatal(err)
	}
	if got, _ := b.Load(ctx, "main"); got != nil {
		t.Error("scope b sees scope a's state")
	}
	if got, _ := inner.Load(ctx, "user:a:main"); got == nil {
		t.Error("inner store missing prefixed key")
	}
	if a.Unwrap() != Store(inner) {
		t.Error("Unwrap returned a different store")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Backend: BackendMemory}, false},
		{"none", Config{Backend: BackendNone}, false},
		{"file", Config{Backend: BackendFile, Dir: t.TempDir()}, false},
		{"scoped", Config{Backend: BackendMemory, Prefix: "tenant:"}, false},
		{"unknown", Config{Backend: "etcd"}, true},
		{"redis without addr", Config{Backend: BackendRedis}, true},
		{"mongo without uri", Config{Backend: BackendMongo}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("Open() code = %s, want INVALID_CONFIG", errors.GetCode(err))
				}
				return
			}
			defer s.Close()
			if tt.cfg.Backend != BackendNone {
				testStore(t, s)
			}
		})
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
