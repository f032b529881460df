package routers

import (
	"slices"
	"testing"

	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
)

func newTabs(t *testing.T, back BackBehavior) (*TabRouter, *nav.State) {
	t.Helper()
	r := NewTabRouter(WithKeyGenerator(keys.NewCounter()), WithBackBehavior(back))
	s, err := r.GetInitialState(tabsConfig())
	if err != nil {
		t.Fatal(err)
	}
	mustValid(t, s)
	return r, s
}

func historyKeys(s *nav.State) []string {
	out := make([]string, 0, len(s.History))
	for _, h := range s.History {
		if h.Type == nav.HistoryDrawer {
			out = append(out, "<drawer>")
			continue
		}
		out = append(out, h.Key)
	}
	return out
}

func TestTabInitialState(t *testing.T) {
	_, s := newTabs(t, BackHistory)

	wantKeys := []string{"Home-1", "Search-2", "Profile-3"}
	for i, r := range s.Routes {
		if r.Key != wantKeys[i] {
			t.Errorf("route %d key = %q, want %q", i, r.Key, wantKeys[i])
		}
	}
	if s.Key != "tab-4" || s.Type != TypeTab || s.Index != 0 {
		t.Errorf("navigator = %q/%q index %d", s.Key, s.Type, s.Index)
	}
	if got := historyKeys(s); !slices.Equal(got, []string{"Home-1"}) {
		t.Errorf("history = %v", got)
	}

	r := NewTabRouter(WithBackBehavior(BackInitialRoute))
	cfg := tabsConfig()
	cfg.InitialRouteName = "Search"
	s, err := r.GetInitialState(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := focusedName(t, s); got != "Search" {
		t.Errorf("focused = %q, want Search", got)
	}
}

func TestTabHistoryOrder(t *testing.T) {
	r, s := newTabs(t, BackHistory)
	cfg := tabsConfig()

	s = apply(t, r, s, cfg, JumpTo("Search", nil), JumpTo("Profile", nil))
	if got := historyKeys(s); !slices.Equal(got, []string{"Home-1", "Search-2", "Profile-3"}) {
		t.Fatalf("history = %v", got)
	}

	s = apply(t, r, s, cfg, GoBack())
	if got := focusedName(t, s); got != "Search" {
		t.Errorf("after first back focused = %q, want Search", got)
	}
	s = apply(t, r, s, cfg, GoBack())
	if got := focusedName(t, s); got != "Home" {
		t.Errorf("after second back focused = %q, want Home", got)
	}
	if r.GetStateForAction(s, GoBack(), cfg) != nil {
		t.Error("back with a single history entry handled")
	}
}

func TestTabHistoryMovesToEnd(t *testing.T) {
	r, s := newTabs(t, BackHistory)
	cfg := tabsConfig()

	s = apply(t, r, s, cfg, JumpTo("Search", nil), JumpTo("Profile", nil), JumpTo("Home", nil), JumpTo("Search", nil))
	if got := historyKeys(s); !slices.Equal(got, []string{"Profile-3", "Home-1", "Search-2"}) {
		t.Errorf("history = %v", got)
	}
	if len(s.History) > len(s.Routes) {
		t.Errorf("history longer than routes: %v", historyKeys(s))
	}
}

func TestTabBackBehaviors(t *testing.T) {
	tests := []struct {
		back  BackBehavior
		jumps []string
		want  []string // focused name after each GO_BACK until unhandled
	}{
		{BackHistory, []string{"Profile", "Search"}, []string{"Profile", "Home"}},
		{BackInitialRoute, []string{"Search", "Profile"}, []string{"Home"}},
		{BackOrder, []string{"Profile"}, []string{"Search", "Home"}},
		{BackNone, []string{"Profile"}, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.back), func(t *testing.T) {
			r, s := newTabs(t, tt.back)
			cfg := tabsConfig()
			for _, name := range tt.jumps {
				s = apply(t, r, s, cfg, JumpTo(name, nil))
			}

			var got []string
			for {
				next := r.GetStateForAction(s, GoBack(), cfg)
				if next == nil {
					break
				}
				mustValid(t, next)
				got = append(got, focusedName(t, next))
				s = next
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("back sequence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTabJumpTo(t *testing.T) {
	r, s := newTabs(t, BackHistory)
	cfg := tabsConfig()

	got := apply(t, r, s, cfg, JumpTo("Profile", nav.Params{"user": "ada"}))
	if got.Index != 2 || got.Routes[2].Params["user"] != "ada" {
		t.Errorf("jump = index %d params %v", got.Index, got.Routes[2].Params)
	}
	if len(got.Routes) != len(s.Routes) {
		t.Error("jump changed the number of routes")
	}
	if s.Index != 0 || s.Routes[2].Params != nil {
		t.Error("jump mutated the input state")
	}

	byKey := apply(t, r, s, cfg, NavigateKey("Search-2", nil))
	if byKey.Index != 1 {
		t.Errorf("navigate by key index = %d, want 1", byKey.Index)
	}
	if r.GetStateForAction(s, JumpTo("Settings", nil), cfg) != nil {
		t.Error("jump to unknown tab handled")
	}
	if r.GetStateForAction(s, Push("Search", nil), cfg) != nil {
		t.Error("tab handled PUSH")
	}
}

func TestTabRouteFocus(t *testing.T) {
	r, s := newTabs(t, BackHistory)
	cfg := tabsConfig()

	got := r.GetStateForRouteFocus(s, "Profile-3", cfg)
	if got.Index != 2 {
		t.Errorf("index = %d, want 2", got.Index)
	}
	if h := historyKeys(got); !slices.Equal(h, []string{"Home-1", "Profile-3"}) {
		t.Errorf("history = %v", h)
	}
	if r.GetStateForRouteFocus(s, "Home-1", cfg) != s {
		t.Error("focusing the focused route changed the state")
	}
}

func TestTabRehydrate(t *testing.T) {
	r := NewTabRouter(WithKeyGenerator(keys.NewCounter()))
	cfg := tabsConfig()

	nested := &nav.State{Stale: true, Routes: []nav.Route{{Name: "Feed"}}}
	partial := &nav.State{
		Stale: true,
		Index: 1,
		Routes: []nav.Route{
			{Name: "Home", Key: "h", State: nested},
			{Name: "Legacy", Key: "l"},
			{Name: "Profile", Key: "p", Params: nav.Params{"user": "ada"}},
		},
		History: []nav.HistoryEntry{nav.RouteEntry("p"), nav.RouteEntry("h"), nav.RouteEntry("l")},
	}

	got, err := r.GetRehydratedState(partial, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustValid(t, got)

	if !slices.Equal(got.Names(), cfg.RouteNames) {
		t.Fatalf("names = %v, want %v", got.Names(), cfg.RouteNames)
	}
	if got.Routes[0].Key != "h" || got.Routes[2].Key != "p" || got.Routes[1].Key == "" {
		t.Errorf("keys = %v", []string{got.Routes[0].Key, got.Routes[1].Key, got.Routes[2].Key})
	}
	if got.Routes[0].State != nested {
		t.Error("nested state not carried over")
	}
	if got.Index != 0 {
		t.Errorf("focused removed route: index = %d, want initial 0", got.Index)
	}
	if h := historyKeys(got); !slices.Equal(h, []string{"p", "h"}) {
		t.Errorf("history = %v, want [p h]", h)
	}
	if got.Routes[2].Params["user"] != "ada" {
		t.Errorf("params = %v", got.Routes[2].Params)
	}
}

func TestTabRehydrateKeepsFocus(t *testing.T) {
	r := NewTabRouter(WithBackBehavior(BackOrder))
	cfg := tabsConfig()

	partial := &nav.State{
		Stale:  true,
		Index:  0,
		Routes: []nav.Route{{Name: "Profile", Key: "p"}},
	}
	got, err := r.GetRehydratedState(partial, cfg)
	if err != nil {
		t.Fatal(err)
	}
	mustValid(t, got)
	if got.Index != 2 {
		t.Errorf("index = %d, want 2 (Profile)", got.Index)
	}
	if len(got.History) != 3 {
		t.Errorf("order history = %v, want three entries", historyKeys(got))
	}
}

func TestTabRehydrateClampsIndex(t *testing.T) {
	cfg := tabsConfig()
	cfg.InitialRouteName = "Search"
	routes := []nav.Route{{Name: "Home", Key: "h"}, {Name: "Profile", Key: "p"}}

	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"in range", 0, "Home"},
		{"past the end", 9, "Profile"},
		{"negative", -3, "Home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTabRouter(WithKeyGenerator(keys.NewCounter()))
			partial := &nav.State{Stale: true, Index: tt.index, Routes: routes}
			got, err := r.GetRehydratedState(partial, cfg)
			if err != nil {
				t.Fatal(err)
			}
			mustValid(t, got)
			if name := focusedName(t, got); name != tt.want {
				t.Errorf("focused = %q, want %q", name, tt.want)
			}
		})
	}
}

func TestTabReset(t *testing.T) {
	r, s := newTabs(t, BackHistory)
	cfg := tabsConfig()

	target := &nav.State{Index: 0, Routes: []nav.Route{{Name: "Search", Key: "Search-2"}}}
	got := apply(t, r, s, cfg, Reset(target))
	if got.Key != s.Key {
		t.Errorf("reset changed navigator key")
	}
	if got := focusedName(t, got); got != "Search" {
		t.Errorf("focused = %q, want Search", got)
	}
	if !slices.Equal(got.Names(), cfg.RouteNames) {
		t.Errorf("names = %v", got.Names())
	}
}

func TestTabShouldActionChangeFocus(t *testing.T) {
	r := NewTabRouter()
	if !r.ShouldActionChangeFocus(JumpTo("Home", nil)) || !r.ShouldActionChangeFocus(Navigate("Home", nil)) {
		t.Error("JUMP_TO and NAVIGATE should change focus")
	}
	if r.ShouldActionChangeFocus(GoBack()) || r.ShouldActionChangeFocus(SetParams(nil)) {
		t.Error("GO_BACK and SET_PARAMS should not change focus")
	}
}
