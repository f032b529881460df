package container

import (
	"context"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/keys"
	"github.com/matzehuels/waypoint/pkg/nav"
	"github.com/matzehuels/waypoint/pkg/observability"
	"github.com/matzehuels/waypoint/pkg/persist"
	"github.com/matzehuels/waypoint/pkg/routers"
)

// newSpec returns a tab navigator whose two screens each host a stack.
func newSpec(g keys.Generator) *Navigator {
	kg := routers.WithKeyGenerator(g)
	return &Navigator{
		Router: routers.NewTabRouter(kg),
		Config: routers.Config{RouteNames: []string{"Home", "Settings"}},
		Children: map[string]*Navigator{
			"Home": {
				Router: routers.NewStackRouter(kg),
				Config: routers.Config{RouteNames: []string{"Feed", "Article"}},
			},
			"Settings": {
				Router: routers.NewStackRouter(kg),
				Config: routers.Config{RouteNames: []string{"Prefs", "About"}},
			},
		},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()
	c, err := New(newSpec(keys.NewCounter()), append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Resolve(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	return c
}

func dispatch(t *testing.T, c *Container, a nav.Action) bool {
	t.Helper()
	handled, err := c.Dispatch(context.Background(), a)
	if err != nil {
		t.Fatalf("Dispatch(%s) error: %v", a, err)
	}
	if handled {
		if err := nav.ValidateTree(c.State()); err != nil {
			t.Fatalf("Dispatch(%s) left an invalid tree: %v", a, err)
		}
	}
	return handled
}

func leafName(t *testing.T, s *nav.State) string {
	t.Helper()
	r, ok := s.FocusedLeaf()
	if !ok {
		t.Fatal("tree has no focused leaf")
	}
	return r.Name
}

func TestNavigatorValidate(t *testing.T) {
	good := newSpec(keys.NewCounter())
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	tests := []struct {
		name string
		spec *Navigator
	}{
		{"nil", nil},
		{"no router", &Navigator{Config: routers.Config{RouteNames: []string{"A"}}}},
		{"bad config", &Navigator{Router: routers.NewStackRouter()}},
		{"unknown child", &Navigator{
			Router:   routers.NewStackRouter(),
			Config:   routers.Config{RouteNames: []string{"A"}},
			Children: map[string]*Navigator{"B": good},
		}},
		{"bad child", &Navigator{
			Router:   routers.NewStackRouter(),
			Config:   routers.Config{RouteNames: []string{"A"}},
			Children: map[string]*Navigator{"A": {Router: routers.NewTabRouter()}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.spec); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestResolveInitial(t *testing.T) {
	c := newContainer(t)
	root := c.State()

	if root.Type != routers.TypeTab || root.Key != "tab-3" {
		t.Errorf("root = %s %q, want tab tab-3", root.Type, root.Key)
	}
	home := root.Routes[0].State
	if home == nil || home.Type != routers.TypeStack || !slices.Equal(home.Names(), []string{"Feed"}) {
		t.Fatalf("home stack not mounted: %+v", home)
	}
	if root.Routes[1].State != nil {
		t.Error("unfocused navigator mounted eagerly")
	}
}

func TestDispatchBeforeResolve(t *testing.T) {
	c, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Dispatch(context.Background(), routers.GoBack()); !errors.Is(err, errors.ErrCodeNotInitialized) {
		t.Errorf("Dispatch() error = %v, want NOT_INITIALIZED", err)
	}
	if c.CanGoBack() {
		t.Error("CanGoBack() before resolve")
	}
}

func TestDispatchInnermostFirst(t *testing.T) {
	c := newContainer(t)
	before := c.State()

	if !dispatch(t, c, routers.Push("Article", nil)) {
		t.Fatal("push not handled")
	}
	after := c.State()
	if after == before {
		t.Fatal("root not replaced")
	}
	if got := after.Routes[0].State.Names(); !slices.Equal(got, []string{"Feed", "Article"}) {
		t.Errorf("home stack = %v", got)
	}
	if after.Key != before.Key || after.Index != before.Index {
		t.Error("ancestor changed beyond the replaced subtree")
	}
	if got := before.Routes[0].State.Names(); !slices.Equal(got, []string{"Feed"}) {
		t.Errorf("previous tree mutated: %v", got)
	}
}

func TestDispatchBubblesOutward(t *testing.T) {
	c := newContainer(t)

	// The home stack cannot handle Settings, the tab can.
	if !dispatch(t, c, routers.Navigate("Settings", nil)) {
		t.Fatal("navigate not handled")
	}
	root := c.State()
	if got := leafName(t, root); got != "Prefs" {
		t.Errorf("focused leaf = %q, want Prefs", got)
	}
	if root.Routes[1].State == nil {
		t.Fatal("settings stack not mounted on focus")
	}

	// Settings stack is at its root, so GO_BACK falls through to tab history.
	if !dispatch(t, c, routers.GoBack()) {
		t.Fatal("back not handled")
	}
	if got := leafName(t, c.State()); got != "Feed" {
		t.Errorf("focused leaf = %q, want Feed", got)
	}
}

func TestDispatchUnhandled(t *testing.T) {
	var got []nav.Action
	hooks := &recordingHooks{}
	observability.SetNavigationHooks(hooks)
	defer observability.Reset()

	c := newContainer(t, WithOnUnhandledAction(func(a nav.Action) { got = append(got, a) }))
	before := c.State()

	notified := 0
	c.Subscribe(func(*nav.State) { notified++ })

	action := routers.GoBack()
	if dispatch(t, c, action) {
		t.Fatal("back at the initial screen handled")
	}
	if len(got) != 1 || got[0].Type != action.Type {
		t.Errorf("unhandled callback got %v", got)
	}
	if hooks.unhandled != 1 {
		t.Errorf("OnUnhandled called %d times", hooks.unhandled)
	}
	if c.State() != before || notified != 0 {
		t.Error("unhandled action changed or published state")
	}
}

func TestDispatchTargetPinning(t *testing.T) {
	c := newContainer(t)
	dispatch(t, c, routers.JumpTo("Settings", nil))
	dispatch(t, c, routers.JumpTo("Home", nil))

	root := c.State()
	home, settings := root.Routes[0].State, root.Routes[1].State

	// Only the targeted subtree is rewritten.
	if !dispatch(t, c, routers.SetParams(nav.Params{"theme": "dark"}).WithTarget(settings.Key)) {
		t.Fatal("targeted set params not handled")
	}
	next := c.State()
	if next.Routes[0].State != home {
		t.Error("sibling subtree not shared")
	}
	if next.Routes[1].State == settings || next.Routes[1].State.Routes[0].Params["theme"] != "dark" {
		t.Error("targeted subtree not updated")
	}
	if next.Index != 0 {
		t.Error("set params changed focus")
	}

	// The settings stack cannot go back; the tab could, but the target pins it.
	if dispatch(t, c, routers.GoBack().WithTarget(settings.Key)) {
		t.Error("pinned action fell back to an ancestor")
	}
	if dispatch(t, c, routers.PopToTop().WithTarget("missing")) {
		t.Error("action for unknown target handled")
	}

	// Focus-changing actions focus the targeted navigator.
	if !dispatch(t, c, routers.Push("About", nil).WithTarget(settings.Key)) {
		t.Fatal("targeted push not handled")
	}
	if got := leafName(t, c.State()); got != "About" {
		t.Errorf("focused leaf = %q, want About", got)
	}
	if c.State().Routes[0].State != home {
		t.Error("sibling subtree not shared after focus change")
	}
}

func TestDispatchTargetNestedTab(t *testing.T) {
	kg := routers.WithKeyGenerator(keys.NewCounter())
	spec := &Navigator{
		Router: routers.NewTabRouter(kg),
		Config: routers.Config{RouteNames: []string{"Home", "Settings"}},
		Children: map[string]*Navigator{
			"Home": {
				Router: routers.NewStackRouter(kg),
				Config: routers.Config{RouteNames: []string{"Feed", "Article"}},
			},
			"Settings": {
				Router: routers.NewTabRouter(kg),
				Config: routers.Config{RouteNames: []string{"Account", "Appearance"}},
			},
		},
	}
	c, err := New(spec, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Resolve(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	dispatch(t, c, routers.Push("Article", nil))
	dispatch(t, c, routers.JumpTo("Settings", nil))
	dispatch(t, c, routers.JumpTo("Home", nil))

	before := c.State()
	home, inner := before.Routes[0].State, before.Routes[1].State
	account := inner.Routes[0]

	if !dispatch(t, c, routers.JumpTo("Appearance", nil).WithTarget(inner.Key)) {
		t.Fatal("targeted jump not handled")
	}
	after := c.State()
	if after.Routes[0].State != home {
		t.Error("sibling stack not shared")
	}
	next := after.Routes[1].State
	if next == inner || next.Key != inner.Key || next.Index != 1 {
		t.Errorf("nested tab = %+v", next)
	}
	if next.Routes[0].Key != account.Key || next.Routes[0].State != account.State {
		t.Error("sibling tab entry changed")
	}
	if inner.Index != 0 {
		t.Error("previous tree mutated")
	}
	if got := leafName(t, after); got != "Appearance" {
		t.Errorf("focused leaf = %q, want Appearance", got)
	}
}

func TestDispatchOffFocusedPath(t *testing.T) {
	c := newContainer(t)
	dispatch(t, c, routers.JumpTo("Settings", nil))
	dispatch(t, c, routers.Push("About", nil))
	dispatch(t, c, routers.JumpTo("Home", nil))
	settings := c.State().Routes[1].State

	// Actions that name no route stay on the focused path.
	if dispatch(t, c, routers.Pop(1)) {
		t.Error("pop reached an unfocused stack")
	}
	if c.State().Routes[1].State != settings {
		t.Error("unfocused stack changed")
	}

	// Neither the home stack nor the tab knows About; the mounted settings
	// stack does.
	if !dispatch(t, c, routers.Navigate("About", nil)) {
		t.Fatal("navigate to a screen in a sibling subtree not handled")
	}
	root := c.State()
	if root.Index != 1 {
		t.Errorf("root index = %d, want 1", root.Index)
	}
	if got := leafName(t, root); got != "About" {
		t.Errorf("focused leaf = %q, want About", got)
	}
	if got := root.Routes[1].State.Names(); !slices.Equal(got, []string{"Prefs", "About"}) {
		t.Errorf("settings stack = %v", got)
	}

	if dispatch(t, c, routers.Navigate("Nowhere", nil)) {
		t.Error("navigate to an unknown screen handled")
	}
}

func TestRestoredKeysStayUnique(t *testing.T) {
	c, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	// Keys a restarted counter hands out next are already in the saved stack.
	partial := &nav.State{
		Stale: true,
		Routes: []nav.Route{
			{Name: "Home", Key: "Home-1", State: &nav.State{
				Stale: true,
				Routes: []nav.Route{
					{Name: "Feed", Key: "Article-3"},
					{Name: "Article", Key: "Article-4"},
					{Name: "Article", Key: "Article-5"},
				},
			}},
			{Name: "Settings", Key: "Settings-2"},
		},
	}
	if _, err := c.Resolve(context.Background(), partial); err != nil {
		t.Fatal(err)
	}

	if !dispatch(t, c, routers.Push("Article", nil)) {
		t.Fatal("push not handled")
	}
	if !dispatch(t, c, routers.Push("Feed", nil)) {
		t.Fatal("push not handled")
	}
	if got := len(c.State().Routes[0].State.Routes); got != 5 {
		t.Errorf("home stack has %d routes, want 5", got)
	}
}

func TestCanGoBack(t *testing.T) {
	c := newContainer(t)
	if c.CanGoBack() {
		t.Error("CanGoBack() at initial screen")
	}
	dispatch(t, c, routers.Push("Article", nil))
	if !c.CanGoBack() {
		t.Error("CanGoBack() false with a pushed screen")
	}
}

func TestTransactionGuard(t *testing.T) {
	c := newContainer(t)
	ctx := context.Background()

	var inner error
	var escaped *Transaction
	err := c.PerformTransaction(ctx, func(tx *Transaction) error {
		escaped = tx
		inner = c.PerformTransaction(ctx, func(*Transaction) error { return nil })
		if !c.InTransaction() {
			t.Error("InTransaction() false inside a transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, errors.ErrCodeTransactionActive) {
		t.Errorf("nested transaction error = %v, want TRANSACTION_ACTIVE", inner)
	}
	if err := escaped.SetState(c.State()); !errors.Is(err, errors.ErrCodeNoTransaction) {
		t.Errorf("SetState after completion = %v, want NO_TRANSACTION", err)
	}
	if c.InTransaction() {
		t.Error("guard not released")
	}
}

func TestTransactionRejectsInvalidState(t *testing.T) {
	c := newContainer(t)
	err := c.PerformTransaction(context.Background(), func(tx *Transaction) error {
		return tx.SetState(&nav.State{Key: "x"})
	})
	if !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("error = %v, want INVALID_STATE", err)
	}
}

func TestListenerReentrancy(t *testing.T) {
	c := newContainer(t)
	var reentrant error
	c.Subscribe(func(*nav.State) {
		_, reentrant = c.Dispatch(context.Background(), routers.GoBack())
	})

	dispatch(t, c, routers.Push("Article", nil))
	if !errors.Is(reentrant, errors.ErrCodeTransactionActive) {
		t.Errorf("dispatch from listener = %v, want TRANSACTION_ACTIVE", reentrant)
	}
}

func TestSubscribeOrder(t *testing.T) {
	c := newContainer(t)
	var seen []int
	unsubscribe := c.Subscribe(func(s *nav.State) {
		seen = append(seen, len(s.Routes[0].State.Routes))
	})

	for range 3 {
		dispatch(t, c, routers.Push("Article", nil))
	}
	unsubscribe()
	dispatch(t, c, routers.Push("Article", nil))

	if !slices.Equal(seen, []int{2, 3, 4}) {
		t.Errorf("listener saw depths %v, want [2 3 4]", seen)
	}
}

func TestResolvePartial(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetNavigationHooks(hooks)
	defer observability.Reset()

	c, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	settings := &nav.State{Stale: true, Type: "stack", Routes: []nav.Route{{Name: "About"}}}
	partial := &nav.State{
		Stale: true,
		Type:  "tab",
		Routes: []nav.Route{
			{Name: "Home", Key: "h", State: &nav.State{
				Stale:  true,
				Type:   "stack",
				Routes: []nav.Route{{Name: "Feed", Key: "f"}, {Name: "Gone"}, {Name: "Article", Key: "a"}},
			}},
			{Name: "Settings", Key: "s", State: settings},
			{Name: "Legacy"},
		},
	}

	root, err := c.Resolve(context.Background(), partial)
	if err != nil {
		t.Fatal(err)
	}
	if err := nav.ValidateTree(root); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
	if got := root.Names(); !slices.Equal(got, []string{"Home", "Settings"}) {
		t.Errorf("root names = %v", got)
	}
	home := root.Routes[0].State
	if home.Stale || !slices.Equal(home.Names(), []string{"Feed", "Article"}) || home.Routes[1].Key != "a" {
		t.Errorf("home stack = %+v", home)
	}
	if root.Routes[1].State != settings {
		t.Error("unfocused stale subtree was touched")
	}
	if hooks.rehydrated != 2 || hooks.recovered != 0 {
		t.Errorf("rehydrate hooks = %d/%d, want 2/0", hooks.rehydrated, hooks.recovered)
	}
}

func TestResolveRecoversCorruptSubtree(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetNavigationHooks(hooks)
	defer observability.Reset()

	c, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	partial := &nav.State{
		Stale: true,
		Type:  "tab",
		Routes: []nav.Route{
			{Name: "Home", Key: "h", State: &nav.State{Stale: true, Type: "drawer", Routes: []nav.Route{{Name: "Feed"}}}},
		},
	}
	root, err := c.Resolve(context.Background(), partial)
	if err != nil {
		t.Fatal(err)
	}
	if root.Routes[0].Key != "h" {
		t.Error("healthy parent was replaced")
	}
	home := root.Routes[0].State
	if home.Type != routers.TypeStack || !slices.Equal(home.Names(), []string{"Feed"}) {
		t.Errorf("corrupt subtree not replaced: %+v", home)
	}
	if hooks.recovered != 1 {
		t.Errorf("recovered = %d, want 1", hooks.recovered)
	}
}

func TestResetRoot(t *testing.T) {
	c := newContainer(t)
	dispatch(t, c, routers.Push("Article", nil))

	root, err := c.ResetRoot(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := leafName(t, root); got != "Feed" {
		t.Errorf("leaf after reset = %q", got)
	}
	if c.State() != root {
		t.Error("ResetRoot did not commit")
	}
}

func TestPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStore()

	c := newContainer(t, WithStore(store, "main"))
	dispatch(t, c, routers.Push("Article", nav.Params{"id": 7}))
	want := c.State().Routes[0].State

	c2, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()), WithStore(store, "main"))
	if err != nil {
		t.Fatal(err)
	}
	restored, err := c2.Restore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !restored {
		t.Fatal("Restore() found nothing")
	}
	got := c2.State().Routes[0].State
	if !slices.Equal(got.Names(), want.Names()) || got.Routes[1].Key != want.Routes[1].Key {
		t.Errorf("restored %v %q, want %v %q", got.Names(), got.Routes[1].Key, want.Names(), want.Routes[1].Key)
	}

	empty, err := New(newSpec(keys.NewCounter()), WithLogger(quietLogger()), WithStore(persist.NewMemoryStore(), "main"))
	if err != nil {
		t.Fatal(err)
	}
	if restored, err := empty.Restore(ctx); err != nil || restored {
		t.Errorf("Restore() on empty store = %v, %v", restored, err)
	}
	if empty.State() == nil {
		t.Error("Restore() without stored state did not resolve")
	}
}

func TestReconfigure(t *testing.T) {
	c := newContainer(t)
	dispatch(t, c, routers.Push("Article", nil))
	feedKey := c.State().Routes[0].State.Routes[0].Key

	spec := newSpec(keys.NewCounter())
	spec.Children["Home"].Config.RouteNames = []string{"Feed", "Search"}

	root, err := c.Reconfigure(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	home := root.Routes[0].State
	if !slices.Equal(home.Names(), []string{"Feed"}) || home.Routes[0].Key != feedKey {
		t.Errorf("home after reconfigure = %v %q", home.Names(), home.Routes[0].Key)
	}
	if c.Spec() != spec {
		t.Error("spec not swapped")
	}
	if !dispatch(t, c, routers.Push("Search", nil)) {
		t.Error("new route not usable after reconfigure")
	}

	bad := &Navigator{Router: routers.NewStackRouter()}
	if _, err := c.Reconfigure(context.Background(), bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Reconfigure(invalid) = %v", err)
	}
}

func TestQueueSerializesProducers(t *testing.T) {
	c := newContainer(t)
	q := c.NewQueue(4)
	ctx := context.Background()

	const producers = 20
	var wg sync.WaitGroup
	errs := make(chan error, producers)
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handled, err := q.Dispatch(ctx, routers.Push("Article", nil))
			if err == nil && !handled {
				err = errors.New(errors.ErrCodeInternal, "push not handled")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("queued dispatch: %v", err)
		}
	}

	if err := q.Post(ctx, routers.PopToTop()); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if q.Processed() != producers+1 {
		t.Errorf("Processed() = %d, want %d", q.Processed(), producers+1)
	}
	if got := c.State().Routes[0].State.Names(); !slices.Equal(got, []string{"Feed"}) {
		t.Errorf("stack after pop to top = %v", got)
	}
	if _, err := q.Dispatch(ctx, routers.GoBack()); err == nil {
		t.Error("dispatch on closed queue succeeded")
	}
}

func TestQueueDo(t *testing.T) {
	c := newContainer(t)
	q := c.NewQueue(0)
	ctx := context.Background()
	defer q.Close(ctx)

	dispatch(t, c, routers.Push("Article", nil))
	err := q.Do(ctx, func(ctx context.Context) error {
		_, err := c.ResetRoot(ctx, nil)
		return err
	})
	if err != nil {
		t.Fatalf("Do(ResetRoot) error: %v", err)
	}
	if got := leafName(t, c.State()); got != "Feed" {
		t.Errorf("leaf after reset = %q, want Feed", got)
	}

	// Errors from fn come back unchanged.
	err = q.Do(ctx, func(ctx context.Context) error {
		_, err := c.Dispatch(ctx, routers.GoBack())
		if err != nil {
			return err
		}
		return c.PerformTransaction(ctx, func(*Transaction) error { return nil })
	})
	if err != nil {
		t.Errorf("Do returned %v", err)
	}
	err = q.Do(ctx, func(ctx context.Context) error {
		return c.PerformTransaction(ctx, func(*Transaction) error {
			return c.PerformTransaction(ctx, func(*Transaction) error { return nil })
		})
	})
	if !errors.Is(err, errors.ErrCodeTransactionActive) {
		t.Errorf("nested transaction via Do = %v, want TRANSACTION_ACTIVE", err)
	}
	if q.Processed() != 3 {
		t.Errorf("Processed() = %d, want 3", q.Processed())
	}
}

type recordingHooks struct {
	observability.NoopNavigationHooks
	mu         sync.Mutex
	unhandled  int
	rehydrated int
	recovered  int
}

func (h *recordingHooks) OnUnhandled(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unhandled++
}

func (h *recordingHooks) OnRehydrate(_ context.Context, _ string, recovered bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if recovered {
		h.recovered++
		return
	}
	h.rehydrated++
}
