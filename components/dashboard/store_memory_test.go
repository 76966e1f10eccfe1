package dashboard

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryConfigStoreRoundTrip(t *testing.T) {
	store := NewInMemoryConfigStore()
	cfg := DefaultCatalog().DefaultConfig("user-1", RoleEmployee)
	if err := store.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	out, err := store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got, want := out.WidgetIDs(), cfg.WidgetIDs(); len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestInMemoryConfigStoreIsolatesCopies(t *testing.T) {
	store := NewInMemoryConfigStore()
	cfg := DefaultCatalog().DefaultConfig("user-2", RoleEmployee)
	_ = store.Save(context.Background(), cfg)
	cfg.Widgets[0].Width = 1

	out, _ := store.Load(context.Background(), "user-2")
	if out.Widgets[0].Width == 1 {
		t.Fatalf("expected stored config to be isolated from caller mutations")
	}
	out.Widgets[0].Settings["leak"] = true
	again, _ := store.Load(context.Background(), "user-2")
	if _, leaked := again.Widgets[0].Settings["leak"]; leaked {
		t.Fatalf("expected loaded config to be a copy")
	}
}

func TestInMemoryConfigStoreNotFound(t *testing.T) {
	store := NewInMemoryConfigStore()
	_, err := store.Load(context.Background(), "missing")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestInMemoryConfigStoreRequiresUserID(t *testing.T) {
	store := NewInMemoryConfigStore()
	if err := store.Save(context.Background(), UserDashboardConfig{}); err == nil {
		t.Fatalf("expected error when user id missing")
	}
}
