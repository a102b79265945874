package widget_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopglance/cart-summary/internal/widget"
)

func newSettingsStore(t *testing.T) *widget.SettingsStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &widget.SettingsStore{Client: client}
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	store := newSettingsStore(t)
	ctx := context.Background()

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded, "missing hash loads as empty map")

	require.NoError(t, store.Save(ctx, map[string]string{
		widget.KeyTitle:     "Riepilogo Ordine",
		widget.KeyShowVat:   "yes",
		widget.KeyCartColor: "#aabbcc",
	}))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Riepilogo Ordine", loaded[widget.KeyTitle])
	assert.Equal(t, "yes", loaded[widget.KeyShowVat])

	cfg := widget.ResolveWithDefaults(loaded, nil)
	assert.True(t, cfg.ShowVat)
	assert.Equal(t, "#aabbcc", cfg.CartColor)
	assert.True(t, cfg.ShowCart, "unstored keys fall back to defaults")
}

func TestSettingsStorePartialSave(t *testing.T) {
	store := newSettingsStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{widget.KeyTitle: "First"}))
	require.NoError(t, store.Save(ctx, map[string]string{widget.KeyShowVat: "yes"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "First", loaded[widget.KeyTitle], "save replaces provided keys only")
	assert.Equal(t, "yes", loaded[widget.KeyShowVat])
}

func TestValidateSettings(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
		ok     bool
	}{
		{"empty", map[string]string{}, true},
		{"valid flags", map[string]string{widget.KeyShowCart: "yes", widget.KeyShowVat: "no"}, true},
		{"bad flag", map[string]string{widget.KeyShowCart: "maybe"}, false},
		{"valid color", map[string]string{widget.KeyTotalColor: "#e8f5e8"}, true},
		{"bad color", map[string]string{widget.KeyTotalColor: "green-ish"}, false},
		{"size in range", map[string]string{widget.KeyTitleSize: "24"}, true},
		{"size too small", map[string]string{widget.KeyTitleSize: "4"}, false},
		{"size too large", map[string]string{widget.KeyTextSize: "200"}, false},
		{"size not a number", map[string]string{widget.KeyTextSize: "big"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := widget.ValidateSettings(tc.values)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := newSettingsStore(t)
	err := store.Save(context.Background(), map[string]string{widget.KeyCartColor: "blue"})
	require.Error(t, err)

	loaded, lerr := store.Load(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, loaded, "invalid settings are not persisted")
}
