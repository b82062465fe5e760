package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	m := newModel(t, &mockStore{})
	ctx := context.Background()

	require.NoError(t, m.Dispatch(ctx, Add(product("a", "4.00"), 2)))
	require.NoError(t, m.Dispatch(ctx, Add(product("b", "1.00"), 1)))
	require.NoError(t, m.Dispatch(ctx, Increase("a")))
	assert.Equal(t, 4, m.Count())

	require.NoError(t, m.Dispatch(ctx, Decrease("a")))
	require.NoError(t, m.Dispatch(ctx, SetQuantity("b", 6)))
	assert.Equal(t, 8, m.Count())

	require.NoError(t, m.Dispatch(ctx, Remove("b")))
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.Dispatch(ctx, Clear()))
	assert.Equal(t, 0, m.Count())
}

func TestDispatch_UnknownKind(t *testing.T) {
	m := newModel(t, &mockStore{})

	err := m.Dispatch(context.Background(), Command{Kind: CommandKind(99)})
	require.ErrorContains(t, err, "unknown cart command")
	assert.Equal(t, "unknown", CommandKind(99).String())
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"3":    3,
		" 12 ": 12,
		"0":    1,
		"-2":   1,
		"abc":  1,
		"":     1,
		"2.5":  1,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseQuantity(raw), "raw %q", raw)
	}
}
