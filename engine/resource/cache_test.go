package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shaderStub struct {
	source string
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	c := NewCache("shader", &shaderStub{source: "default"})

	calls := 0
	factory := func() (*shaderStub, error) {
		calls++
		return &shaderStub{source: "paddle"}, nil
	}

	first, created, err := c.GetOrCreate("paddle_shader", factory)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := c.GetOrCreate("paddle_shader", factory)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Same(t, first, second)
	assert.Same(t, first, c.Fetch("paddle_shader"))
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateFactoryErrorInsertsNothing(t *testing.T) {
	c := NewCache[*shaderStub]("shader", nil)
	boom := errors.New("boom")

	_, _, err := c.GetOrCreate("broken", func() (*shaderStub, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.False(t, c.Has("broken"))
}

func TestFetchMissingPanicsWithKey(t *testing.T) {
	c := NewCache[*shaderStub]("pipeline", nil)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)

		var missing *MissingError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "Ball_pipeline", missing.Key)
		assert.Contains(t, err.Error(), `pipeline "Ball_pipeline" not found`)
	}()
	c.Fetch("Ball_pipeline")
}

func TestFetchDefaultNeverFails(t *testing.T) {
	fallback := &shaderStub{source: "default"}
	c := NewCache("shader", fallback)

	assert.Same(t, fallback, c.FetchDefault())
	assert.Same(t, fallback, c.Fetch(DefaultKey))
}

func TestSetIsLastWriteWins(t *testing.T) {
	c := NewCache[*shaderStub]("shader", nil)

	old := &shaderStub{source: "v1"}
	assert.False(t, c.Set("walker_shader", old))

	held := c.Fetch("walker_shader")

	replacement := &shaderStub{source: "v2"}
	assert.True(t, c.Set("walker_shader", replacement))

	assert.Same(t, replacement, c.Fetch("walker_shader"))
	assert.Equal(t, "v1", held.source)
}

func TestKeysSorted(t *testing.T) {
	c := NewCache("model", 0)
	c.Set("b", 2)
	c.Set("a", 1)

	assert.Equal(t, []string{"a", "b", DefaultKey}, c.Keys())
	assert.Equal(t, 3, c.Len())
}
