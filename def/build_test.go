package def_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemill/statemill"
	"github.com/statemill/statemill/def"
)

func TestBuildAndFire(t *testing.T) {
	d, err := def.Parse([]byte(accountYAML))
	require.NoError(t, err)

	m, err := d.Build()
	require.NoError(t, err)

	assert.Equal(t, "open", m.State())

	// deposit is internal and carries a typed parameter.
	require.NoError(t, m.Fire("deposit", 100))
	assert.Equal(t, "open", m.State())

	var typeErr *statemill.ParameterTypeError
	err = m.Fire("deposit", "abc")
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, 0, typeErr.Index)

	var countErr *statemill.ParameterCountError
	err = m.Fire("deposit")
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 1, countErr.Expected)
	assert.Equal(t, 0, countErr.Actual)

	require.NoError(t, m.Fire("freeze"))
	assert.Equal(t, "frozen", m.State())
	require.NoError(t, m.Fire("thaw"))
	assert.Equal(t, "open", m.State())
}

func TestBuildHierarchy(t *testing.T) {
	yaml := `
id: media
initial: stopped
states:
  stopped:
    on:
      play:
        - target: playing
  active:
    initial: playing
    on:
      stop:
        - target: stopped
  playing:
    parent: active
    on:
      pause:
        - target: paused
  paused:
    parent: active
`
	d, err := def.Parse([]byte(yaml))
	require.NoError(t, err)

	m, err := d.Build()
	require.NoError(t, err)

	require.NoError(t, m.Fire("play"))
	assert.Equal(t, "playing", m.State())
	assert.True(t, m.IsInState("active"))

	require.NoError(t, m.Fire("pause"))
	assert.Equal(t, "paused", m.State())

	// stop is inherited from the active superstate.
	require.NoError(t, m.Fire("stop"))
	assert.Equal(t, "stopped", m.State())
}

func TestBuildReentryAndIgnore(t *testing.T) {
	yaml := `
id: m
initial: a
states:
  a:
    on:
      again:
        - target: a
      noop:
        - ignore: true
`
	d, err := def.Parse([]byte(yaml))
	require.NoError(t, err)

	m, err := d.Build()
	require.NoError(t, err)

	require.NoError(t, m.Fire("again"))
	require.NoError(t, m.Fire("noop"))
	assert.Equal(t, "a", m.State())
}

func TestBuildUnknownParameterType(t *testing.T) {
	yaml := `
id: m
initial: a
states:
  a:
    on:
      go:
        - internal: true
triggers:
  go: [widget]
`
	d, err := def.Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = d.Build()
	assert.ErrorContains(t, err, `unknown parameter type "widget"`)
}

func TestBuildWithCustomRegistry(t *testing.T) {
	type orderID struct{ value string }

	yaml := `
id: m
initial: a
states:
  a:
    on:
      submit:
        - internal: true
triggers:
  submit: [orderID]
`
	d, err := def.Parse([]byte(yaml))
	require.NoError(t, err)

	registry := def.NewTypeRegistry()
	def.RegisterType[orderID](registry, "orderID")

	m, err := d.BuildWith(registry)
	require.NoError(t, err)

	require.NoError(t, m.Fire("submit", orderID{value: "o-1"}))
	assert.Error(t, m.Fire("submit", "o-1"))
}

func TestRegistryBuiltins(t *testing.T) {
	registry := def.NewTypeRegistry()

	tm, ok := registry.Lookup("time")
	require.True(t, ok)
	assert.Equal(t, statemill.TypeOf[time.Time](), tm)

	_, ok = registry.Lookup("widget")
	assert.False(t, ok)
}
