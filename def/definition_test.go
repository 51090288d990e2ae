package def_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statemill/statemill/def"
)

const accountYAML = `
id: account
initial: open
states:
  open:
    on:
      deposit:
        - internal: true
      freeze:
        - target: frozen
  frozen:
    on:
      thaw:
        - target: open
triggers:
  deposit: [int]
`

func TestParse(t *testing.T) {
	d, err := def.Parse([]byte(accountYAML))
	require.NoError(t, err)

	assert.Equal(t, "account", d.ID)
	assert.Equal(t, "open", d.Initial)
	assert.Len(t, d.States, 2)
	assert.Equal(t, def.Signature{"int"}, d.Triggers["deposit"])

	open := d.States["open"]
	require.NotNil(t, open)
	require.Len(t, open.On["deposit"], 1)
	assert.True(t, open.On["deposit"][0].Internal)
	assert.Equal(t, "frozen", open.On["freeze"][0].Target)
}

func TestLoad(t *testing.T) {
	d, err := def.Load(strings.NewReader(accountYAML))
	require.NoError(t, err)
	assert.Equal(t, "account", d.ID)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := def.Parse([]byte("id: [unclosed"))
	assert.ErrorContains(t, err, "parse definition")
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing id",
			yaml:    "initial: a\nstates:\n  a:\n",
			wantErr: "machine id is required",
		},
		{
			name:    "missing initial",
			yaml:    "id: m\nstates:\n  a:\n",
			wantErr: "initial state is required",
		},
		{
			name:    "no states",
			yaml:    "id: m\ninitial: a\n",
			wantErr: "at least one state is required",
		},
		{
			name:    "unknown initial",
			yaml:    "id: m\ninitial: missing\nstates:\n  a:\n",
			wantErr: `initial state "missing" not found`,
		},
		{
			name: "unknown target",
			yaml: `
id: m
initial: a
states:
  a:
    on:
      go:
        - target: missing
`,
			wantErr: `target "missing" not found`,
		},
		{
			name: "unknown parent",
			yaml: `
id: m
initial: a
states:
  a:
    parent: missing
`,
			wantErr: `parent "missing" not found`,
		},
		{
			name: "self parent",
			yaml: `
id: m
initial: a
states:
  a:
    parent: a
`,
			wantErr: "cannot be its own parent",
		},
		{
			name: "parent cycle",
			yaml: `
id: m
initial: a
states:
  a:
    on:
      go:
        - target: b
  b:
    parent: c
  c:
    parent: b
`,
			wantErr: "circular parent relationship",
		},
		{
			name: "initial substate not a child",
			yaml: `
id: m
initial: a
states:
  a:
    initial: b
    on:
      go:
        - target: b
  b:
`,
			wantErr: `initial substate "b" is not a child`,
		},
		{
			name: "internal with target",
			yaml: `
id: m
initial: a
states:
  a:
    on:
      go:
        - target: a
          internal: true
`,
			wantErr: "internal transitions have no target",
		},
		{
			name: "ignore with target",
			yaml: `
id: m
initial: a
states:
  a:
    on:
      go:
        - target: a
          ignore: true
`,
			wantErr: "ignore excludes target and internal",
		},
		{
			name: "empty transition",
			yaml: `
id: m
initial: a
states:
  a:
    on:
      go:
        - {}
`,
			wantErr: "a target, internal, or ignore is required",
		},
		{
			name: "orphaned state",
			yaml: `
id: m
initial: a
states:
  a:
  b:
`,
			wantErr: `orphaned state "b"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := def.Parse([]byte(tc.yaml))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidateReachabilityThroughHierarchy(t *testing.T) {
	// Substates of a reachable composite are reachable, as is a parent
	// referenced only via a child.
	yaml := `
id: m
initial: leaf
states:
  root:
    initial: leaf
  leaf:
    parent: root
    on:
      go:
        - target: other
  other:
    on:
      back:
        - target: root
`
	_, err := def.Parse([]byte(yaml))
	assert.NoError(t, err)
}
