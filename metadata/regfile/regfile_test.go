package regfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sirkon/mockguard/constraint"
	"github.com/sirkon/mockguard/metadata"
)

type calculator interface {
	Square(input *int) int
	Scale(factor float64, label string) string
}

const calculatorDoc = `types:
  - type: '"github.com/sirkon/mockguard/metadata/regfile".calculator'
    methods:
      - name: Square
        params: [input]
        constraints:
          - param: input
            rules: [notnull, min=0]
      - name: Scale
        constraints:
          - index: 0
            rules: [min=0.5, max=10]
          - index: 1
            rules: ['pattern="^[a-z ]+$"', lenmax=16]
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(calculatorDoc))
	require.NoError(t, err)

	target := metadata.Target[calculator]()
	require.Equal(t, []metadata.Reference{target.Reference()}, reg.Refs())

	m, err := metadata.NewExtractor(reg).Extract(target)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())

	scale, ok := m.Lookup(metadata.Signature{Name: "Scale", Params: []string{"float64", "string"}})
	require.True(t, ok)
	require.Len(t, scale.Params[0], 2)
	require.Len(t, scale.Params[1], 2)
	require.Equal(t, constraint.KindPattern, scale.Params[1][0].Kind())
	require.Equal(t, "^[a-z ]+$", scale.Params[1][0].Param())
}

func TestValidate(t *testing.T) {
	type test struct {
		name    string
		doc     string
		wantErr bool
	}

	tests := []test{
		{
			name: "valid",
			doc:  calculatorDoc,
		},
		{
			name: "empty types",
			doc:  "types: []\n",
		},
		{
			name:    "no types",
			doc:     "methods: []\n",
			wantErr: true,
		},
		{
			name:    "unquoted package",
			doc:     "types:\n  - type: shapes.Calculator\n",
			wantErr: true,
		},
		{
			name:    "method reference",
			doc:     "types:\n  - type: '\"shapes\".Calculator.Square'\n",
			wantErr: true,
		},
		{
			name: "both param and index",
			doc: `types:
  - type: '"shapes".Calculator'
    methods:
      - name: Square
        constraints:
          - param: input
            index: 0
            rules: [notnull]
`,
			wantErr: true,
		},
		{
			name: "no rules",
			doc: `types:
  - type: '"shapes".Calculator'
    methods:
      - name: Square
        constraints:
          - index: 0
            rules: []
`,
			wantErr: true,
		},
		{
			name: "unknown field",
			doc: `types:
  - type: '"shapes".Calculator'
    methods:
      - name: Square
        annotations: [notnull]
`,
			wantErr: true,
		},
		{
			name:    "not yaml",
			doc:     "types: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseBadConstraint(t *testing.T) {
	_, err := Parse([]byte(`types:
  - type: '"shapes".Calculator'
    methods:
      - name: Square
        constraints:
          - index: 0
            rules: [positive]
`))
	require.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()

	names := filepath.Join(dir, "names.yaml")
	require.NoError(t, os.WriteFile(names, []byte(`types:
  - type: '"github.com/sirkon/mockguard/metadata/regfile".calculator'
    methods:
      - name: Scale
        params: [factor, label]
`), 0o644))

	rules := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(`types:
  - type: '"github.com/sirkon/mockguard/metadata/regfile".calculator'
    methods:
      - name: Scale
        constraints:
          - param: factor
            rules: [min=1]
`), 0o644))

	reg, err := LoadAll(names, rules)
	require.NoError(t, err)

	m, err := metadata.NewExtractor(reg).Extract(metadata.Target[calculator]())
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.True(t, errors.Is(err, os.ErrNotExist), err)
}
