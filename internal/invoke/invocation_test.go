package invoke

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvocation_Argv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		inv  Invocation
		want []string
	}{
		{
			name: "bare subcommand",
			inv:  Invocation{Subcommand: "init"},
			want: []string{"--json", "init"},
		},
		{
			name: "positional argument",
			inv:  Invocation{Subcommand: "get", Args: []string{"db-url"}},
			want: []string{"--json", "get", "db-url"},
		},
		{
			name: "flag after positionals",
			inv:  Invocation{Subcommand: "store", Args: []string{"db-url"}, Flags: []string{"--force"}},
			want: []string{"--json", "store", "db-url", "--force"},
		},
		{
			name: "flag with value",
			inv:  Invocation{Subcommand: "list", Flags: []string{"--scope", "ci"}},
			want: []string{"--json", "list", "--scope", "ci"},
		},
		{
			name: "trailing command after separator",
			inv: Invocation{
				Subcommand: "run",
				Flags:      []string{"--scope", "ci"},
				Trailing:   []string{"env", "-0"},
			},
			want: []string{"--json", "run", "--scope", "ci", "--", "env", "-0"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.inv.Argv())
		})
	}
}

func TestInvocation_PayloadNeverInArgv(t *testing.T) {
	t.Parallel()

	inv := Invocation{
		Subcommand: "store",
		Args:       []string{"db-url"},
		Flags:      []string{"--force"},
		Stdin:      "postgres://localhost/mydb",
	}

	for _, arg := range inv.Argv() {
		assert.NotContains(t, arg, "postgres://localhost/mydb")
	}
}
