package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-m", "live", "-a", "http://x"},
			names: []string{"-m"},
			want:  []string{"-m", "live"},
		},
		{
			name:  "equals form",
			args:  []string{"-s=bolt", "-a", "http://x"},
			names: []string{"-s"},
			want:  []string{"-s=bolt"},
		},
		{
			name:  "order preserved across several flags",
			args:  []string{"-a", "http://x", "-q", "1", "-t", "3"},
			names: []string{"-t", "-a"},
			want:  []string{"-a", "http://x", "-t", "3"},
		},
		{
			name:  "unknown and positional ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-c"},
			names: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "dash-prefixed next arg is not a value",
			args:  []string{"-c", "-config=alt.json"},
			names: []string{"-c", "-config"},
			want:  []string{"-c", "-config=alt.json"},
		},
		{
			name:  "value containing equals",
			args:  []string{"-d=postgres://h/db?sslmode=disable"},
			names: []string{"-d"},
			want:  []string{"-d=postgres://h/db?sslmode=disable"},
		},
		{
			name:  "nil args",
			args:  nil,
			names: []string{"-c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/a.json", ConfigPath([]string{"-c", "/etc/a.json"}))
	assert.Equal(t, "/etc/b.json", ConfigPath([]string{"-a", ":1", "-config", "/etc/b.json"}))
	assert.Equal(t, "/etc/c.json", ConfigPath([]string{"-config=/etc/c.json"}))
	assert.Equal(t, "2.json", ConfigPath([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
	assert.Empty(t, ConfigPath(nil))
}
