package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "http://localhost:8080"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "flag with equals",
			args:    []string{"-config=alt.json", "-a", "http://localhost:8080"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end is kept",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash-prefixed token is not a value",
			args:    []string{"-c", "-p", "basic"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "multiple allowed flags keep order",
			args:    []string{"-a", "http://api", "-c", "conf.json", "-other", "x"},
			allowed: []string{"-c", "-a"},
			want:    []string{"-a", "http://api", "-c", "conf.json"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestLookupString(t *testing.T) {
	assert.Equal(t, "b.json", LookupString([]string{"-c", "a.json", "-config", "b.json"}, "c", "config"))
	assert.Equal(t, "", LookupString([]string{"-x", "1"}, "c"))
	assert.Equal(t, "v", LookupString([]string{"-p=v", "-unknown"}, "p"))
}

func TestConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", ConfigPath())

	os.Args = []string{"testbin", "-config", "/path/long.json", "-a", "http://x"}
	assert.Equal(t, "/path/long.json", ConfigPath())

	os.Args = []string{"testbin"}
	assert.Empty(t, ConfigPath())
}
