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
			name:    "separate value kept",
			args:    []string{"-c", "conf.json", "-x", "other"},
			allowed: []string{"-c"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form kept",
			args:    []string{"--config=conf.json", "-x=1"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "-y"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag takes no value",
			args:    []string{"-c", "-x"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	old := os.Args
	t.Cleanup(func() { os.Args = old })

	os.Args = []string{"app", "-config", "conf.json", "-a", "http://x"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"app", "-c", "short.json"}
	assert.Equal(t, "short.json", JsonConfigFlags())

	os.Args = []string{"app", "-a", "http://x"}
	assert.Equal(t, "", JsonConfigFlags())
}
