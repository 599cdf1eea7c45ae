package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseColors(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
		want bool
	}{
		{name: "NO_COLOR wins", env: map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, want: false},
		{name: "FORCE_COLOR on", env: map[string]string{"FORCE_COLOR": "1"}, want: true},
		{name: "FORCE_COLOR zero", env: map[string]string{"FORCE_COLOR": "0", "NARRADOR_FORCE_COLORS": "true"}, want: false},
		{name: "narrador flag", env: map[string]string{"NARRADOR_FORCE_COLORS": "true"}, want: true},
		{name: "narrador flag off", env: map[string]string{"NARRADOR_FORCE_COLORS": "false"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"NO_COLOR", "FORCE_COLOR", "NARRADOR_FORCE_COLORS"} {
				t.Setenv(key, tt.env[key])
			}
			assert.Equal(t, tt.want, ShouldUseColors())
		})
	}
}
