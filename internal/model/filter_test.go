package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     FilterConfig
		wantErr bool
	}{
		{"zero config", FilterConfig{}, false},
		{"min only", FilterConfig{MinLength: 8}, false},
		{"max only", FilterConfig{MaxLength: 16}, false},
		{"min equals max", FilterConfig{MinLength: 8, MaxLength: 8}, false},
		{"negative min", FilterConfig{MinLength: -1}, true},
		{"negative max", FilterConfig{MaxLength: -1}, true},
		{"min above max", FilterConfig{MinLength: 12, MaxLength: 8}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			var invalid *InvalidFilterConfigError
			assert.True(t, errors.As(err, &invalid))
		})
	}
}
