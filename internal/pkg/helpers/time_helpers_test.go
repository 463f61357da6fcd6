package helpers_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/cgmis/guidance/internal/pkg/helpers"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"24h", 24 * time.Hour},
		{" 90m ", 90 * time.Minute},
		{"", time.Hour},
		{"soon", time.Hour},
		{"-5m", time.Hour},
		{"0s", time.Hour},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			qt.Assert(t, helpers.ParseDuration(test.in, time.Hour), qt.Equals, test.want)
		})
	}
}
