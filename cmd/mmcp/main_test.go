package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/thoreinstein/mmcp/internal/errors"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		want     []string
	}{
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: errors.ExitUser,
			want:     []string{"Error: boom"},
		},
		{
			name:     "system error with suggestion",
			err:      errors.Wrap(errors.NewSystemError(errors.New("disk full"), "free some space"), "executing root command"),
			wantCode: errors.ExitSystem,
			want:     []string{"Error: disk full", "Hint: free some space"},
		},
		{
			name:     "hints are listed",
			err:      errors.WithHint(errors.New("invalid configuration"), "server \"\": name is required"),
			wantCode: errors.ExitUser,
			want:     []string{"Error: invalid configuration", "  - server \"\": name is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := report(&buf, tt.err); got != tt.wantCode {
				t.Errorf("report() = %d, want %d", got, tt.wantCode)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
