package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"

	"github.com/mamaso/azure-mobile-apps-go-client/internal/config"
	"github.com/mamaso/azure-mobile-apps-go-client/mobileservice"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help requested", pflag.ErrHelp, exitOK},
		{"not configured", config.ErrNotConfigured, exitAuth},
		{"unauthorized", &mobileservice.StatusError{StatusCode: 401}, exitAuth},
		{"forbidden", &mobileservice.StatusError{StatusCode: 403}, exitForbidden},
		{"not found", &mobileservice.StatusError{StatusCode: 404}, exitNotFound},
		{"server error", &mobileservice.StatusError{StatusCode: 503}, exitServer},
		{"client error", &mobileservice.StatusError{StatusCode: 409}, exitGeneric},
		{"wrapped status error", fmt.Errorf("read: %w", &mobileservice.StatusError{StatusCode: 404}), exitNotFound},
		{"transport error", &mobileservice.TransportError{Err: errors.New("refused")}, exitNetwork},
		{"usage error", errors.New("unknown flag: --bogus"), exitUsage},
		{"generic error", errors.New("boom"), exitGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
