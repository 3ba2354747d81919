package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-k", "pepper.json",
			"-t", "60", "-n", "44",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:       "127.0.0.1:9090",
				DatabaseDSN:        "db",
				PepperFile:         "pepper.json",
				SessionTTL:         60 * time.Minute,
				DefaultCountryCode: 44,
			}},
		{name: "Test2 zero TTL disables expiry", args: []string{"cmd",
			"-t", "0",
		}, expectPanic: false,
			expected: &Config{
				SessionTTL: 0,
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Equal(t, tt.expected, config)
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
