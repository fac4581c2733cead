package cmd

import (
	"testing"

	"lottogen/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"config address", nil, ":9090"},
		{"flag overrides config", []string{"--addr", "127.0.0.1:7000"}, "127.0.0.1:7000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewTestConfig()
			cfg.HTTPAddr = ":9090"

			cmd := newServeCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			addr, err := cmd.Flags().GetString("addr")
			require.NoError(t, err)

			assert.Equal(t, tt.expected, listenAddr(cmd, cfg, addr))
			assert.Equal(t, ":9090", cfg.HTTPAddr, "config must stay untouched")
		})
	}
}
