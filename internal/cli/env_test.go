package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/compass/internal/cli"
)

//nolint:paralleltest // We need to set environment variables, so run tests sequentially.
func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars      map[string]string
		wantLevel    string
		wantStandard string
		wantOutput   string
		args         []string
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"COMPASS_LOG_LEVEL": "debug",
				"COMPASS_STANDARD":  "GDPR",
				"COMPASS_OUTPUT":    "json",
			},
			wantLevel:    "debug",
			wantStandard: "GDPR",
			wantOutput:   "json",
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"COMPASS_LOG_LEVEL": "debug",
				"COMPASS_STANDARD":  "GDPR",
			},
			args:         []string{"--log-level", "error", "--standard", "Basel III"},
			wantLevel:    "error",
			wantStandard: "Basel III",
		},
		"no environment variables uses defaults": {
			wantLevel: "info",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			root := cli.NewRootCmd()

			cmd, _, err := root.Find([]string{"evaluate"})
			require.NoError(t, err)

			err = cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, logLevel)

			std, err := cmd.Flags().GetString("standard")
			require.NoError(t, err)
			assert.Equal(t, tc.wantStandard, std)

			output, err := cmd.Flags().GetString("output")
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutput, output)
		})
	}
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCmd()

	logLevelFlag := root.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$COMPASS_LOG_LEVEL")

	configFlag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$COMPASS_CONFIG")

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	addrFlag := serve.Flags().Lookup("addr")
	require.NotNil(t, addrFlag)
	assert.Contains(t, addrFlag.Usage, "$COMPASS_ADDR")
}
