package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envIgnoredFlags are never read from the environment.
var envIgnoredFlags = []string{"help", "version"}

// bindEnvVars binds COMPASS_<FLAG_NAME> environment variables to the flags
// of cmd and all of its subcommands, e.g. "log-level" reads
// $COMPASS_LOG_LEVEL. Flags set on the command line win over the
// environment, which wins over defaults. Flag usage strings are updated to
// name their variable.
func bindEnvVars(cmd *cobra.Command) {
	visit := func(flag *pflag.Flag) {
		if slices.Contains(envIgnoredFlags, flag.Name) {
			return
		}

		bindFlagToEnv(flag)
	}

	cmd.Flags().VisitAll(visit)
	cmd.PersistentFlags().VisitAll(visit)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// The default is kept.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.Any("error", err),
		)
	}
}

func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}
