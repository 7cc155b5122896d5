// Package cli implements the sdlkit command line.
package cli

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/internal/logging"
)

// ErrVerificationFailed is returned by verify when at least one case failed.
var ErrVerificationFailed = errors.New("verification failed")

// Exit codes returned by ExitCode.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitError  = 2
)

// ExitCode maps an error returned by the root command to a process exit code:
// 1 when a case failed verification, 2 for every other error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrVerificationFailed):
		return ExitFailed
	default:
		return ExitError
	}
}

type rootOptions struct {
	verbose bool
	logger  *logrus.Logger
}

// NewRootCmd returns the root command for the sdlkit CLI
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "sdlkit",
		Short:         "Generate, verify and introspect GraphQL schemas",
		Long:          "sdlkit verifies that a schema generator produces a fixed SDL snapshot for a hello world project, and fetches SDL from running GraphQL servers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = logging.New(cmd.ErrOrStderr(), opts.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newVerifyCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newIntrospectCmd(opts))
	rootCmd.AddCommand(newFixturesCmd(opts))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}
