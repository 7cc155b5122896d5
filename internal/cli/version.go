package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/federation"
	"go.appointy.com/sdlkit/hooks"
	"go.appointy.com/sdlkit/snapshot"
)

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and generator defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sdlkit %s (%s)\n", version, runtime.Version())
			fmt.Fprintf(out, " - generator plugin: %s\n", snapshot.DefaultPluginVersion)
			fmt.Fprintf(out, " - federation: %s\n", federation.LinkURL)
			for _, p := range hooks.Providers() {
				fmt.Fprintf(out, " - hooks provider: %s\n", p)
			}
			return nil
		},
	}
}
