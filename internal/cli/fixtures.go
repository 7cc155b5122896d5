package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/snapshot"
)

func newFixturesCmd(root *rootOptions) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Manage expected schemas stored in a blob bucket",
	}
	cmd.PersistentFlags().StringVar(&url, "fixtures-url", "", "blob bucket URL, e.g. file:///srv/fixtures")

	open := func(ctx context.Context) (*snapshot.FixtureStore, error) {
		if url == "" {
			return nil, errors.New("--fixtures-url is required")
		}
		return snapshot.OpenFixtureStore(ctx, url)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Store the built-in fixtures that the bucket does not hold yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Seed(cmd.Context()); err != nil {
				return err
			}
			root.logger.WithField("bucket", url).Info("fixtures seeded")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print a fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()
			text, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snapshot.Normalize(text))
			return nil
		},
	})
	return cmd
}
