package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.appointy.com/sdlkit/snapshot"
)

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		f   caseFlags
		dir string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the hello world project and build descriptor without building it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return errors.New("--dir is required")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}
			c, err := f.toCase()
			if err != nil {
				return err
			}
			ws, err := snapshot.OpenWorkspace(dir)
			if err != nil {
				return err
			}
			d, err := snapshot.Prepare(ws, c)
			if err != nil {
				return err
			}
			root.logger.WithField("dir", ws.Root).Debug("rendered workspace")

			files, err := listFiles(ws.Root)
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nrun: gradle %s --console=plain\n", d.TaskName)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write the project into")
	return cmd
}

func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(files)
	return files, err
}
