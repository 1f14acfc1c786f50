package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func DocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "docs [dir]",
		Args:   cobra.MaximumNArgs(1),
		Hidden: true,
		Short:  "Generate markdown docs for the debugkb commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "./docs"
			if len(args) == 1 {
				dir = args[0]
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, "failed to create docs directory %s", dir)
			}

			return doc.GenMarkdownTree(cmd.Root(), dir)
		},
	}
	return cmd
}
