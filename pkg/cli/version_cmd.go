package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]string{"version": version, "commit": commit})
			}
			fmt.Fprintf(os.Stdout, "qpulse %s (%s)\n", version, commit)
			return nil
		},
	}
}
