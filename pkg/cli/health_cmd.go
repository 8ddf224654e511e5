package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querypulse/internal/apiclient"
)

func newHealthCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the monitoring API is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]string{"status": "ok", "host": client.BaseURL})
			}
			fmt.Fprintf(os.Stdout, "OK: %s\n", client.BaseURL)
			return nil
		},
	}
}
