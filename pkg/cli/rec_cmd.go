package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querypulse/internal/apiclient"
	"querypulse/internal/domain"
)

func newRecCmd(client *apiclient.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rec",
		Short: "Act on optimization recommendations",
	}

	cmd.AddCommand(newRecActionCmd("apply", "Mark a recommendation as applied", client.ApplyRecommendation))
	cmd.AddCommand(newRecActionCmd("dismiss", "Dismiss a recommendation", client.DismissRecommendation))
	return cmd
}

func newRecActionCmd(verb, short string, action func(ctx context.Context, id string) (domain.Recommendation, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <recommendation-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := action(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, rec)
			}
			fmt.Fprintf(os.Stdout, "Recommendation %s is now %s\n", rec.ID, rec.Status)
			return nil
		},
	}
}
