// Package cli implements the qpulse command-line interface. It talks to the
// same monitoring API as the web console and runs fetched query lists through
// the same processing pipeline, so both frontends agree on filtering, sorting,
// and pagination.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querypulse/internal/apiclient"
)

var (
	version = "dev"
	commit  = "none"
)

// tokenRef lets the root command resolve the token after flag/env/profile
// precedence while the client holds a stable TokenSource.
type tokenRef struct {
	token string
}

func (r *tokenRef) Token() string { return r.token }

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
			}
			_ = PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host     string
		token    string
		output   string
		profile  string
		database string
	)

	tokens := &tokenRef{}
	client := apiclient.New("http://localhost:8000", tokens)

	rootCmd := &cobra.Command{
		Use:           "qpulse",
		Short:         "QueryPulse CLI",
		Long:          "Command-line interface for the QueryPulse database monitoring API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}

			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("QPULSE_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("QPULSE_TOKEN"); v != "" {
					token = v
				} else if p.Token != "" {
					token = p.Token
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("QPULSE_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("QPULSE_DB"); v != "" {
					database = v
				} else if p.Database != "" {
					database = p.Database
				}
			}

			if err := validateOutputFormat(output); err != nil {
				return err
			}

			client.BaseURL = trimBaseURL(host)
			tokens.token = token
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8000", "API host URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authentication")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&database, "db", "", "Database ID to operate on")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAuthCmd(client))
	rootCmd.AddCommand(newDBCmd(client))
	rootCmd.AddCommand(newQueriesCmd(client, &database))
	rootCmd.AddCommand(newRecCmd(client))
	rootCmd.AddCommand(newHealthCmd(client))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func trimBaseURL(host string) string {
	for len(host) > 0 && host[len(host)-1] == '/' {
		host = host[:len(host)-1]
	}
	return host
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
