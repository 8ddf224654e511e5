package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration profiles",
	}

	cmd.AddCommand(newConfigViewCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUseProfileCmd())
	return cmd
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				fmt.Fprintln(os.Stdout, "No configuration file found.")
				return nil
			}
			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			name := cfg.CurrentProfile
			if profileOverride != "" {
				name = profileOverride
			}
			p := cfg.ActiveProfile(profileOverride)

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]interface{}{
					"profile":  name,
					"host":     p.Host,
					"output":   p.Output,
					"database": p.Database,
					"token":    maskToken(p.Token),
				})
			}
			PrintDetail(os.Stdout, map[string]interface{}{
				"profile":  name,
				"host":     p.Host,
				"output":   p.Output,
				"database": p.Database,
				"token":    maskToken(p.Token),
			})
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		host     string
		output   string
		database string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update fields on the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("host") && !cmd.Flags().Changed("output") && !cmd.Flags().Changed("database") {
				return fmt.Errorf("nothing to set: pass --host, --output, or --database")
			}
			if cmd.Flags().Changed("output") {
				if err := validateOutputFormat(output); err != nil {
					return err
				}
			}
			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			return updateActiveProfile(profileOverride, func(p *Profile) {
				if cmd.Flags().Changed("host") {
					p.Host = trimBaseURL(host)
				}
				if cmd.Flags().Changed("output") {
					p.Output = output
				}
				if cmd.Flags().Changed("database") {
					p.Database = database
				}
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "API host URL")
	cmd.Flags().StringVar(&output, "output", "", "Default output format")
	cmd.Flags().StringVar(&database, "database", "", "Default database ID")
	return cmd
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			cfg.CurrentProfile = args[0]
			if _, ok := cfg.Profiles[args[0]]; !ok {
				cfg.Profiles[args[0]] = Profile{}
			}
			if err := SaveUserConfig(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Switched to profile %q\n", args[0])
			return nil
		},
	}
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
