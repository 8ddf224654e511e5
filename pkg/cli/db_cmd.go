package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"querypulse/internal/apiclient"
	"querypulse/internal/domain"
)

func newDBCmd(client *apiclient.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage monitored databases",
	}

	cmd.AddCommand(newDBListCmd(client))
	cmd.AddCommand(newDBAddCmd(client))
	cmd.AddCommand(newDBRemoveCmd(client))
	cmd.AddCommand(newDBTestCmd(client))
	cmd.AddCommand(newDBUseCmd(client))
	return cmd
}

func newDBListCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered databases",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conns, err := client.ListDatabases(cmd.Context())
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, conns)
			}
			rows := make([][]string, 0, len(conns))
			for _, c := range conns {
				rows = append(rows, []string{
					c.ID,
					c.Name,
					string(c.Type),
					c.Host + ":" + strconv.Itoa(c.Port),
					c.DatabaseName,
					c.ConnectionStatus,
				})
			}
			PrintTable(os.Stdout, []string{"id", "name", "type", "host", "database", "status"}, rows)
			return nil
		},
	}
}

func connectionFlags(cmd *cobra.Command, nc *domain.NewConnection) {
	var dbType string
	cmd.Flags().StringVar(&nc.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&dbType, "type", "postgres", "Database type (postgres, mysql, mongodb)")
	cmd.Flags().StringVar(&nc.Host, "host-addr", "", "Database host")
	cmd.Flags().IntVar(&nc.Port, "port", 5432, "Database port")
	cmd.Flags().StringVar(&nc.DatabaseName, "database", "", "Database name")
	cmd.Flags().StringVar(&nc.Username, "username", "", "Database user")
	cmd.Flags().StringVar(&nc.Password, "password", "", "Database password")

	pre := cmd.PreRunE
	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		if pre != nil {
			if err := pre(c, args); err != nil {
				return err
			}
		}
		nc.Type = domain.ConnectionType(dbType)
		switch nc.Type {
		case domain.ConnectionPostgres, domain.ConnectionMySQL, domain.ConnectionMongoDB:
			return nil
		default:
			return fmt.Errorf("unsupported database type %q", dbType)
		}
	}
}

func newDBAddCmd(client *apiclient.Client) *cobra.Command {
	var nc domain.NewConnection

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a database for monitoring",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := client.CreateDatabase(cmd.Context(), nc)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, conn)
			}
			fmt.Fprintf(os.Stdout, "Registered %s (%s)\n", conn.Name, conn.ID)
			return nil
		},
	}

	connectionFlags(cmd, &nc)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("host-addr")
	_ = cmd.MarkFlagRequired("database")
	return cmd
}

func newDBRemoveCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <database-id>",
		Short: "Remove a monitored database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DeleteDatabase(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Removed %s\n", args[0])
			return nil
		},
	}
}

func newDBTestCmd(client *apiclient.Client) *cobra.Command {
	var nc domain.NewConnection

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connection details without saving them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := client.TestConnection(cmd.Context(), nc)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, result)
			}
			if result.Success {
				fmt.Fprintf(os.Stdout, "OK: %s\n", result.Message)
				return nil
			}
			return fmt.Errorf("connection failed: %s", result.Message)
		},
	}

	connectionFlags(cmd, &nc)
	_ = cmd.MarkFlagRequired("host-addr")
	_ = cmd.MarkFlagRequired("database")
	return cmd
}

// newDBUseCmd saves a default database in the active profile so queries
// commands can omit --db.
func newDBUseCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "use <database-id>",
		Short: "Set the default database for the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := client.GetDatabase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			if err := updateActiveProfile(profileOverride, func(p *Profile) {
				p.Database = conn.ID
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Using %s (%s)\n", conn.Name, conn.ID)
			return nil
		},
	}
}
