package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"querypulse/internal/apiclient"
)

func newAuthCmd(client *apiclient.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd(client))
	cmd.AddCommand(newAuthRegisterCmd(client))
	cmd.AddCommand(newAuthWhoamiCmd(client))
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthTokenCmd())
	return cmd
}

func newAuthLoginCmd(client *apiclient.Client) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the token to the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				var err error
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			grant, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			if err := updateActiveProfile(profileOverride, func(p *Profile) {
				p.Token = grant.AccessToken
				if p.Host == "" {
					p.Host = client.BaseURL
				}
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAuthRegisterCmd(client *apiclient.Client) *cobra.Command {
	var (
		email    string
		fullName string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				var err error
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			if _, err := client.Register(cmd.Context(), email, password, fullName); err != nil {
				return err
			}
			grant, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			if err := updateActiveProfile(profileOverride, func(p *Profile) {
				p.Token = grant.AccessToken
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Account created.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&fullName, "name", "", "Full name")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newAuthWhoamiCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, user)
			}
			PrintDetail(os.Stdout, map[string]interface{}{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"plan":      user.PlanTier,
			})
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved token from the active profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			if err := updateActiveProfile(profileOverride, func(p *Profile) {
				p.Token = ""
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(os.Stdout, "Logged out.")
			return nil
		},
	}
}

func newAuthTokenCmd() *cobra.Command {
	var (
		subject string
		secret  string
		expires time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a dev-mode JWT token and save it to the active profile",
		Long:  "Generate an HS256 JWT token for development against a backend running with a known secret. The token is saved to the active profile automatically.",
		Example: `  # Generate a token for a local dev backend
  qpulse auth token --subject dev@example.com --secret dev-secret-change-in-production`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			claims := jwt.MapClaims{
				"sub": subject,
				"iat": now.Unix(),
				"exp": now.Add(expires).Unix(),
			}

			token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			profileOverride, _ := cmd.Root().PersistentFlags().GetString("profile")
			if err := updateActiveProfile(profileOverride, func(p *Profile) {
				p.Token = signed
			}); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintln(os.Stdout, signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Account identifier (JWT sub claim)")
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret (HS256)")
	cmd.Flags().DurationVar(&expires, "expires", 24*time.Hour, "Token expiry duration")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(data), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
