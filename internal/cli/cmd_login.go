package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/denifrahman/deni-crm/internal/config"
)

func newLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API session token",
		Long: "Prompts for a session token and writes it to the token file.\n" +
			"CRM_TOKEN, when set, takes precedence over the stored token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Session Token").
							EchoMode(huh.EchoModePassword).
							Value(&token).
							Validate(validateRequired("token")),
					),
				).WithTheme(crmHuhTheme()).WithShowHelp(false)

				if err := form.Run(); err != nil {
					return err
				}
			}

			if err := config.SaveToken(app.Cfg, token); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			fmt.Printf("Token saved to %s\n", app.Cfg.TokenFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Session token (prompts when omitted)")
	return cmd
}
