package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/denifrahman/deni-crm/internal/proxy"
)

func newGatewayCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run the local credential-injecting API gateway",
		Long: "Serves " + proxy.PathPrefix + "* by relaying each request to the upstream API\n" +
			"with the session cookie's token attached as a bearer credential.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Cfg.GatewayAddr
			}
			gw := proxy.New(app.Cfg.BaseURL)
			fmt.Printf("gateway listening on %s, upstream %s\n", addr, app.Cfg.BaseURL)
			return http.ListenAndServe(addr, gw.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to CRM_GATEWAY_ADDR)")
	return cmd
}
