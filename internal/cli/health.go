package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

func (c *CLI) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client := c.newClient()

			var h *trustgraph.Health
			err := spin(ctx, cmd.ErrOrStderr(), "Contacting "+client.BaseURL(), func() (err error) {
				h, err = client.Health(ctx)
				return err
			})
			if err != nil {
				return failed("health check failed", err)
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "%s", h.Message)
			printKeyValue(w, "Status", h.Status)
			printKeyValue(w, "Endpoint", client.BaseURL())
			return nil
		},
	}
}
