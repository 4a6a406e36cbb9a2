package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/internal/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect client configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			cfg := c.cfg

			printKeyValue(w, "API URL", cfg.APIURL+StyleDim.Render(" ("+cfg.APIURLSource+")"))
			timeout := "none"
			if cfg.Timeout.Duration > 0 {
				timeout = cfg.Timeout.String()
			}
			printKeyValue(w, "Timeout", timeout)
			printKeyValue(w, "Log level", c.Logger.GetLevel().String())
			file := cfg.Path
			if file == "" {
				file = "none"
			}
			printKeyValue(w, "Config file", file)
			return nil
		},
	})

	return cmd
}
