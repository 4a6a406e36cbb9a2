package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

type verifyFlags struct {
	json bool
}

func (c *CLI) verifyCommand() *cobra.Command {
	var flags verifyFlags

	cmd := &cobra.Command{
		Use:   "verify <username> <repository>",
		Short: "Ask the backend to verify a contribution",
		Long: `Ask the backend whether a user contributed to a repository.

The result is reported as returned by the backend; no checks are made locally.`,
		Example: `  trustgraph verify octocat hello-world
  trustgraph verify octocat hello-world --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := c.newClient()
			username, repository := args[0], args[1]

			var res *trustgraph.VerificationResult
			err := spin(ctx, cmd.ErrOrStderr(), "Verifying "+username+"/"+repository, func() (err error) {
				res, err = client.VerifyContribution(ctx, username, repository)
				return err
			})
			if err != nil {
				return failed("verify contribution", err)
			}

			w := cmd.OutOrStdout()
			if flags.json {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if res.Verified {
				printSuccess(w, "%s contributed to %s", username, repository)
			} else {
				printError(w, "No verified contribution from %s to %s", username, repository)
			}
			printKeyValue(w, "Contributions", fmt.Sprint(res.Contributions))
			if len(res.Repositories) > 0 {
				printKeyValue(w, "Repositories", strings.Join(res.Repositories, ", "))
			}
			if res.Message != "" {
				printDetail(w, "%s", res.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "print the raw result as JSON")

	return cmd
}
