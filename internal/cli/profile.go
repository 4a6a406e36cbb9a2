package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustgraph/pkg/state"
	"github.com/matzehuels/trustgraph/pkg/trustgraph"
)

const trustBarWidth = 20

func (c *CLI) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <id>",
		Short: "Show the detail panel for one profile",
		Long: `Fetch a profile and print its detail panel: role, domain, trust score,
connections, skills and verification history.`,
		Example: `  trustgraph profile 1
  trustgraph profile 3 --api-url http://localhost:8000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store := state.NewProfile(ctx, c.newClient(), c.storeOptions()...)
			defer store.Close()

			var st state.ProfileState
			err := spin(ctx, cmd.ErrOrStderr(), "Fetching profile "+args[0], func() error {
				st = store.FetchProfile(ctx, args[0])
				if st.HasError() {
					return failed("fetch profile "+args[0], errors.New(st.Err))
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderProfile(st.Profile))
			return nil
		},
	}
}

// renderProfile formats a profile as the detail panel shown by the profile
// command and the browser.
func renderProfile(p *trustgraph.ProfileDetail) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(p.Label) + " " + verifiedMark(p.Verified) + "\n")
	b.WriteString(StyleDim.Render(p.Role) + "\n")
	if p.Domain != "" {
		b.WriteString(StyleConnection.Render(p.Domain) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(keyValue("Trust score", trustScore(p.TrustScore)) + "\n")
	b.WriteString(keyValue("Connections", StyleNumber.Render(fmt.Sprint(p.Connections))) + "\n")
	b.WriteString(keyValue("Verifications", StyleNumber.Render(fmt.Sprint(len(p.Verifications)))) + "\n")
	b.WriteString("\n")

	b.WriteString(StyleDim.Render("SKILLS") + "\n")
	skillStyle := StyleDim
	if p.Verified {
		skillStyle = StyleVerified
	}
	if len(p.Skills) == 0 {
		b.WriteString("  " + StyleDim.Render("none listed") + "\n")
	} else {
		b.WriteString("  " + skillStyle.Render(strings.Join(p.Skills, ", ")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(StyleDim.Render("VERIFICATION HISTORY") + "\n")
	if len(p.Verifications) == 0 {
		b.WriteString("  " + StyleDim.Render("No verifications yet") + "\n")
	}
	for _, v := range p.Verifications {
		fmt.Fprintf(&b, "  %s %-14s %s  %s\n",
			StyleVerified.Render(iconVerified),
			v.Type,
			StyleDim.Render(v.Source),
			StyleDim.Render(formatDate(v.Date)))
	}
	return b.String()
}

// trustScore renders a 0-100 score with a bar, colored by band.
func trustScore(score float64) string {
	style := trustStyle(score)
	filled := int(score / 100 * trustBarWidth)
	filled = max(0, min(trustBarWidth, filled))
	bar := style.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", trustBarWidth-filled))
	return style.Render(fmt.Sprintf("%.0f%%", score)) + " " + bar
}

func trustStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return StyleVerified
	case score >= 50:
		return StyleWarning
	default:
		return StyleError
	}
}

// formatDate renders "2025-12" style dates as "Dec 2025"; other values pass through.
func formatDate(s string) string {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006-01" {
				return t.Format("Jan 2006")
			}
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}
