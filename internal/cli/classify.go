package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/corpix/uarand"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cssgraph/pkg/useragent"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var random int

	cmd := &cobra.Command{
		Use:   "classify [user-agent...]",
		Short: "Show how browsers are classified",
		Long: `Show how User-Agent strings are classified.

A browser has bad marker support when it is a Microsoft browser (IE, Edge)
or a Safari/WebKit browser. Such browsers get explicit arrow heads.

Without arguments, --random strings are drawn from a list of real browsers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			uas := args
			if len(uas) == 0 {
				if random <= 0 {
					return fmt.Errorf("give user-agent strings or --random")
				}
				for range random {
					uas = append(uas, uarand.GetRandom())
				}
			}

			var d useragent.Detector
			profiles := make([]useragent.Profile, len(uas))
			for i, ua := range uas {
				profiles[i] = d.Classify(ua)
			}
			fmt.Fprintln(cmd.OutOrStdout(), profileTable(profiles))
			c.Logger.Debug("classified", "strings", len(uas), "distinct", d.Len())
			return nil
		},
	}

	cmd.Flags().IntVar(&random, "random", 0, "classify this many random User-Agent strings")
	return cmd
}

// profileTable renders one row per profile. Browsers with bad marker
// support are highlighted.
func profileTable(profiles []useragent.Profile) string {
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		safari := "—"
		if p.SafariVersion > -1 {
			safari = strconv.Itoa(p.SafariVersion)
		}
		rows[i] = []string{truncate(p.UserAgent, 60), yesNo(p.Microsoft), safari, yesNo(p.SafariWebkit), yesNo(p.BadMarkerSupport)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("User-Agent", "Microsoft", "Safari", "WebKit", "Bad markers").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if profiles[row].BadMarkerSupport {
				return StyleWarning
			}
			return StyleValue
		}).
		Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
