// Command fixtures writes mock marketplace JSON for local development.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"artisanhub/backend/internal/fixtures"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
)

func newRootCmd() *cobra.Command {
	opts := fixtures.Options{}

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Generate artisans.json, artisan-jobs.json and jobScenarios.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Now = time.Now()
			written, err := fixtures.WriteAll(afero.NewOsFs(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Fixtures written"))
			for _, w := range written {
				fmt.Fprintf(out, "  %s %-22s %s\n",
					okStyle.Render("✓"),
					w.Path,
					mutedStyle.Render(strconv.Itoa(w.Records)+" records, "+strconv.Itoa(w.Bytes)+" bytes"),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "output directory")
	cmd.Flags().Int64Var(&opts.Seed, "seed", fixtures.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&opts.Artisans, "artisans", fixtures.DefaultArtisans, "number of artisans")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", fixtures.DefaultJobs, "number of artisan jobs")
	return cmd
}

func main() {
	cmd := newRootCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("✗")+" "+err.Error())
		os.Exit(1)
	}
}
