package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simonbystrom/devtracker/internal/roster"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print roster statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, r, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			printStats(cmd.OutOrStdout(), roster.ComputeStats(r))
			return nil
		},
	}
}

func printStats(w io.Writer, s roster.Stats) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Fprintln(w, "Roster")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Developers:  %d (", s.TotalDevelopers)
	green.Fprintf(w, "%d available", s.Available)
	fmt.Fprint(w, ", ")
	yellow.Fprintf(w, "%d busy", s.Busy)
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Projects:    %d across %d developers\n", s.TotalProjects, s.DevelopersWithProjects)
	fmt.Fprintf(w, "Tasks:       %d (%d in progress, %d pending)\n", s.TotalTasks, s.InProgressTasks, s.PendingTasks())
}

func newListCmd(opts *options) *cobra.Command {
	var (
		search string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List developers with their availability and current task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := roster.ParseFilter(filter)
			if err != nil {
				return err
			}
			_, log, r, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			printDevelopers(cmd.OutOrStdout(), roster.FilterDevelopers(r, search, f))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "availability filter: all, available or busy")
	return cmd
}

func printDevelopers(w io.Writer, devs []roster.Developer) {
	if len(devs) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No developers found")
		return
	}

	bold := color.New(color.Bold)
	bold.Fprintf(w, "%-20s %-24s %-10s %-8s %s\n", "NAME", "ROLE", "STATUS", "PROJECTS", "CURRENT TASK")
	for _, d := range devs {
		current := "-"
		if t, ok := d.FirstCurrentTask(); ok {
			current = t.Name
		}
		fmt.Fprintf(w, "%-20s %-24s ", d.Name, d.Role)
		status := color.New(color.FgGreen)
		if d.Availability == roster.Busy {
			status = color.New(color.FgYellow)
		}
		status.Fprintf(w, "%-10s", d.Availability.Label())
		fmt.Fprintf(w, " %-8d %s\n", len(d.Projects), current)
	}

	noun := "developers"
	if len(devs) == 1 {
		noun = "developer"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(devs), noun)
}
