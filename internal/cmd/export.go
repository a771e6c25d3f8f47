package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonbystrom/devtracker/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		out    string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the roster to developer-tasks.csv",
		Long:  "Flatten the roster into one row per developer/project with pending tasks as continuation rows, and write it as CSV.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, r, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := export.Build(r, cfg.Export.DateFormat)
			if err != nil {
				return err
			}
			if stdout {
				_, err := cmd.OutOrStdout().Write(a.Data)
				return err
			}

			dir := cfg.Export.Dir
			if out != "" {
				dir = out
			}
			path, err := a.Save(dir)
			if err != nil {
				log.Warn("export failed", zap.Error(err))
				return err
			}
			rows := len(export.Rows(r))
			log.Info("export written", zap.String("path", path), zap.Int("rows", rows))

			color.New(color.FgGreen).Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", rows, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "directory to write "+export.Filename+" into (default from config)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the CSV to stdout instead of a file")
	return cmd
}
