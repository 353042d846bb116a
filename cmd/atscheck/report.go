package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go-ats-backend/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report <dir>",
		Short: "Score every *.json resume in a directory and export a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			format, err := report.FormatFromPath(out)
			if err != nil {
				return err
			}

			cfg, err := c.config()
			if err != nil {
				return err
			}
			roles, err := c.taxonomy(cfg)
			if err != nil {
				return err
			}
			role := roles.Resolve(cfg.Role, cfg.Keywords)
			eng := engine(cfg)

			files, err := filepath.Glob(filepath.Join(args[0], "*.json"))
			if err != nil {
				return fmt.Errorf("listing resumes: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no *.json files in %s", args[0])
			}
			sort.Strings(files)

			entries := make([]report.Entry, 0, len(files))
			failed := 0
			for _, file := range files {
				score, err := scoreFile(file, eng, role)
				if err != nil {
					failed++
					c.log.Warn("skipping resume", zap.String("file", file), zap.Error(err))
				}
				entries = append(entries, report.Entry{File: filepath.Base(file), Score: score, Err: err})
			}

			var buf bytes.Buffer
			if err := report.Write(&buf, format, entries); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			c.log.Info("report written",
				zap.String("out", out),
				zap.Int("resumes", len(entries)),
				zap.Int("failed", failed),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Scored %d resumes (%d failed), report written to %s\n", len(entries)-failed, failed, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.xlsx or .csv)")
	return cmd
}
