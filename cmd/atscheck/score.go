package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"go-ats-backend/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScoreCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <resume.json>",
		Short: "Score a single resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			roles, err := c.taxonomy(cfg)
			if err != nil {
				return err
			}
			role := roles.Resolve(cfg.Role, cfg.Keywords)

			score, err := scoreFile(args[0], engine(cfg), role)
			if err != nil {
				c.log.Error("scoring failed", zap.String("file", args[0]), zap.Error(err))
				return err
			}
			c.log.Debug("scored resume", zap.String("file", args[0]), zap.Int("overall", score.Overall))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(score)
			}
			return printScore(cmd.OutOrStdout(), score)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full score as JSON")
	return cmd
}

func printScore(out io.Writer, s *domain.ATSScore) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Overall:\t%d/100\n", s.Overall)
	if s.TargetRole != "" {
		fmt.Fprintf(w, "Target role:\t%s\n", s.TargetRole)
	}
	for _, sub := range s.SubScores {
		if !sub.Applied {
			fmt.Fprintf(w, "  %s\tskipped\n", sub.Name)
			continue
		}
		fmt.Fprintf(w, "  %s\t%.2f/%.2f\n", sub.Name, sub.Score, sub.MaxScore)
	}
	if len(s.MissingKeywords) > 0 {
		fmt.Fprintf(w, "Missing keywords:\t%v\n", s.MissingKeywords)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(s.Findings) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nFindings:")
	for _, f := range s.Findings {
		loc := ""
		if f.Pointer != nil {
			loc = " [" + f.Pointer.Section
			if f.Pointer.ItemID != "" {
				loc += "/" + f.Pointer.ItemID
			}
			if f.Pointer.Field != "" {
				loc += "." + f.Pointer.Field
			}
			loc += "]"
		}
		fmt.Fprintf(out, "  %-8s %s%s: %s\n", f.Severity, f.Code, loc, f.Message)
	}
	return nil
}
