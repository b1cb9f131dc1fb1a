package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jobmarket/internal/salary"
	"jobmarket/internal/service"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Recommend the closest job titles for a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			rows, err := svc.Recommend(strings.Join(args, " "))
			if err != nil {
				return emptyInput(cmd, err, "Enter a search query.")
			}
			return writeRows(cmd.OutOrStdout(), rows, true)
		},
	}
}

func newCountriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the distinct countries in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			for _, c := range svc.Countries() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newCountryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "country <name>",
		Short: "List jobs in one country",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			country := strings.Join(args, " ")
			rows := svc.FilterByCountry(country)
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No jobs found for %s.\n", country)
				return nil
			}
			return writeRows(cmd.OutOrStdout(), rows, false)
		},
	}
}

func newRemoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remote",
		Short: "List jobs whose title mentions remote work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			rows := svc.RemoteJobs()
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No remote jobs found.")
				return nil
			}
			return writeRows(cmd.OutOrStdout(), rows, false)
		},
	}
}

func newSkillsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "skills <skill, skill, ...>",
		Short: "Find the roles closest to a skill set and the skills they cover",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			res, err := svc.SkillGap(strings.Join(args, " "))
			if err != nil {
				return emptyInput(cmd, err, "Enter at least one skill.")
			}
			out := cmd.OutOrStdout()
			if err := writeRows(out, res.Matches, true); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCovered: %s\n", joinOrNone(res.Matched))
			fmt.Fprintf(out, "Missing: %s\n", joinOrNone(res.Missing))
			return nil
		},
	}
}

func newResumeCmd(opts *rootOptions) *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "resume <text | ->",
		Short: "Match resume text to the closest role",
		Long:  "Match resume text to the closest role. Pass - to read the resume from stdin.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := salary.ParseLevel(level)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read resume: %w", err)
				}
				text = string(b)
			}
			svc, err := loadService(cmd, opts)
			if err != nil {
				return err
			}
			res, err := svc.AnalyzeResume(text, lvl)
			if err != nil {
				return emptyInput(cmd, err, "Paste resume text to analyze.")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Best match: %s\n", res.Job.Title)
			fmt.Fprintf(out, "Salary (%s): %s\n", res.Level, res.Salary)
			fmt.Fprintf(out, "Job type: %s\n", res.Job.JobType)
			fmt.Fprintf(out, "Country: %s\n", res.Job.Country)
			fmt.Fprintf(out, "Score: %.3f\n", res.Score)
			if !res.Relevant() {
				fmt.Fprintln(out, "No vocabulary overlap with any title; this match is arbitrary.")
			}
			fmt.Fprintf(out, "\n%s\n", res.Feedback)
			for _, h := range res.Highlights {
				fmt.Fprintf(out, "  - %s\n", h)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", string(salary.MidLevel), "Experience level: Fresher, Mid-Level or Senior")
	return cmd
}

// emptyInput turns ErrEmptyInput into a prompt on stdout; other errors pass through.
func emptyInput(cmd *cobra.Command, err error, prompt string) error {
	if errors.Is(err, service.ErrEmptyInput) {
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return nil
	}
	return err
}

func writeRows(w io.Writer, rows []service.JobRow, withScore bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if withScore {
		fmt.Fprintln(tw, "TITLE\tSALARY\tCOUNTRY\tJOB TYPE\tSCORE")
	} else {
		fmt.Fprintln(tw, "TITLE\tSALARY\tCOUNTRY\tJOB TYPE")
	}
	for _, r := range rows {
		if withScore {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.3f\n", r.Title, r.Salary, r.Country, r.JobType, r.Score)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Title, r.Salary, r.Country, r.JobType)
		}
	}
	return tw.Flush()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
