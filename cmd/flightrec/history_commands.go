package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"flightrec/internal/failure"
	"flightrec/internal/journal"
)

const defaultHistoryLimit = 10

func (c *commandContext) runHistoryList(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return failure.Wrap(failure.ErrValidation, "history", "list",
				fmt.Sprintf("expected a positive count or \"show\", got %q", args[0]), nil)
		}
		limit = n
	default:
		return usageError("history [N]")
	}
	return c.withJournal(func(j *journal.Journal) error {
		runs, err := j.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if runs == nil {
			runs = []journal.Run{}
		}
		return c.emit(runs, func(w io.Writer) error {
			if len(runs) == 0 {
				_, err := fmt.Fprintln(w, "No sync runs recorded")
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID[:8],
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(r.Total),
					strconv.Itoa(r.Confirmed),
					strconv.Itoa(r.Missing + r.Inaccurate),
					strconv.Itoa(r.Passes),
					runStatus(r),
				})
			}
			return printTable(w, []string{"Run", "Started", "Total", "Confirmed", "Residual", "Passes", "Status"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight})
		})
	})
}

type runDetail struct {
	Run      journal.Run       `json:"run"`
	Residual []journal.Outcome `json:"residual"`
}

func (c *commandContext) runHistoryShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("history show RUN-ID")
	}
	return c.withJournal(func(j *journal.Journal) error {
		run, err := j.FindRun(ctx, args[0])
		if err != nil {
			return err
		}
		outcomes, err := j.Outcomes(ctx, run.ID)
		if err != nil {
			return err
		}
		if outcomes == nil {
			outcomes = []journal.Outcome{}
		}
		return c.emit(runDetail{Run: run, Residual: outcomes}, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "Run %s from %s\nStatus: %s\n", run.ID, run.Source, runStatus(run)); err != nil {
				return err
			}
			if run.Error != "" {
				if _, err := fmt.Fprintf(w, "Error: %s\n", run.Error); err != nil {
					return err
				}
			}
			return renderUploadSummary(w, run, outcomes)
		})
	})
}

func runStatus(r journal.Run) string {
	switch {
	case r.Unresolved:
		return "unresolved"
	case r.Error != "":
		return "failed"
	default:
		return "complete"
	}
}
