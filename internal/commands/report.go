package commands

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/neighborly/internal/commands/doctor"
	"github.com/hay-kot/neighborly/internal/printer"
)

type reportSummary struct {
	Passed  int      `json:"passed"`
	Warned  int      `json:"warned"`
	Failed  int      `json:"failed"`
	Fixable []string `json:"fixable,omitempty"`
}

// writeReport prints a doctor report as text or JSON and exits 1 when any
// item failed.
func writeReport(ctx context.Context, c *cli.Command, report doctor.Report, format string) error {
	var err error
	switch format {
	case "json":
		err = writeReportJSON(c, report)
	case "text", "":
		writeReportText(printer.Ctx(ctx), report)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	if err != nil {
		return err
	}

	if !report.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func writeReportJSON(c *cli.Command, report doctor.Report) error {
	passed, warned, failed := report.Counts()

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Healthy bool            `json:"healthy"`
		Summary reportSummary   `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: report.Healthy(),
		Summary: reportSummary{Passed: passed, Warned: warned, Failed: failed, Fixable: report.FixableKeys()},
		Checks:  report.Results,
	})
}

func writeReportText(p *printer.Printer, report doctor.Report) {
	for _, result := range report.Results {
		p.Section(result.Name)
		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}
		p.Printf("")
	}

	passed, warned, failed := report.Counts()
	p.Printf("Summary: %d passed, %d warnings, %d failed", passed, warned, failed)
}
