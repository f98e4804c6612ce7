package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/vertox/portal/internal/plans"
)

var quoteStyles = struct {
	title lipgloss.Style
	label lipgloss.Style
	price lipgloss.Style
}{
	title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginBottom(1),
	label: lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("#626262")),
	price: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
}

func quoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Price a plan configuration from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "Source language", Value: "en"},
			&cli.StringSliceFlag{Name: "target", Aliases: []string{"t"}, Usage: "Target language, repeatable", Required: true},
			&cli.StringFlag{Name: "format", Usage: "consecutive, simultaneous or event", Value: plans.FormatConsecutive},
			&cli.StringFlag{Name: "duration", Usage: "1h, 2h, 4h, 8h or custom", Value: "1h"},
			&cli.StringFlag{Name: "hours", Usage: "Custom duration in hours"},
			&cli.StringFlag{Name: "event", Usage: "Event type", Value: "corporate"},
			&cli.StringFlag{Name: "participants", Usage: "Participant range", Value: "6-20"},
			&cli.StringFlag{Name: "criticality", Usage: "Criticality level", Value: "business"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "proposal", Usage: "Print the commercial proposal text"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runQuote(cmd, os.Stdout)
		},
	}
}

func runQuote(cmd *cli.Command, out io.Writer) error {
	c := plans.Configuration{
		SourceLanguage:   cmd.String("source"),
		TargetLanguages:  cmd.StringSlice("target"),
		Format:           cmd.String("format"),
		DurationPreset:   cmd.String("duration"),
		CustomHours:      cmd.String("hours"),
		EventType:        cmd.String("event"),
		ParticipantRange: cmd.String("participants"),
		Criticality:      cmd.String("criticality"),
	}
	q, err := plans.NewQuote(c)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch {
	case cmd.Bool("json"):
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	case cmd.Bool("proposal"):
		_, err := io.WriteString(out, plans.RenderProposal(q, time.Now()))
		return err
	}
	fmt.Fprintln(out, quoteStyles.title.Render("VertoX plan quote"))
	for _, l := range q.Lines {
		fmt.Fprintln(out, quoteStyles.label.Render(l.Label+":"), l.Value)
	}
	fmt.Fprintln(out, quoteStyles.label.Render("Total minutes:"), fmt.Sprintf("%.0f", q.TotalMinutes))
	fmt.Fprintln(out, quoteStyles.label.Render("Price:"), quoteStyles.price.Render(fmt.Sprintf("$%d", q.Price)))
	return nil
}
