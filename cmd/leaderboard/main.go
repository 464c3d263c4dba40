// Command leaderboard prints the leaderboard of a competition document
// without running the server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	app "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
)

const (
	inputFlag       = "input"
	outputFlag      = "output"
	formatFlag      = "format"
	divisionFlag    = "division"
	eventFlag       = "event"
	competitionFlag = "competition"
	stdoutCLIName   = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:    "leaderboard",
		Usage:   "Rank a competition from a YAML document",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     inputFlag,
				Aliases:  []string{"i"},
				Usage:    "Path to the competition YAML",
				Required: true,
			},
			&cli.StringFlag{
				Name:    outputFlag,
				Aliases: []string{"o"},
				Usage:   "Where to write the result. A file path or \"-\" for stdout.",
				Value:   stdoutCLIName,
			},
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, yaml or xlsx",
				Value:   "table",
			},
			&cli.StringFlag{
				Name:    divisionFlag,
				Aliases: []string{"d"},
				Usage:   "Only rank this division",
			},
			&cli.StringFlag{
				Name:    eventFlag,
				Aliases: []string{"e"},
				Usage:   "Print the ranked results of one event instead of the overall standings",
			},
			&cli.StringFlag{
				Name:  competitionFlag,
				Usage: "Competition id when the file lists several",
			},
		},
		Action: func(cCtx *cli.Context) error {
			out := stdout
			if path := cCtx.String(outputFlag); path != stdoutCLIName {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return run(cCtx.String(inputFlag), out, options{
				format:      cCtx.String(formatFlag),
				division:    cCtx.String(divisionFlag),
				event:       cCtx.String(eventFlag),
				competition: cCtx.String(competitionFlag),
			})
		},
	}
}

type options struct {
	format      string
	division    string
	event       string
	competition string
}

func run(input string, out io.Writer, opts options) error {
	comps, err := config.LoadFixtures(input)
	if err != nil {
		return err
	}
	c, err := pick(comps, opts.competition)
	if err != nil {
		return err
	}
	if c.Scoring.Algorithm == "" {
		c.Scoring.Algorithm = scoring.AlgorithmTraditional
	}
	if err := app.ValidateCompetition(c); err != nil {
		return err
	}

	entries := leaderboard.Aggregate(leaderboard.FromCompetition(c), leaderboard.WithDivision(opts.division))

	if opts.event != "" {
		if _, ok := c.Event(opts.event); !ok {
			return fmt.Errorf("unknown event %q", opts.event)
		}
		rows := leaderboard.EventLeaderboard(entries, opts.event)
		switch opts.format {
		case "table":
			return writeEventTable(out, rows)
		default:
			return encode(out, opts.format, rows)
		}
	}

	switch opts.format {
	case "table":
		return writeTable(out, c, entries)
	case "xlsx":
		return writeWorkbook(out, c, entries)
	default:
		return encode(out, opts.format, entries)
	}
}

func pick(comps []model.Competition, id string) (model.Competition, error) {
	if id == "" {
		if len(comps) != 1 {
			return model.Competition{}, fmt.Errorf("file holds %d competitions; choose one with --%s", len(comps), competitionFlag)
		}
		return comps[0], nil
	}
	for _, c := range comps {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Competition{}, fmt.Errorf("competition %q not found", id)
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeTable(out io.Writer, c model.Competition, entries []leaderboard.Entry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	division := ""
	for _, e := range entries {
		if e.DivisionID != division {
			if division != "" {
				fmt.Fprintln(tw)
			}
			division = e.DivisionID
			fmt.Fprintf(tw, "# %s\n", division)
			header := []string{"RANK", "ATHLETE", "TOTAL"}
			for _, r := range e.EventResults {
				header = append(header, eventLabel(c, r.EventID))
			}
			fmt.Fprintln(tw, strings.Join(header, "\t"))
		}
		row := []string{strconv.Itoa(e.OverallRank), athleteLabel(e), formatPoints(e.TotalPoints)}
		for _, r := range e.EventResults {
			if r.Rank == 0 {
				row = append(row, r.FormattedScore)
				continue
			}
			row = append(row, fmt.Sprintf("%d (%s) %s", r.Rank, formatPoints(r.Points), r.FormattedScore))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// writeWorkbook writes one sheet per division.
func writeWorkbook(out io.Writer, c model.Competition, entries []leaderboard.Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := make(map[string]int)
	for _, e := range entries {
		sheet := e.DivisionID
		if _, ok := rows[sheet]; !ok {
			if err := addSheet(f, sheet, len(rows) == 0); err != nil {
				return err
			}
			header := []any{"Rank", "Athlete", "Total"}
			for _, r := range e.EventResults {
				header = append(header, eventLabel(c, r.EventID))
			}
			if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
				return err
			}
			rows[sheet] = 1
		}
		rows[sheet]++

		values := []any{e.OverallRank, athleteLabel(e), e.TotalPoints}
		for _, r := range e.EventResults {
			if r.Rank == 0 {
				values = append(values, r.FormattedScore)
				continue
			}
			values = append(values, r.Points)
		}
		cell, err := excelize.CoordinatesToCellName(1, rows[sheet])
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(out)
}

// addSheet renames the default sheet for the first division.
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		return f.SetSheetName(f.GetSheetName(0), name)
	}
	_, err := f.NewSheet(name)
	return err
}

func writeEventTable(out io.Writer, rows []leaderboard.EventRow) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tATHLETE\tDIVISION\tPOINTS\tSCORE")
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = r.AthleteID
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Rank, name, r.DivisionID, formatPoints(r.Points), r.FormattedScore)
	}
	return tw.Flush()
}

func eventLabel(c model.Competition, id string) string {
	if ev, ok := c.Event(id); ok && ev.Name != "" {
		return strings.ToUpper(ev.Name)
	}
	return strings.ToUpper(id)
}

func athleteLabel(e leaderboard.Entry) string {
	if e.Name != "" {
		return e.Name
	}
	return e.AthleteID
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
