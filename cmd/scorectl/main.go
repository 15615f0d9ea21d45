// Command scorectl is the operator's tool for the scorekeeper: it previews pairing text,
// checks the configured tournament, applies migrations, prints the scoreboard, and
// clears matches, all without going through the HTTP API.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/trentd187/ryder-cup/internal/config"
	"github.com/trentd187/ryder-cup/internal/database"
	"github.com/trentd187/ryder-cup/internal/pairing"
	"github.com/trentd187/ryder-cup/internal/tournament"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:      "scorectl",
		Usage:     "Ryder Cup scorekeeper administration",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stdout,
		Commands: []*cli.Command{
			parseCommand(),
			checkCommand(),
			migrateCommand(),
			scoreboardCommand(),
			resetCommand(),
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse pairing text from a file or stdin and show the result",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			var (
				data []byte
				err  error
			)
			if path := c.Args().First(); path != "" {
				data, err = os.ReadFile(path)
			} else {
				data, err = io.ReadAll(c.App.Reader)
			}
			if err != nil {
				return fmt.Errorf("failed to read pairings: %w", err)
			}

			res := pairing.Parse(string(data))
			out := c.App.Writer
			for i, p := range res.Pairings {
				fmt.Fprintf(out, "%d: %s vs %s\n", i, p.A, p.B)
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(out, "skipped line %d (%s): %q\n", s.Line, s.Reason, s.Text)
			}
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate the configured tournament and list its matches",
		Action: func(c *cli.Context) error {
			tour, warnings, err := loadTournament()
			if err != nil {
				return err
			}

			out := c.App.Writer
			fmt.Fprintf(out, "%s: %s (%d) vs %s (%d)\n", tour.Name,
				tour.TeamA.Name, len(tour.TeamA.Players), tour.TeamB.Name, len(tour.TeamB.Players))
			for _, d := range tour.Days {
				fmt.Fprintf(out, "Day %d, %s: %s\n", d.Number, d.Format, d.Subtitle)
				for _, m := range d.Matches {
					fmt.Fprintf(out, "  %d: %s\n", m.Index, m.Label())
				}
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "bring the database schema up to date",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "migrations", Usage: "directory holding the SQL migrations"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db, cfg.DatabaseURL, c.String("dir")); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "Schema is up to date")
			return nil
		},
	}
}

func scoreboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "scoreboard",
		Usage: "print the current totals",
		Action: func(c *cli.Context) error {
			svc, err := openService()
			if err != nil {
				return err
			}
			sb, err := svc.Scoreboard(c.Context)
			if err != nil {
				return err
			}

			out := c.App.Writer
			for _, d := range sb.Days {
				fmt.Fprintf(out, "Day %d  %s %g  %s %g\n", d.Day, sb.TeamA.Name, d.Totals.A, sb.TeamB.Name, d.Totals.B)
			}
			fmt.Fprintf(out, "Total  %s %g  %s %g\n", sb.TeamA.Name, sb.Totals.A, sb.TeamB.Name, sb.Totals.B)
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "clear one match (--day and --match) or every match (--all)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "day", Usage: "day number (1-3)"},
			&cli.IntFlag{Name: "match", Value: -1, Usage: "match index within the day"},
			&cli.BoolFlag{Name: "all", Usage: "clear every match in the tournament"},
		},
		Action: func(c *cli.Context) error {
			all := c.Bool("all")
			day, index := c.Int("day"), c.Int("match")
			if !all && (day == 0 || index < 0) {
				return cli.Exit("either --all or both --day and --match are required", 2)
			}

			svc, err := openService()
			if err != nil {
				return err
			}
			if all {
				if err := svc.ResetAll(c.Context); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "Cleared all matches")
				return nil
			}
			if err := svc.ResetMatch(c.Context, day, index); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Cleared day %d match %d\n", day, index)
			return nil
		},
	}
}

func loadTournament() (*tournament.Tournament, []tournament.Warning, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return tournament.New(cfg.Tournament)
}

// openService builds the same service the server runs, against DATABASE_URL.
// The schema must already exist (see "scorectl migrate").
func openService() (*tournament.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tour, _, err := tournament.New(cfg.Tournament)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return tournament.NewService(tour, database.NewMatchStore(db)), nil
}
