// Package config handles loading runtime configuration for the Ryder Cup scorekeeper.
// Server settings (port, database URL, JWT secret) come from environment variables so the
// same binary runs locally and in production. The tournament itself (rosters, the three
// days and their pairings) comes from a YAML file when TOURNAMENT_FILE is set, or from the
// built-in defaults otherwise, with a few environment overrides for quick edits.
package config

import (
	"fmt"
	"os"
	"strings"

	// godotenv reads a .env file into the process environment for local development.
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port        string // The TCP port the HTTP server listens on (e.g., "8080")
	DatabaseURL string // Postgres URL, or "sqlite://path/to/file.db" for a local file
	JWTSecret   string // HMAC secret used to verify scorer tokens; empty disables auth
	Env         string // "development", "staging", or "production"

	Tournament Tournament
}

// Tournament describes the fixed shape of the event: two teams and three days of matches.
type Tournament struct {
	Name  string `yaml:"name"`
	TeamA Team   `yaml:"team_a"`
	TeamB Team   `yaml:"team_b"`
	Days  []Day  `yaml:"days"`
}

// Team is one of the two rosters.
type Team struct {
	Name    string   `yaml:"name"`
	Players []string `yaml:"players"`
}

// Day is one day of play. Matches holds the pairing text, one "A vs B" or
// "A & A2 vs B & B2" line per match.
type Day struct {
	Number   int      `yaml:"number"`
	Format   string   `yaml:"format"` // singles, scramble or foursomes
	Subtitle string   `yaml:"subtitle"`
	Rules    []string `yaml:"rules"`
	Matches  string   `yaml:"matches"`
}

// Load reads configuration from environment variables and returns a populated Config.
// A missing .env file is not an error; a TOURNAMENT_FILE that can't be read or parsed is.
func Load() (*Config, error) {
	// The error is intentionally ignored: in production the environment is already set.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	tournament := DefaultTournament()
	if path := os.Getenv("TOURNAMENT_FILE"); path != "" {
		t, err := LoadTournament(path)
		if err != nil {
			return nil, err
		}
		tournament = *t
	}
	applyTournamentEnv(&tournament)

	return &Config{
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Env:         env,
		Tournament:  tournament,
	}, nil
}

// LoadTournament reads a tournament definition from a YAML file.
func LoadTournament(path string) (*Tournament, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tournament file: %w", err)
	}

	var t Tournament
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse tournament file %s: %w", path, err)
	}
	return &t, nil
}

// applyTournamentEnv lets rosters and pairings be tweaked without a file:
// TEAM_A_PLAYERS / TEAM_B_PLAYERS are comma separated, DAY1_MATCHES..DAY3_MATCHES
// are newline separated (a literal "\n" also works, since env files are single-line).
func applyTournamentEnv(t *Tournament) {
	if v := os.Getenv("TEAM_A_PLAYERS"); v != "" {
		t.TeamA.Players = splitList(v)
	}
	if v := os.Getenv("TEAM_B_PLAYERS"); v != "" {
		t.TeamB.Players = splitList(v)
	}
	for i := range t.Days {
		key := fmt.Sprintf("DAY%d_MATCHES", t.Days[i].Number)
		if v := os.Getenv(key); v != "" {
			t.Days[i].Matches = strings.ReplaceAll(v, `\n`, "\n")
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultTournament is the tournament the scorekeeper was first built for.
func DefaultTournament() Tournament {
	return Tournament{
		Name:  "Ryder Cup",
		TeamA: Team{Name: "Team A", Players: []string{"Nikhit", "Andrew", "Matt C", "Greg"}},
		TeamB: Team{Name: "Team B", Players: []string{"Aaron", "Tony", "Matt N", "Ryan"}},
		Days: []Day{
			{
				Number:   1,
				Format:   "singles",
				Subtitle: "Singles Matches (18 Holes)",
				Rules:    []string{"One-on-one match play.", "1 pt win, 0.5 pt tie.", "4 pts total."},
				Matches:  "Nikhit vs Aaron\nAndrew vs Tony\nMatt C vs Matt N\nGreg vs Ryan",
			},
			{
				Number:   2,
				Format:   "scramble",
				Subtitle: "2v2 Scramble (18 Holes)",
				Rules:    []string{"Pick best tee shot, both play.", "1 pt match, 0.5 pt tie.", "2 pts total."},
				Matches:  "Nikhit & Matt C vs Aaron & Matt N\nAndrew & Greg vs Tony & Ryan",
			},
			{
				Number:   3,
				Format:   "foursomes",
				Subtitle: "Alternate Shot (Foursomes, 18 Holes)",
				Rules:    []string{"One ball, alternate shots & tees.", "1 pt match, 0.5 pt tie.", "2 pts total."},
				Matches:  "Nikhit & Andrew vs Aaron & Tony\nMatt C & Greg vs Matt N & Ryan",
			},
		},
	}
}
