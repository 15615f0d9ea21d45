package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/ryder-cup/internal/models"
	"github.com/trentd187/ryder-cup/internal/pairing"
	"github.com/trentd187/ryder-cup/internal/scoring"
	"github.com/trentd187/ryder-cup/internal/tournament"
	"github.com/trentd187/ryder-cup/internal/websocket"
)

// TournamentResponse describes the fixed setup: rosters, days, matches and the
// challenge catalog. Scores are served separately.
type TournamentResponse struct {
	Name       string              `json:"name"`
	TeamA      tournament.Team     `json:"team_a"`
	TeamB      tournament.Team     `json:"team_b"`
	Days       []DayResponse       `json:"days"`
	Challenges []scoring.Challenge `json:"challenges"`
}

// DayResponse is one day of the setup.
type DayResponse struct {
	Number   int              `json:"number"`
	Format   models.DayFormat `json:"format"`
	Subtitle string           `json:"subtitle"`
	Rules    []string         `json:"rules"`
	Matches  []MatchResponse  `json:"matches"`
}

// MatchResponse is one pairing. KeyA and KeyB are the names stroke entries and
// points are recorded under.
type MatchResponse struct {
	Index int           `json:"index"`
	Label string        `json:"label"`
	SideA scoring.Group `json:"side_a"`
	SideB scoring.Group `json:"side_b"`
	KeyA  string        `json:"key_a"`
	KeyB  string        `json:"key_b"`
}

// GetTournament returns a handler for GET /api/v1/tournament.
func GetTournament(svc *tournament.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := svc.Tournament()
		resp := TournamentResponse{
			Name:       t.Name,
			TeamA:      t.TeamA,
			TeamB:      t.TeamB,
			Days:       make([]DayResponse, 0, len(t.Days)),
			Challenges: scoring.Catalog,
		}
		for _, d := range t.Days {
			day := DayResponse{
				Number:   d.Number,
				Format:   d.Format,
				Subtitle: d.Subtitle,
				Rules:    d.Rules,
				Matches:  make([]MatchResponse, 0, len(d.Matches)),
			}
			for _, m := range d.Matches {
				a, b := m.Matchup.Groups()
				ka, kb := m.Matchup.Keys()
				day.Matches = append(day.Matches, MatchResponse{
					Index: m.Index,
					Label: m.Label(),
					SideA: a,
					SideB: b,
					KeyA:  ka,
					KeyB:  kb,
				})
			}
			resp.Days = append(resp.Days, day)
		}
		return c.JSON(resp)
	}
}

// GetScoreboard returns a handler for GET /api/v1/scoreboard.
func GetScoreboard(svc *tournament.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sb, err := svc.Scoreboard(c.UserContext())
		if err != nil {
			return respondError(c, err, "failed to compute scoreboard")
		}
		return c.JSON(sb)
	}
}

// GetDay returns a handler for GET /api/v1/days/:day.
func GetDay(svc *tournament.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, ok, err := intParam(c, "day")
		if !ok {
			return err
		}

		view, err := svc.Day(c.UserContext(), day)
		if err != nil {
			return respondError(c, err, "failed to fetch day")
		}
		return c.JSON(view)
	}
}

// ParsePairings handles POST /api/v1/pairings/parse. The body is raw pairing text,
// one "A vs B" or "A & B vs C & D" per line; the response lists the parsed pairs
// and any lines that were skipped. Nothing is saved.
func ParsePairings(c *fiber.Ctx) error {
	text := string(c.Body())
	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "pairing text is required",
		})
	}

	res := pairing.Parse(text)
	if res.Pairings == nil {
		res.Pairings = []pairing.Pairing{}
	}
	return c.JSON(res)
}

// LiveDay returns the validation step in front of websocket.Serve on
// GET /ws/days/:day: it rejects unknown days and hands the day number on.
func LiveDay(svc *tournament.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, ok, err := intParam(c, "day")
		if !ok {
			return err
		}
		if _, err := svc.Tournament().Day(day); err != nil {
			return respondError(c, err, "failed to open live feed")
		}
		c.Locals(websocket.LocalDay, day)
		return c.Next()
	}
}
