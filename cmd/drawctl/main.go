// Command drawctl runs and inspects event draws directly against the
// database, bypassing NATS.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	authdomain "github.com/Black-And-White-Club/league-night/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/jwt"
	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/metrics"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/Black-And-White-Club/league-night/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	eventFlags := []cli.Flag{
		&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Required: true, Usage: "league id"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Required: true, Usage: `event date, "YYYY-MM-DD" or e.g. "next tuesday"`},
	}

	return &cli.App{
		Name:  "drawctl",
		Usage: "run and inspect league night draws",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run (or re-run) the draw of an event",
				Flags: append([]cli.Flag{
					&cli.Int64Flag{Name: "seed", Usage: "reproduce a draw with this seed"},
					&cli.StringFlag{Name: "by", Usage: "player id recorded as the creator"},
				}, eventFlags...),
				Action: runDraw,
			},
			{
				Name:   "show",
				Usage:  "print the stored draw of an event as JSON",
				Flags:  eventFlags,
				Action: showDraw,
			},
			{
				Name:  "export",
				Usage: "write the stored draw of an event as an xlsx workbook",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to draw-<league>-<date>.xlsx"},
				}, eventFlags...),
				Action: exportDraw,
			},
			{
				Name:  "token",
				Usage: "issue an API bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "league", Aliases: []string{"l"}, Required: true},
					&cli.StringFlag{Name: "player", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "role", Value: string(sharedtypes.RolePlayer), Usage: "player or organizer"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, defaults to jwt.default_ttl"},
				},
				Action: issueToken,
			},
		},
	}
}

// env is what every subcommand needs: config, a database and the draw
// service on top of it.
type env struct {
	cfg     *config.Config
	db      *bun.DB
	service *drawservice.DrawService
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	obs := observability.Init(observability.Config{
		ServiceName: "drawctl",
		Environment: cfg.Observability.Environment,
		LogLevel:    cfg.Observability.LogLevel,
		Output:      os.Stderr,
	})

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	resolver := attendanceservice.NewResolver(attendancedb.NewRepository(db))
	service := drawservice.NewDrawService(drawdb.NewRepository(db), resolver, obs.Logger, metrics.NoopDrawMetrics{}, obs.Tracer, db, drawservice.Config{
		MatchesPerPair: cfg.Draw.MatchesPerPair,
		StrictSchedule: cfg.Draw.StrictSchedule,
	})
	return &env{cfg: cfg, db: db, service: service}, nil
}

func eventFrom(c *cli.Context) (sharedtypes.EventKey, error) {
	date, err := newDateParser(time.Now).Parse(c.String("date"))
	if err != nil {
		return sharedtypes.EventKey{}, err
	}
	return sharedtypes.EventKey{LeagueID: sharedtypes.LeagueID(c.String("league")), Date: date}, nil
}

func runDraw(c *cli.Context) error {
	event, err := eventFrom(c)
	if err != nil {
		return err
	}
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.db.Close()

	cmd := drawservice.RunDrawCommand{Event: event, CreatedBy: sharedtypes.PlayerID(c.String("by"))}
	if c.IsSet("seed") {
		seed := c.Int64("seed")
		cmd.Seed = &seed
	}

	result, err := e.service.RunDraw(c.Context, cmd)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func showDraw(c *cli.Context) error {
	event, err := eventFrom(c)
	if err != nil {
		return err
	}
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.db.Close()

	result, err := e.service.GetDraw(c.Context, event)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func exportDraw(c *cli.Context) error {
	event, err := eventFrom(c)
	if err != nil {
		return err
	}
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.db.Close()

	data, err := e.service.ExportDraw(c.Context, event)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = fmt.Sprintf("draw-%s-%s.xlsx", event.LeagueID, event.Date)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", out, len(data))
	return nil
}

func issueToken(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	token, err := signToken(cfg, c.String("league"), c.String("player"), c.String("role"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

func signToken(cfg *config.Config, league, player, role string, ttl time.Duration) (string, error) {
	if cfg.JWT.Secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	r := sharedtypes.Role(role)
	if r != sharedtypes.RolePlayer && r != sharedtypes.RoleOrganizer {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		ttl = cfg.JWT.DefaultTTL
	}
	return authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer).GenerateToken(&authdomain.Claims{
		PlayerID: sharedtypes.PlayerID(player),
		LeagueID: sharedtypes.LeagueID(league),
		Role:     r,
	}, ttl)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
