package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hoopmatch/internal/api"
	"github.com/hoopmatch/internal/auth"
	"github.com/hoopmatch/internal/cache"
	"github.com/hoopmatch/internal/config"
	"github.com/hoopmatch/internal/domain"
	"github.com/hoopmatch/internal/game"
	"github.com/hoopmatch/internal/geo"
	"github.com/hoopmatch/internal/mapview"
	"github.com/hoopmatch/internal/review"
	"github.com/hoopmatch/internal/session"
	"github.com/hoopmatch/internal/timefmt"
)

// app bundles the wired client components for one command invocation
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	session  *session.Store
	client   *api.Client
	auth     *auth.Controller
	games    *game.Controller
	reviews  *review.Controller
	location *geo.Provider
	zone     *time.Location
}

func newApp(c *cli.Context) (*app, error) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	sess := session.NewStore(&cfg.Session, logger)
	if err := sess.Load(); err != nil {
		return nil, err
	}

	// Position source precedence: explicit flags, then the session's last
	// known coordinates, then the configured fallback.
	var source geo.Source
	switch {
	case c.IsSet("lat") && c.IsSet("lng"):
		source = geo.Fixed{Latitude: c.Float64("lat"), Longitude: c.Float64("lng")}
	default:
		if cur, ok := sess.Current(); ok && (cur.User.LocationLat != 0 || cur.User.LocationLng != 0) {
			source = geo.Fixed{
				Latitude:  cur.User.LocationLat,
				Longitude: cur.User.LocationLng,
			}
		}
	}
	location := geo.NewProvider(source, &cfg.Location, logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		location: location,
		zone:     timefmt.DisplayZone(cfg.Display.Timezone),
	}

	a.client = api.New(&cfg.API, logger,
		api.WithTokenSource(sess.Token),
		api.WithUnauthorizedHandler(func() { a.auth.HandleUnauthorized() }),
	)
	a.auth = auth.NewController(a.client, sess, location, logger)
	a.auth.OnForcedLogout(func() {
		fmt.Fprintln(os.Stderr, "session expired, please log in again")
	})
	a.games = game.NewController(a.client, sess, cache.NewGames(), cache.NewCourts(),
		cfg.Location.RadiusKm, time.Local, logger)
	a.reviews = review.NewController(a.client, sess, logger)

	return a, nil
}

// fail renders controller and server errors for the terminal. Server domain
// rejections surface their message verbatim.
func fail(err error) error {
	return cli.Exit(api.MessageOf(err), 1)
}

func (a *app) printGames(games []domain.Game) {
	if len(games) == 0 {
		fmt.Println("no games")
		return
	}
	for _, g := range games {
		fmt.Printf("#%-4d %-24s %s  %d/%d  %s  host=%s\n",
			g.ID, g.CourtName, timefmt.Display(g.ScheduledTime, a.zone),
			g.CurrentPlayers, g.MaxPlayers, g.Status, g.HostName)
	}
}

func (a *app) printReviews(reviews []domain.Review) {
	if len(reviews) == 0 {
		fmt.Println("no reviews")
		return
	}
	for _, r := range reviews {
		fmt.Printf("#%-4d %s -> %s (%s)  %d/5  %s\n",
			r.RatingID, r.ReviewerName, r.RevieweeName, r.RevieweeRole, r.Rating, r.Comment)
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "hoopmatch",
		Usage: "find and join pickup basketball games nearby",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
			&cli.Float64Flag{Name: "lat", Usage: "override the device latitude"},
			&cli.Float64Flag{Name: "lng", Usage: "override the device longitude"},
		},
		Commands: []*cli.Command{
			newAuthCommands(),
			newCourtCommands(),
			newGameCommands(),
			newReviewCommand(),
			newWatchCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAuthCommands() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "account and session management",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "log in and persist the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					user, err := a.auth.Login(c.Context, c.String("name"), c.String("password"))
					if err != nil {
						return fail(err)
					}
					fmt.Printf("logged in as %s (user %d)\n", user.Name, user.ID)
					return nil
				},
			},
			{
				Name:  "signup",
				Usage: "create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.BoolFlag{Name: "has-ball", Usage: "whether you bring a ball"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					user, err := a.auth.Signup(c.Context, c.String("name"), c.String("password"), c.Bool("has-ball"))
					if err != nil {
						return fail(err)
					}
					fmt.Printf("signed up as %s (user %d)\n", user.Name, user.ID)
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "clear the persisted session",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.auth.Logout(); err != nil {
						return fail(err)
					}
					fmt.Println("logged out")
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "show the current session",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					cur, ok := a.session.Current()
					if !ok {
						fmt.Println("not logged in")
						return nil
					}
					fmt.Printf("%s (user %d)\n", cur.User.Name, cur.User.ID)
					if exp, ok := a.session.TokenExpiresAt(); ok {
						fmt.Printf("token expires %s\n", timefmt.Display(domain.Instant{Time: exp}, a.zone))
					}
					return nil
				},
			},
			{
				Name:  "sync-location",
				Usage: "report the current position to the server",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					loc, err := a.auth.SyncLocation(c.Context)
					if err != nil {
						return fail(err)
					}
					fmt.Printf("location updated to (%.4f, %.4f)\n", loc.Latitude, loc.Longitude)
					return nil
				},
			},
		},
	}
}

func newCourtCommands() *cli.Command {
	return &cli.Command{
		Name:  "courts",
		Usage: "list courts and their games",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list every court",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					courts, err := a.games.FetchCourts(c.Context)
					if err != nil {
						return fail(err)
					}
					for _, court := range courts {
						kind := "outdoor"
						if court.IsIndoor {
							kind = "indoor"
						}
						fmt.Printf("#%-4d %-24s %s (%.4f, %.4f)\n",
							court.ID, court.Name, kind, court.LocationLat, court.LocationLng)
					}
					return nil
				},
			},
			{
				Name:      "games",
				Usage:     "list the games scheduled at one court",
				ArgsUsage: "<court-id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					courtID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					games, err := a.games.FetchCourtGames(c.Context, courtID)
					if err != nil {
						return fail(err)
					}
					a.printGames(games)
					return nil
				},
			},
		},
	}
}

func newGameCommands() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "find, create and manage games",
		Subcommands: []*cli.Command{
			{
				Name:  "nearby",
				Usage: "list games near the current position",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					loc := a.location.Current(c.Context)
					games, err := a.games.FetchNearby(c.Context, loc)
					if err != nil {
						return fail(err)
					}
					a.printGames(games)
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "schedule a new game",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "court", Usage: "court id"},
					&cli.IntFlag{Name: "max-players", Value: 10},
					&cli.StringFlag{Name: "date", Usage: "local date, 2006-01-02", Required: true},
					&cli.StringFlag{Name: "time", Usage: "local time, 15:04", Required: true},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					g, err := a.games.Create(c.Context, game.CreateInput{
						CourtID:    c.Int64("court"),
						MaxPlayers: c.Int("max-players"),
						Date:       c.String("date"),
						Clock:      c.String("time"),
					})
					if err != nil {
						return fail(err)
					}
					fmt.Printf("game %d created at %s for %s\n",
						g.ID, g.CourtName, timefmt.Display(g.ScheduledTime, a.zone))
					return nil
				},
			},
			{
				Name:      "join",
				Usage:     "join a game",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Value: string(domain.RolePlayer), Usage: "player, referee or spectator"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					gameID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					g, err := a.games.Join(c.Context, gameID, domain.ParticipantRole(c.String("role")))
					if err != nil {
						return fail(err)
					}
					fmt.Printf("joined game %d (%d/%d, %s)\n", g.ID, g.CurrentPlayers, g.MaxPlayers, g.Status)
					return nil
				},
			},
			{
				Name:      "leave",
				Usage:     "leave a game",
				ArgsUsage: "<game-id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					gameID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					g, err := a.games.Leave(c.Context, gameID)
					if err != nil {
						return fail(err)
					}
					if g == nil {
						fmt.Printf("left game %d, it had no participants left and was deleted\n", gameID)
						return nil
					}
					fmt.Printf("left game %d (%d/%d remain)\n", g.ID, g.CurrentPlayers, g.MaxPlayers)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a game you host",
				ArgsUsage: "<game-id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					gameID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					if err := a.games.Delete(c.Context, gameID); err != nil {
						return fail(err)
					}
					fmt.Printf("game %d deleted\n", gameID)
					return nil
				},
			},
			{
				Name:  "ongoing",
				Usage: "list your games still recruiting or fully recruited",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					games, err := a.games.Ongoing(c.Context)
					if err != nil {
						return fail(err)
					}
					a.printGames(games)
					return nil
				},
			},
			{
				Name:  "past",
				Usage: "list your ended games",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					games, err := a.games.Past(c.Context)
					if err != nil {
						return fail(err)
					}
					a.printGames(games)
					return nil
				},
			},
		},
	}
}

func newReviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "reviews",
		Usage: "rate players and referees after a game",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "list the reviews for one game",
				ArgsUsage: "<game-id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					gameID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					state, err := a.reviews.FetchGameReviews(c.Context, gameID)
					if err != nil {
						return fail(err)
					}
					a.printReviews(state.All)
					if len(state.Mine) > 0 {
						fmt.Printf("yours: %d of the above\n", len(state.Mine))
					}
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "rate a participant of a finished game",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "game", Required: true},
					&cli.StringFlag{Name: "reviewee", Required: true, Usage: "name of the rated participant"},
					&cli.StringFlag{Name: "role", Value: string(domain.RevieweePlayer), Usage: "PLAYER or REFEREE"},
					&cli.IntFlag{Name: "rating", Required: true, Usage: "1 to 5"},
					&cli.StringFlag{Name: "comment"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					created, _, err := a.reviews.Create(c.Context, domain.CreateReviewRequest{
						GameID:       c.Int64("game"),
						RevieweeName: c.String("reviewee"),
						RevieweeRole: domain.RevieweeRole(c.String("role")),
						Rating:       c.Int("rating"),
						Comment:      c.String("comment"),
					})
					if err != nil {
						return fail(err)
					}
					fmt.Printf("review %d created\n", created.RatingID)
					return nil
				},
			},
			{
				Name:      "update",
				Usage:     "edit the rating and comment of your review",
				ArgsUsage: "<rating-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "game", Required: true},
					&cli.IntFlag{Name: "rating", Required: true, Usage: "1 to 5"},
					&cli.StringFlag{Name: "comment"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					ratingID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					updated, _, err := a.reviews.Update(c.Context, ratingID, c.Int64("game"), domain.UpdateReviewRequest{
						Rating:  c.Int("rating"),
						Comment: c.String("comment"),
					})
					if err != nil {
						return fail(err)
					}
					fmt.Printf("review %d updated\n", updated.RatingID)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete your review",
				ArgsUsage: "<rating-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "game", Required: true},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					ratingID, err := parseID(c.Args().First())
					if err != nil {
						return err
					}
					if _, err := a.reviews.Delete(c.Context, ratingID, c.Int64("game")); err != nil {
						return fail(err)
					}
					fmt.Printf("review %d deleted\n", ratingID)
					return nil
				},
			},
			{
				Name:      "summary",
				Usage:     "show a user's rating aggregates",
				ArgsUsage: "[user-id]",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					var userID int64
					if c.Args().Present() {
						userID, err = parseID(c.Args().First())
						if err != nil {
							return err
						}
					} else {
						cur, ok := a.session.Current()
						if !ok {
							return fail(domain.ErrNotAuthenticated)
						}
						userID = cur.User.ID
					}
					summary, err := a.reviews.FetchSummary(c.Context, userID)
					if err != nil {
						return fail(err)
					}
					fmt.Printf("player  %.2f over %d reviews\n", summary.PlayScore, summary.PlayCount)
					fmt.Printf("referee %.2f over %d reviews\n", summary.RefScore, summary.RefCount)
					return nil
				},
			},
		},
	}
}

// newWatchCommand runs the live map view: the position watcher resamples
// periodically and each fix refreshes the nearby games drawn on the surface.
func newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "follow nearby games on a live map until interrupted",
		Action: func(c *cli.Context) error {
			a, err := newApp(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			surface := mapview.NewConsoleSurface(os.Stdout)
			adapter := mapview.NewAdapter(surface, &a.cfg.Map, a.logger)
			adapter.OnGameClick(func(gameID int64) {
				if g, ok := a.games.Cached(gameID); ok {
					a.printGames([]domain.Game{g})
				}
			})
			if err := adapter.Start(ctx); err != nil {
				return err
			}
			defer adapter.Stop()

			if courts, err := a.games.FetchCourts(ctx); err == nil {
				adapter.ShowCourts(courts)
			} else {
				a.logger.Warn("failed to fetch courts", "error", err)
			}

			watcher := geo.NewWatcher(a.location, &a.cfg.Location, a.logger)
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer watcher.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			for {
				select {
				case <-quit:
					return nil
				case loc, ok := <-watcher.Updates():
					if !ok {
						return nil
					}
					adapter.CenterOn(loc)
					games, err := a.games.FetchNearby(ctx, loc)
					if err != nil {
						a.logger.Warn("nearby refresh failed", "error", err)
						continue
					}
					adapter.ShowGames(games)
				}
			}
		},
	}
}

func parseID(arg string) (int64, error) {
	if arg == "" {
		return 0, cli.Exit("missing id argument", 1)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid id %q", arg), 1)
	}
	return id, nil
}
