package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/api"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/cache"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/config"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfs"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/internal"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/planner"
	"github.com/theoremus-urban-solutions/gtfs-route-planner/utils"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	internal.InitLogging()

	app := &cli.App{
		Name:  "route-planner",
		Usage: "Plan bus trips between sights with live crowding",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default config.yml or ./config/config.yml)",
			},
			&cli.StringFlag{
				Name:  "feed",
				Usage: "feed name from config feeds[]",
			},
		},
		Before: func(c *cli.Context) error {
			var paths []string
			if p := c.String("config"); p != "" {
				paths = append(paths, p)
			}
			return config.LoadAppConfig(paths...)
		},
		Commands: []*cli.Command{
			serveCommand(),
			planCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// stack is the data plumbing shared by every command.
type stack struct {
	static  *gtfs.Store
	live    *gtfsrt.Store
	loader  *staticLoader
	poller  *gtfsrt.Poller
	service *planner.Service
}

func newStack(ctx context.Context, feed string) (*stack, error) {
	gtfsCfg, rtCfg := config.SelectFeed(feed)
	client := gtfsrt.NewClient(rtCfg.Timeout())

	loader, err := newStaticLoader(client, gtfsCfg)
	if err != nil {
		return nil, err
	}

	var pollOpts []gtfsrt.PollerOption
	pollOpts = append(pollOpts, gtfsrt.WithInterval(rtCfg.ReadInterval()))
	if rtCfg.StaleAfter != "" {
		staleAfter, err := iso8601.ParseISO8601(rtCfg.StaleAfter)
		if err != nil {
			return nil, fmt.Errorf("gtfsrt staleAfter %q: %w", rtCfg.StaleAfter, err)
		}
		pollOpts = append(pollOpts, gtfsrt.WithStaleAfter(staleAfter))
	}

	pcfg, err := plannerConfig(config.Config.Planner)
	if err != nil {
		return nil, err
	}

	rt := &stack{static: &gtfs.Store{}, live: &gtfsrt.Store{}, loader: loader}
	rt.poller = gtfsrt.NewPoller(client, rt.live, rtCfg.PositionURLs(), pollOpts...)
	if rt.service, err = planner.NewService(rt.static, rt.live, pcfg); err != nil {
		return nil, err
	}

	tables, err := loader.load(ctx)
	if err != nil {
		return nil, err
	}
	rt.static.Swap(gtfs.NewIndex(tables))
	return rt, nil
}

func plannerConfig(c config.PlannerConfig) (planner.Config, error) {
	sensitive, err := gtfsrt.ParseOccupancyLevel(c.SensitiveThreshold)
	if err != nil {
		return planner.Config{}, err
	}
	tolerant, err := gtfsrt.ParseOccupancyLevel(c.TolerantThreshold)
	if err != nil {
		return planner.Config{}, err
	}
	return planner.Config{
		Options: planner.Options{
			MaxWalkingMeters: c.MaxWalkingMeters,
			WalkingSpeed:     c.WalkingSpeed,
		},
		Thresholds:      planner.Thresholds{Sensitive: sensitive, Tolerant: tolerant},
		MaxAlternatives: c.MaxAlternatives,
		Timezone:        c.Timezone,
		ScoreExpression: c.ScoreExpression,
	}, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port (overrides server.port)",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newStack(ctx, c.String("feed"))
			if err != nil {
				return err
			}
			go rt.poller.Run(ctx)
			go rt.loader.run(ctx, rt.static)

			ttl := time.Duration(config.Config.Server.CacheTTLSeconds) * time.Second
			responses, err := cache.Connect(ctx, config.Config.Redis, ttl)
			if err != nil {
				return err
			}

			server := api.NewServer(api.Deps{
				Config:  config.Config,
				Static:  rt.static,
				Live:    rt.live,
				Planner: rt.service,
				Cache:   responses,
			})

			port := config.Config.Server.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}
			errs := make(chan error, 1)
			go func() { errs <- server.Listen(port) }()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("Shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			log.Info().Msg("Server shut down successfully")
			return nil
		},
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Plan one trip between two configured spots and print it as JSON",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "origin spot id", Required: true},
			&cli.StringFlag{Name: "to", Usage: "destination spot id", Required: true},
			&cli.TimestampFlag{Name: "time", Usage: "reference time (RFC3339), default now", Layout: time.RFC3339},
			&cli.BoolFlag{Name: "luggage", Usage: "traveling with luggage"},
			&cli.StringFlag{Name: "sort", Usage: "time, fare, transfers or score"},
		},
		Action: func(c *cli.Context) error {
			origin, err := spotEndpoint(c.String("from"))
			if err != nil {
				return err
			}
			destination, err := spotEndpoint(c.String("to"))
			if err != nil {
				return err
			}
			sortBy := c.String("sort")
			if sortBy == "" {
				sortBy = config.Config.Planner.DefaultSort
			}
			criterion, err := planner.ParseSortCriterion(sortBy)
			if err != nil {
				return err
			}
			ref := time.Now()
			if t := c.Timestamp("time"); t != nil {
				ref = *t
			}

			rt, err := newStack(c.Context, c.String("feed"))
			if err != nil {
				return err
			}
			if err := rt.poller.Refresh(c.Context); err != nil {
				log.Warn().Err(err).Msg("No live data, planning without crowding")
				rt.live.Swap(gtfsrt.NewSnapshot(nil, ref.Unix()))
			}

			res, err := rt.service.PlanRoute(planner.PlanRequest{
				Origin:        origin,
				Destination:   destination,
				ReferenceTime: ref,
				HasLuggage:    c.Bool("luggage"),
				SortBy:        criterion,
			})
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func spotEndpoint(id string) (planner.Endpoint, error) {
	spot, ok := config.Config.Spot(id)
	if !ok {
		return planner.Endpoint{}, fmt.Errorf("unknown spot %q", id)
	}
	return planner.Endpoint{ID: spot.ID, Name: spot.Name, Position: utils.Point{Lat: spot.Lat, Lon: spot.Lon}}, nil
}
