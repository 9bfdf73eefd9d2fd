package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ShiJbey/neighborly/internal/engine"
	"github.com/ShiJbey/neighborly/internal/entities"
	"github.com/ShiJbey/neighborly/internal/lifeevents"
	"github.com/ShiJbey/neighborly/internal/metrics"
	"github.com/ShiJbey/neighborly/internal/random"
	"github.com/ShiJbey/neighborly/internal/stats"
	"github.com/ShiJbey/neighborly/internal/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var placeNames = []string{"The Rusty Anchor", "Town Library", "Bakery", "Blacksmith", "Market Hall", "Chapel"}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	library, err := loadLibrary(ctx)
	if err != nil {
		return err
	}

	var rng random.Source
	var generator uuid.Generator
	if cfg.Simulation.Seed != 0 {
		rng = random.NewSeeded(cfg.Simulation.Seed)
		generator = uuid.NewSequenceGenerator("e")
	} else {
		rng = random.NewFromClock()
		generator = uuid.NewGoogleUUIDGenerator()
	}

	recorder := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Addr != "" {
		shutdown := serveMetrics(cfg.Metrics.Addr)
		defer shutdown()
	}

	sim := engine.New(&engine.Config{
		Library:    library,
		Generator:  generator,
		Random:     rng,
		Metrics:    recorder,
		Logger:     logger,
		LifeEvents: lifeevents.Defaults(),
	})

	if err := populate(ctx, sim, rng); err != nil {
		return err
	}

	for i := 0; i < cfg.Simulation.Steps; i++ {
		if ctx.Err() != nil {
			logger.Info("interrupted", "step", sim.StepCount())
			break
		}
		if _, err := sim.Step(ctx); err != nil {
			return err
		}
	}

	return summarize(ctx, cmd.OutOrStdout(), sim)
}

func populate(ctx context.Context, sim *engine.Simulation, rng random.Source) error {
	for i := 0; i < cfg.Simulation.Places; i++ {
		var traitIDs []string
		if len(placeTraits) > 0 {
			if id := placeTraits[i%len(placeTraits)]; sim.Library().Has(id) {
				traitIDs = append(traitIDs, id)
			}
		}
		name := placeNames[i%len(placeNames)]
		if _, err := sim.SpawnPlace(ctx, name, entities.KindBusiness, traitIDs...); err != nil {
			return err
		}
	}

	for i := 0; i < cfg.Simulation.Population; i++ {
		stage := entities.LifeStage(rng.IntN(int(entities.LifeStageSenior) + 1))
		c, err := sim.SpawnCharacter(ctx, &engine.CharacterSpec{
			Name:         fmt.Sprintf("Resident %d", i+1),
			Sex:          entities.Sex(1 + rng.IntN(2)),
			LifeStage:    stage,
			RandomTraits: 2,
		})
		if err != nil {
			return err
		}
		for _, id := range []string{stats.Charm, stats.Stewardship, stats.Sociability} {
			stat, err := c.GetStat(id)
			if err != nil {
				return err
			}
			stat.SetBaseValue(float64(rng.IntN(101)))
		}
	}
	return nil
}

func summarize(ctx context.Context, w io.Writer, sim *engine.Simulation) error {
	characters, err := sim.Store().List(ctx, entities.KindCharacter)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "after %d steps: %d characters, %d relationships\n",
		sim.StepCount(), len(characters), sim.Directory().Count())
	for _, c := range characters {
		rep := 0.0
		for _, rel := range sim.Directory().Outgoing(c) {
			v, err := sim.GetStatValue(rel, stats.Reputation)
			if err != nil {
				return err
			}
			rep += v
		}
		fmt.Fprintf(w, "  %-14s %-12s traits=%v outgoing=%d reputation=%+g\n",
			c.Name, c.LifeStage, c.Traits.IDs(), len(c.Relationships.AllOutgoing()), rep)
	}
	return nil
}

// serveMetrics exposes /metrics until the returned func is called
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
