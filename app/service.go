// Package app wires configuration, adapters and the simulation core into
// the live comparison and optimization workflows.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apiresults "github.com/kilianp07/rescuesim/api/results"
	"github.com/kilianp07/rescuesim/app/plugins"
	"github.com/kilianp07/rescuesim/config"
	"github.com/kilianp07/rescuesim/core/events"
	coremetrics "github.com/kilianp07/rescuesim/core/metrics"
	"github.com/kilianp07/rescuesim/core/model"
	coremon "github.com/kilianp07/rescuesim/core/monitoring"
	coremqtt "github.com/kilianp07/rescuesim/core/mqtt"
	"github.com/kilianp07/rescuesim/core/optimizer"
	"github.com/kilianp07/rescuesim/core/results"
	"github.com/kilianp07/rescuesim/core/sim"
	"github.com/kilianp07/rescuesim/core/world"
	"github.com/kilianp07/rescuesim/infra/logger"
	"github.com/kilianp07/rescuesim/infra/metrics"
	inframon "github.com/kilianp07/rescuesim/infra/monitoring"
	"github.com/kilianp07/rescuesim/infra/mqtt"
	"github.com/kilianp07/rescuesim/internal/eventbus"
)

// liveBuffer is the per-subscriber buffer of the live event bus.
const liveBuffer = 1024

// Service owns the adapters built from the configuration.
type Service struct {
	cfg  *config.Config
	log  logger.Logger
	sink coremetrics.MetricsSink

	// newPublisher opens the MQTT snapshot publisher; replaced in tests.
	newPublisher func(mqtt.Config) (snapshotPublisher, error)
}

type snapshotPublisher interface {
	coremqtt.SnapshotPublisher
	Disconnect()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	return &Service{
		cfg:  cfg,
		log:  logg,
		sink: sink,
		newPublisher: func(c mqtt.Config) (snapshotPublisher, error) {
			return mqtt.NewPahoClient(c)
		},
	}, nil
}

// ServeMetrics exposes Prometheus metrics until ctx is cancelled when an
// address is configured.
func (s *Service) ServeMetrics(ctx context.Context) {
	addr := s.cfg.Metrics.PrometheusAddr
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, addr); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// LiveOptions select the world and pacing of a live comparison.
type LiveOptions struct {
	Size     model.ScenarioSize
	Seed     int64
	Interval time.Duration
	Publish  bool
}

// LiveOptionsFromConfig reads the simulation and live sections.
func (s *Service) LiveOptionsFromConfig() LiveOptions {
	sc := s.cfg.Simulation
	return LiveOptions{
		Size:     sc.ScenarioSize(),
		Seed:     sc.Seed,
		Interval: time.Duration(sc.IntervalMS) * time.Millisecond,
		Publish:  s.cfg.Live.Publish,
	}
}

// RunLive steps the reference groups on one generated world and returns
// their standings.
func (s *Service) RunLive(ctx context.Context, opts LiveOptions) ([]sim.Standing, error) {
	sc, err := world.NewScenario(opts.Size, opts.Seed)
	if err != nil {
		return nil, err
	}
	groups := s.cfg.Live.Select(sim.ReferenceGroups(sc.Center))

	bus := eventbus.NewTypedBuffered[eventbus.Event](liveBuffer)
	collected := metrics.StartEventCollector(ctx, bus, s.sink)
	progressed := s.logProgress(bus)
	defer func() {
		bus.Close()
		<-collected
		<-progressed
	}()

	sessionOpts := []sim.SessionOption{sim.WithBus(bus), sim.WithLogger(logger.New("live"))}
	if opts.Publish {
		mcfg := s.cfg.MQTT
		mcfg.SetDefaults()
		pub, err := s.newPublisher(mcfg)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		defer pub.Disconnect()
		sessionOpts = append(sessionOpts, sim.WithPublisher(pub))
	}

	session, err := sim.NewSession(sc, groups, s.cfg.Simulation.Options(), sessionOpts...)
	if err != nil {
		return nil, err
	}
	s.log.Infof("live comparison on %s: %d tasks, %.0f victims, groups %v",
		sc.Name(), len(sc.InitialTasks), sc.TotalInitialVictims, session.Groups())
	return session.Run(ctx, opts.Interval)
}

// logProgress logs every group's state each Live.ProgressEvery ticks.
func (s *Service) logProgress(bus eventbus.EventBus) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	every := s.cfg.Live.ProgressEvery
	log := logger.New("progress")
	go func() {
		defer close(done)
		ticks := map[string]int{}
		for ev := range sub {
			e, ok := ev.(events.TickEvent)
			if !ok {
				continue
			}
			ticks[e.Group]++
			if every > 0 && ticks[e.Group]%every == 0 {
				log.Debugw("tick", map[string]any{
					"group":   e.Group,
					"time":    e.Time,
					"rescued": e.Rescued,
					"open":    e.Remaining,
				})
			}
		}
	}()
	return done
}

// Optimize ranks the configured parameter space on the configured battery
// and stores the ranking when a result store is configured.
func (s *Service) Optimize(ctx context.Context, space optimizer.ParameterSpace) (optimizer.Report, error) {
	battery := optimizer.Battery{Entries: s.cfg.Optimizer.Battery}
	scenarios, err := battery.Build()
	if err != nil {
		return optimizer.Report{}, err
	}
	opt := s.cfg.Optimizer.New(
		optimizer.WithLogger(logger.New("optimizer")),
		optimizer.WithSink(s.sink),
	)
	rep, err := opt.Optimize(ctx, space, scenarios)
	if err != nil {
		return optimizer.Report{}, err
	}
	store, err := plugins.OpenResultStore(s.cfg.Results)
	if err != nil {
		return rep, err
	}
	if store == nil {
		return rep, nil
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			s.log.Warnf("close result store: %v", cerr)
		}
	}()
	if err := results.SaveReport(ctx, store, rep); err != nil {
		return rep, fmt.Errorf("save report: %w", err)
	}
	s.log.Infof("stored %d ranked configurations of run %s in %s", len(rep.Ranked), rep.RunID, s.cfg.Results.Path)
	return rep, nil
}

// Results queries the configured result store.
func (s *Service) Results(ctx context.Context, q results.Query) ([]results.Record, error) {
	store, err := plugins.OpenResultStore(s.cfg.Results)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("no result store configured")
	}
	defer func() { _ = store.Close() }()
	return store.Query(ctx, q)
}

// ServeAPI serves the stored rankings on the configured API address until
// ctx is cancelled.
func (s *Service) ServeAPI(ctx context.Context) error {
	store, err := plugins.OpenResultStore(s.cfg.Results)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no result store configured")
	}
	defer func() { _ = store.Close() }()

	mux := http.NewServeMux()
	mux.Handle("/api/results", apiresults.NewHandler(store, s.cfg.API.Token))
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving results api on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close flushes pending error reports.
func (s *Service) Close() error {
	coremon.Flush(2 * time.Second)
	return nil
}
