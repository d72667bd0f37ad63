package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/config"
	"codeberg.org/avatarlab/morphctl/internal/delivery"
	"codeberg.org/avatarlab/morphctl/internal/logger"
	"codeberg.org/avatarlab/morphctl/internal/measure"
	"codeberg.org/avatarlab/morphctl/internal/morph"
	"codeberg.org/avatarlab/morphctl/internal/pid"
	"codeberg.org/avatarlab/morphctl/internal/renderer"
	"codeberg.org/avatarlab/morphctl/internal/store"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if cfg.User == "" || cfg.Avatar == "" {
		logger.Fatal().Msg("--user and --avatar are required")
	}

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove()

	repo, err := store.NewRepository(store.Config{DBPath: cfg.Database})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open avatar store")
	}
	defer repo.Close()

	session, err := renderer.NewSession(cfg.RendererURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create renderer session")
	}
	defer session.Close()

	manager := delivery.NewManager(session, cfg.Debounce())
	defer manager.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if !cfg.Monitor {
		session.Connect(ctx)
	}

	app := &application{
		repo:    repo,
		engine:  morph.NewEngine(),
		manager: manager,
	}

	if err := app.loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

type application struct {
	repo    store.Repository
	engine  *morph.Engine
	manager *delivery.Manager
	framed  bool
}

func (a *application) loop(ctx context.Context) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Deriving without dispatching...")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.sync(ctx); err != nil {
				logger.Error().Err(err).Msg("derivation pass failed")
			}
		}
	}
}

// sync runs one derivation pass: read the avatar record, merge its
// measurement sources, derive the catalog, persist the result, and
// enqueue a shape command per changed parameter.
func (a *application) sync(ctx context.Context) error {
	avatar, err := a.repo.Get(ctx, cfg.User, cfg.Avatar)
	if err != nil {
		return err
	}

	sources := measure.Sources{
		Basic: toAnyMap(avatar.Basic),
		Body:  toAnyMap(avatar.Body),
	}
	opts := morph.Options{Gender: avatar.Gender}
	if avatar.QuickModeSet != nil {
		sources.QuickMode = toAnyMap(avatar.QuickModeSet.Measurements)
		opts.BodyShape = avatar.QuickModeSet.BodyShape
		opts.AthleticLevel = avatar.QuickModeSet.AthleticLevel
	}
	set := measure.Collect(sources)

	catalog := avatar.MorphTargets
	if len(catalog) == 0 {
		catalog = morph.DefaultCatalog()
	}

	derived := a.engine.Derive(catalog, set, opts)

	changed := 0
	for i := range derived {
		if derived[i].Value == catalog[i].Value {
			continue
		}
		changed++
		if cfg.Monitor {
			logger.Info().
				Int("morph_id", derived[i].ID).
				Str("label", derived[i].Label).
				Int("value", derived[i].Value).
				Msg("")
			continue
		}
		a.manager.Send(
			delivery.ShapeChannel(derived[i].ID),
			delivery.NewShapeCommand(derived[i].ID, derived[i].Value, derived[i].Label),
		)
	}

	if !cfg.Monitor && !a.framed {
		a.manager.Send("camera", delivery.NewCameraCommand("frame-avatar", 0))
		a.framed = true
	}

	if changed == 0 {
		return nil
	}

	if !cfg.Monitor {
		avatar.MorphTargets = derived
		if err := a.repo.Update(ctx, avatar); err != nil {
			return err
		}
	}

	logger.Debug().
		Int("changed", changed).
		Int("measurements", len(set)).
		Msg("Derivation pass complete")

	return nil
}

func toAnyMap(m map[string]float64) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
