package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	claimoutadapter "matchscout/internal/modules/claim/adapter/out"
	claimout "matchscout/internal/modules/claim/port/out"
	claimservice "matchscout/internal/modules/claim/service"
	schemainadapter "matchscout/internal/modules/schema/adapter/in"
	schemaoutadapter "matchscout/internal/modules/schema/adapter/out"
	schemaservice "matchscout/internal/modules/schema/service"
	schemausecase "matchscout/internal/modules/schema/usecase"
	sessioninadapter "matchscout/internal/modules/session/adapter/in"
	sessionoutadapter "matchscout/internal/modules/session/adapter/out"
	sessionin "matchscout/internal/modules/session/port/in"
	sessionservice "matchscout/internal/modules/session/service"
	sessionusecase "matchscout/internal/modules/session/usecase"
	"matchscout/internal/platform/clock"
	"matchscout/internal/platform/config"
	"matchscout/internal/platform/id"
	"matchscout/internal/platform/logging"
	uiapp "matchscout/internal/ui/app"
)

// connectivity is re-probed on this cadence for the life of the process.
const pollInterval = 15 * time.Second

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	SchemaCLI  schemainadapter.CLIHandler

	sessionUC sessionin.Usecase
	autosave  *sessionservice.Autosave
	monitor   *claimservice.Monitor
	guard     *sessionservice.ExitGuard
	beacon    claimout.Beacon
	store     *sessionoutadapter.SQLiteSessionStore
	logger    hclog.Logger
}

func New(cfg config.Config) (*App, error) {
	logger := logging.New("matchscout", os.Stderr)
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	schemaUC := schemausecase.NewInteractor(schemaservice.NewSchemaService(
		schemaoutadapter.NewFileManifestStore(cfg.PluginDir),
		schemaoutadapter.NewGRPCHost(),
	))
	defaults := sessionoutadapter.NewSchemaDefaultsAdapter(schemaUC)

	transport := claimoutadapter.NewHTTPAuthority(cfg.ServerURL)
	beacon := claimoutadapter.NewHTTPBeacon(cfg.ServerURL, logger.Named("beacon"))
	monitor := claimservice.NewMonitor(transport, cfg.ProbeTimeout, logger.Named("monitor"))
	claimUC := claimservice.NewCoordinator(transport, beacon, monitor, ids, logger.Named("claims"))

	reconciler := sessionservice.NewReconciler(claimUC, store, clk, logger.Named("reconciler"))
	runner := sessionservice.NewRunner(claimUC, store, defaults, reconciler, clk, logger.Named("runner"))
	runner.SetContext(cfg.Scouter, cfg.Season)
	guard := sessionservice.NewExitGuard(runner, logger.Named("exit"))
	sessionUC := sessionusecase.NewInteractor(runner, reconciler, guard, store, defaults, claimUC, logger.Named("session"))
	autosave := sessionservice.NewAutosave(runner, store, clk, cfg.AutosaveInterval, nil, logger.Named("autosave"))

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		SchemaCLI:  schemainadapter.NewCLIHandler(schemaUC),
		sessionUC:  sessionUC,
		autosave:   autosave,
		monitor:    monitor,
		guard:      guard,
		beacon:     beacon,
		store:      store,
		logger:     logger,
	}, nil
}

// Refresh probes the authority once so one-shot commands act on a live
// connectivity signal instead of the cold cache.
func (a *App) Refresh(ctx context.Context) bool {
	return a.monitor.Refresh(ctx)
}

// Close tears down the engine: the exit guard fires the best-effort
// claim release, the beacon drains, and the store closes.
func (a *App) Close() {
	a.guard.Trigger()
	a.beacon.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("session store close failed", "error", err)
	}
}

func RunTUI(app *App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.monitor.Refresh(ctx)
	go app.monitor.Poll(ctx, pollInterval)
	go app.autosave.Run(ctx)

	model := uiapp.NewModel(app.sessionUC)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
