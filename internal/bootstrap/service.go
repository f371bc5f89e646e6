package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reecen9696/casino-rollup/common"
	chttp "github.com/reecen9696/casino-rollup/common/net/http"
	"github.com/reecen9696/casino-rollup/internal/api"
	"github.com/reecen9696/casino-rollup/internal/coordinator"
	"github.com/reecen9696/casino-rollup/internal/ledger"
	"github.com/reecen9696/casino-rollup/internal/ledgerclient"
	"github.com/reecen9696/casino-rollup/internal/prover"
	"github.com/reecen9696/casino-rollup/internal/settlement"
	"github.com/reecen9696/casino-rollup/internal/vrf"
)

// Service holds every wired component for one sequencer process.
type Service struct {
	cfg         Config
	fiberApp    *fiber.App
	apiServer   *api.Server
	coordinator *coordinator.Coordinator
	settlement  *settlement.Store
}

// NewService builds every component from cfg: C1 ledger, C2 VRF engine
// (only if enabled), C5 prover, C6 settlement store, C7 ledger client
// (only if enabled), C9 coordinator, and C8's HTTP surface.
func NewService(cfg Config) (*Service, error) {
	ledgerStore := ledger.NewStore()

	var vrfEngine *vrf.Engine
	if cfg.EnableVRF {
		keypair, err := vrf.LoadOrGenerate("VRF_KEYPAIR_PATH", cfg.VRFKeypairPath)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load VRF keypair: %w", err)
		}

		vrfEngine = vrf.NewEngine(keypair, defaultVRFWorkers, defaultVRFTimeout)
	}

	p := prover.New(cfg.MaxBatchSize, cfg.MaxUsers)

	if cfg.EnableZKProofs {
		if err := p.Setup(); err != nil {
			return nil, fmt.Errorf("bootstrap: prover setup: %w", err)
		}
	}

	var checkpoint settlement.Checkpoint
	if sqlitePath, ok := sqliteCheckpointPath(cfg.DatabaseURL); ok {
		cp, err := settlement.OpenSQLiteCheckpoint(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: open sqlite checkpoint: %w", err)
		}

		checkpoint = cp
	}

	settlementStore, err := settlement.Open(settlement.PathFromDatabaseURL(cfg.DatabaseURL), checkpoint)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open settlement store: %w", err)
	}

	var ledgerCli *ledgerclient.Client
	if cfg.EnableSolana {
		ledgerCli = ledgerclient.New(ledgerclient.Config{
			Enabled:            true,
			Testnet:            cfg.SolanaTestnet,
			VaultProgramID:     cfg.VaultProgramID,
			VerifierProgramID:  cfg.VerifierProgramID,
			RetryAttempts:      3,
			RetryDelay:         time.Second,
		})
	}

	coordCfg := coordinator.DefaultConfig()
	coordCfg.FlushSize = cfg.MaxBatchSize
	coordCfg.MaxUsers = uint32(cfg.MaxUsers)
	coordCfg.ZKProofsEnabled = cfg.EnableZKProofs

	coord := coordinator.New(coordCfg, settlementStore, p, ledgerCli, logger())

	apiServer := api.NewServer(ledgerStore, vrfEngine, coord, settlementStore, ledgerCli)

	fiberApp := fiber.New()
	fiberApp.Use(chttp.WithCORS())
	apiServer.Mount(fiberApp)

	return &Service{
		cfg:         cfg,
		fiberApp:    fiberApp,
		apiServer:   apiServer,
		coordinator: coord,
		settlement:  settlementStore,
	}, nil
}

const (
	defaultVRFWorkers = 4
	defaultVRFTimeout = 5 * time.Second
)

// sqliteCheckpointPath reports the sqlite DSN to mirror checkpoints into,
// derived the same way the JSON store's path is, for any databaseURL that
// actually names a file (i.e. not the in-memory special case).
func sqliteCheckpointPath(databaseURL string) (string, bool) {
	if databaseURL == "sqlite::memory:" {
		return "", false
	}

	const prefix = "sqlite:"
	if len(databaseURL) <= len(prefix) || databaseURL[:len(prefix)] != prefix {
		return "", false
	}

	return databaseURL[len(prefix):], true
}

// HTTPApp adapts Service's fiber app to common.App so it runs as one of the
// Launcher's sibling processes.
type HTTPApp struct {
	svc *Service
}

func NewHTTPApp(svc *Service) *HTTPApp { return &HTTPApp{svc: svc} }

func (a *HTTPApp) Run(_ *common.Launcher) error {
	return a.svc.fiberApp.Listen(fmt.Sprintf(":%d", a.svc.cfg.Port))
}

// CoordinatorApp adapts the settlement coordinator to common.App.
type CoordinatorApp struct {
	svc *Service
}

func NewCoordinatorApp(svc *Service) *CoordinatorApp { return &CoordinatorApp{svc: svc} }

func (a *CoordinatorApp) Run(_ *common.Launcher) error {
	return a.svc.coordinator.Run(context.Background())
}
