// Package bootstrap wires every component's concrete implementation
// together from configuration and exposes the two Apps (HTTP server,
// settlement coordinator) common.Launcher runs.
package bootstrap

import (
	"github.com/caarlos0/env/v9"
	"github.com/spf13/pflag"
)

// Config is the sequencer's full runtime configuration: CLI flags
// override environment variables, which override the
// defaults below.
type Config struct {
	Port             uint16 `env:"PORT" envDefault:"3000"`
	DatabaseURL      string `env:"DATABASE_URL" envDefault:"sqlite:zkcasino.db"`
	VRFKeypairPath   string `env:"VRF_KEYPAIR_PATH" envDefault:"vrf-keypair.json"`
	EnableVRF        bool   `env:"ENABLE_VRF" envDefault:"false"`
	EnableSolana     bool   `env:"ENABLE_SOLANA" envDefault:"false"`
	SolanaTestnet    bool   `env:"SOLANA_TESTNET" envDefault:"false"`
	VaultProgramID   string `env:"VAULT_PROGRAM_ID" envDefault:""`
	VerifierProgramID string `env:"VERIFIER_PROGRAM_ID" envDefault:""`
	EnableZKProofs   bool   `env:"ENABLE_ZK_PROOFS" envDefault:"false"`
	MaxBatchSize     int    `env:"MAX_BATCH_SIZE" envDefault:"50"`
	MaxUsers         int    `env:"MAX_USERS" envDefault:"65536"`
}

// LoadConfig reads Config from the environment, then applies any CLI flags
// the caller passed: "--port <u16> (default 3000),
// --database-url <string> ..., --vrf-keypair-path <string> ...,
// --enable-vrf (flag)".
func LoadConfig(args []string) (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	fs := pflag.NewFlagSet("sequencer", pflag.ContinueOnError)

	port := fs.Uint16("port", cfg.Port, "HTTP listen port")
	databaseURL := fs.String("database-url", cfg.DatabaseURL, "settlement persistence file base")
	vrfKeypairPath := fs.String("vrf-keypair-path", cfg.VRFKeypairPath, "VRF keypair file path")
	enableVRF := fs.Bool("enable-vrf", cfg.EnableVRF, "enable VRF-derived outcomes")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Port = *port
	cfg.DatabaseURL = *databaseURL
	cfg.VRFKeypairPath = *vrfKeypairPath
	cfg.EnableVRF = *enableVRF

	return cfg, nil
}
