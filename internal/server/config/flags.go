package config

import (
	"flag"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   database DSN
//	-r string   database driver: pgx, mysql or sqlite
//	-s string   secret key for session fingerprints
//	-m string   metrics bind address, empty disables
//	-k int      password cost
//
// Only these flags are picked out of args, so -c/-config and flags owned by
// other components do not collide.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-r", "-s", "-m", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver (pgx, mysql, sqlite)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address")
	fs.IntVar(&config.PasswordCost, "k", config.PasswordCost, "password cost")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
