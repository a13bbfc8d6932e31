package config

import (
	"flag"
	"os"
	"time"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/flagx"
)

var ownFlags = []string{"-a", "-g", "-s", "-d", "-r", "-tab", "-i", "-w", "-l", "-f"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   API base URL
//	-g string   gRPC health endpoint (host:port)
//	-s string   token storage: persistent, tab or memory
//	-d string   SQLite database path
//	-r string   Redis address for tab storage
//	-tab string tab id (generated when empty)
//	-i int      session check interval (seconds)
//	-w int      request timeout (seconds)
//	-l string   log level
//	-f string   log format: text, json or zap
//
// os.Args is filtered with flagx.FilterArgs so that -c and -e, owned by
// other loaders, do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "API base URL")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC health endpoint")
	kind := fs.String("s", string(cfg.Storage), "token storage (persistent, tab, memory)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address for tab storage")
	fs.StringVar(&cfg.TabID, "tab", cfg.TabID, "tab id")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json, zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Storage = storage.Kind(*kind)
	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
