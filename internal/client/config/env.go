package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "DASHBOARD_"

// parseEnv overlays Config with DASHBOARD_* environment variables.
//
// A dotenv file is loaded first: the one named by -e/-env-file, or ./.env
// when present. Variables already set in the process environment win over
// the file. A named file that cannot be read panics; a missing ./.env is
// ignored.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&cfg.APIURL, "API_URL")
	setString(&cfg.GRPCAddr, "GRPC_ADDR")
	if v, ok := lookup("STORAGE"); ok {
		cfg.Storage = storage.Kind(v)
	}
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.TabID, "TAB_ID")
	setDuration(&cfg.TabTTL, "TAB_TTL")
	setString(&cfg.SignInRoute, "SIGNIN_ROUTE")
	setDuration(&cfg.SessionCheckInterval, "SESSION_CHECK_INTERVAL")
	setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name string) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
