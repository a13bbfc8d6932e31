package config

import (
	"encoding/json"
	"os"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/flagx"
	"github.com/boabp/dashboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they may be written as "30s" or as nanoseconds.
type JsonConfig struct {
	APIURL               string         `json:"api_url"`
	GRPCAddr             string         `json:"grpc_addr"`
	Storage              string         `json:"storage"`
	DBPath               string         `json:"db_path"`
	RedisAddr            string         `json:"redis_addr"`
	RedisPassword        string         `json:"redis_password"`
	TabID                string         `json:"tab_id"`
	TabTTL               timex.Duration `json:"tab_ttl"`
	SignInRoute          string         `json:"signin_route"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	LogLevel             string         `json:"log_level"`
	LogFormat            string         `json:"log_format"`
}

// parseJson overlays Config with the fields present in the JSON file named
// by -c or -config. Without that flag nothing happens. Read or decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.APIURL, jc.APIURL)
	overlay(&cfg.GRPCAddr, jc.GRPCAddr)
	if jc.Storage != "" {
		cfg.Storage = storage.Kind(jc.Storage)
	}
	overlay(&cfg.DBPath, jc.DBPath)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.RedisPassword, jc.RedisPassword)
	overlay(&cfg.TabID, jc.TabID)
	overlay(&cfg.TabTTL, jc.TabTTL.Duration)
	overlay(&cfg.SignInRoute, jc.SignInRoute)
	overlay(&cfg.SessionCheckInterval, jc.SessionCheckInterval.Duration)
	overlay(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
