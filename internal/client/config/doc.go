// Package config loads runtime configuration for the dashboard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: DASHBOARD_* variables, after loading a dotenv file
//     (-e/-env-file, or ./.env when present).
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// The result is checked by (*Config).Validate.
//
// # JSON schema
//
//	{
//	  "api_url": "https://api.boabp.example",
//	  "storage": "tab",
//	  "db_path": "dashboard.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "tab_ttl": "30m",
//	  "signin_route": "/auth/signin",
//	  "session_check_interval": "30s",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
