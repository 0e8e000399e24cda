// Package config loads runtime configuration for the agentmarket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables, after loading a dotenv file (-e / -env, or ./.env).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   backend API URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-l string   log level
//	-no-color   disable ANSI styling
//
// Environment
//
//	AGENTMARKET_API_URL, AGENTMARKET_DB_PATH, AGENTMARKET_REQUEST_TIMEOUT,
//	AGENTMARKET_LOG_LEVEL, NO_COLOR
//
// # JSON schema
//
//	{
//	  "api_url": "http://localhost:8000",
//	  "db_path": "/home/me/.config/agentmarket/agentmarket.db",
//	  "request_timeout": "30s",
//	  "log_level": "warn",
//	  "no_color": false
//	}
package config
