// Package config handles configuration loading for fleet-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from FLEET_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/fleet/gateway.yaml
//  3. ~/.config/fleet/gateway.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	manifest:
//	  path: "${FLEET_MANIFEST}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	session:
//	  teardown_grace: "5s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Gateway identity:
//
//	gateway:
//	  name: "fleet-gateway-eu1"
//
// Provisioning manifest:
//
//	manifest:
//	  path: "/etc/fleet/manifest.toml"
//
// Session limits and shutdown timing:
//
//	session:
//	  max_robots: 16        # 0 = unlimited
//	  max_containers: 8     # 0 = unlimited
//	  teardown_grace: "5s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/fleet/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
