// Package config loads runtime configuration for the notes client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags (see parseFlags).
//
// A YAML file looks like:
//
//	data_dir: /var/lib/gophnotes
//	online_check_interval: 5s
//	remote:
//	  kind: surreal
//	  surreal:
//	    url: ws://localhost:8000
//	    namespace: notes
//	    database: notes
//	identity:
//	  secret: change-me
package config
