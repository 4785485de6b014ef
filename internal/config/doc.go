// Package config provides local-first configuration for spyglass.
//
// Configuration lives in the project's .spyglass/ directory:
//
//	.spyglass/
//	├── config.json        # Main configuration
//	└── spyglass.log       # Debug log, when enabled
//
// The config.json file contains simple key-value settings:
//
//	{
//	  "throttle_interval_ms": 100,
//	  "once": false,
//	  "check_now": true,
//	  "theme": "dark",
//	  "debug": false,
//	  "log_level": "debug",
//	  "log_file": "spyglass.log"
//	}
//
// String values may reference environment variables using $VAR or ${VAR}:
//
//	{
//	  "theme": "${GLAMOUR_STYLE}"
//	}
//
// Example usage:
//
//	manager := config.NewManager("/path/to/project")
//	if err := manager.Load(); err != nil {
//		return err
//	}
//
//	cfg := manager.Get()
//	fmt.Println("throttle:", cfg.ThrottleInterval())
//
//	// Update a setting
//	manager.Set("theme", "light")
package config
