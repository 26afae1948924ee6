// Package config handles loading and validating the todo API configuration.
//
// This package manages:
//   - Loading configuration from YAML or TOML files
//   - Overriding with environment variables (PORT, TODOAPI_*)
//   - Validation of required fields
//   - Default value handling
//
// Every setting has a default, so the service starts without any file:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Address()) // 0.0.0.0:3000
package config
