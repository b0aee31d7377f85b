// Package config handles loading and validating Gray Logic Node bootstrap
// configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The bootstrap file deliberately excludes broker address and credentials.
// Those are user-facing parameters owned by the parameter store and edited
// through the provisioning portal, so a node can be re-pointed at a new
// broker without touching its deployment configuration.
//
// Security Considerations:
//   - Sensitive values (tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Node.ID)
package config
