// Package config defines the YAML configuration for the ganymede CLI and
// provides loading, defaulting, and validation.
//
// Configuration is loaded from a YAML file, defaults are applied to any
// unset fields, and environment variables of the form GANYMEDE_SECTION_FIELD
// may override individual values:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("ganymede.yaml")
//	if err != nil {
//		return err
//	}
//
// A missing file is not an error for callers that want pure defaults; use
// DefaultConfig for that. Validation collects every problem before
// returning, so a broken file reports all of its mistakes at once.
package config
