// Package config loads hub settings with koanf.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with HUB_. A double underscore in a variable
// name separates key levels, so HUB_DISPATCH__DEFAULT_MODULE sets
// dispatch.default_module. Lists are comma separated.
//
//	cfg, err := config.Load("hub.yaml")
//	if err != nil {
//		return err
//	}
//	out, _ := config.Dump(cfg)
package config
