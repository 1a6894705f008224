// Package config loads the routable configuration.
//
// A configuration file is YAML with ${VAR} and ${VAR:-default}
// substitution. It carries routing options, observability settings, the
// static route tree of the in-memory host router and the probe
// controllers and navigations replayed by the simulator.
//
// Load and validate a file:
//
//	cfg, err := config.LoadConfig("routable.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := config.Validate(cfg); err != nil {
//	    return err
//	}
//
// Watch it for changes:
//
//	w, err := config.NewWatcher(path, func(cfg *config.Config) {
//	    // rebuild the route table
//	}, config.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	err = w.Start(ctx)
package config
