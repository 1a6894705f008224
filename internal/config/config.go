package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/route"
)

// Config is the root configuration.
type Config struct {
	Routing       RoutingConfig       `yaml:"routing"`
	Observability ObservabilityConfig `yaml:"observability"`

	// Routes is the static route tree of the host router.
	Routes []route.Record `yaml:"routes"`

	// Controllers are probe controllers declared by the simulator.
	Controllers []ControllerConfig `yaml:"controllers,omitempty"`

	// Navigations are replayed in order by the simulator.
	Navigations []NavigationConfig `yaml:"navigations,omitempty"`

	// ReplayInterval is the pause between replayed navigations.
	ReplayInterval Duration `yaml:"replayInterval,omitempty"`
}

// RoutingConfig configures matching and dispatch.
type RoutingConfig struct {
	DefaultMatchTarget      string `yaml:"defaultMatchTarget,omitempty"`
	RouteNameChainSeparator string `yaml:"routeNameChainSeparator,omitempty"`
	ErrorPolicy             string `yaml:"errorPolicy,omitempty"`
	SerialNavigations       bool   `yaml:"serialNavigations,omitempty"`
	TimelineCapacity        int    `yaml:"timelineCapacity,omitempty"`
}

// ObservabilityConfig groups logging, metrics and tracing.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Address   string `yaml:"address,omitempty"`
	Path      string `yaml:"path,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName,omitempty"`
	OTLPEndpoint string  `yaml:"otlpEndpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty"`
}

// ControllerConfig declares a probe controller.
type ControllerConfig struct {
	Name   string       `yaml:"name"`
	Match  []match.Spec `yaml:"match"`
	Target string       `yaml:"target,omitempty"`

	GuardEnter *HookConfig `yaml:"guardEnter,omitempty"`
	GuardLeave *HookConfig `yaml:"guardLeave,omitempty"`
	Activate   *HookConfig `yaml:"activate,omitempty"`
	Deactivate *HookConfig `yaml:"deactivate,omitempty"`
	Update     *HookConfig `yaml:"update,omitempty"`

	Watchers []WatcherConfig `yaml:"watchers,omitempty"`

	// Lazy declares the controller in a lazy module loaded on first match.
	Lazy bool `yaml:"lazy,omitempty"`
}

// HookConfig configures one probe callback.
type HookConfig struct {
	Priority int `yaml:"priority,omitempty"`

	// Result is allow, deny, redirect:<name> or error:<message>. Empty
	// means allow.
	Result string `yaml:"outcome,omitempty"`
}

// Outcome parses Result. A failing hook parses as allow; see Failure.
func (h HookConfig) Outcome() (lifecycle.Outcome, error) {
	kind, arg, _ := strings.Cut(h.Result, ":")
	switch kind {
	case "", "allow", "error":
		return lifecycle.Allow(), nil
	case "deny":
		return lifecycle.Deny(), nil
	case "redirect":
		if arg == "" {
			return lifecycle.Outcome{}, fmt.Errorf("redirect outcome needs a route name or path: %q", h.Result)
		}
		if strings.HasPrefix(arg, "/") {
			return lifecycle.Redirect(route.Target{Path: arg}), nil
		}
		return lifecycle.RedirectTo(arg), nil
	default:
		return lifecycle.Outcome{}, fmt.Errorf("unknown outcome %q", h.Result)
	}
}

// Failure returns the error message of a hook configured as
// error:<message>.
func (h HookConfig) Failure() (string, bool) {
	kind, arg, _ := strings.Cut(h.Result, ":")
	if kind != "error" {
		return "", false
	}
	if arg == "" {
		arg = "probe failure"
	}
	return arg, true
}

// RedirectName returns the route name of a redirect:<name> result.
func (h HookConfig) RedirectName() (string, bool) {
	kind, arg, _ := strings.Cut(h.Result, ":")
	if kind != "redirect" || arg == "" || strings.HasPrefix(arg, "/") {
		return "", false
	}
	return arg, true
}

// WatcherConfig declares a probe watcher.
type WatcherConfig struct {
	Priority int          `yaml:"priority,omitempty"`
	On       EventList    `yaml:"on,omitempty"`
	Match    []match.Spec `yaml:"match,omitempty"`
}

// EventList accepts a single event or a list of events.
type EventList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *EventList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = EventList{s}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// NavigationConfig is one replayed navigation: a route name, or a target
// with path, params and query.
type NavigationConfig struct {
	Name   string            `yaml:"name,omitempty"`
	Path   string            `yaml:"path,omitempty"`
	Params map[string]string `yaml:"params,omitempty"`
	Query  map[string]string `yaml:"query,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NavigationConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if strings.HasPrefix(s, "/") {
			*n = NavigationConfig{Path: s}
		} else {
			*n = NavigationConfig{Name: s}
		}
		return nil
	}
	type plain NavigationConfig
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*n = NavigationConfig(p)
	return nil
}

// Target returns the navigation as a redirect target.
func (n NavigationConfig) Target() route.Target {
	return route.Target{Name: n.Name, Path: n.Path, Params: n.Params, Query: n.Query}
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Routing: RoutingConfig{
			DefaultMatchTarget:      string(match.TargetName),
			RouteNameChainSeparator: match.DefaultSeparator,
			ErrorPolicy:             "propagate",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
			Metrics: MetricsConfig{Address: ":9091", Path: "/metrics", Namespace: "routable"},
			Tracing: TracingConfig{ServiceName: "routable", SamplingRate: 1.0},
		},
	}
}

// applyDefaults fills zero values from DefaultConfig.
func applyDefaults(cfg *Config) {
	d := DefaultConfig()

	setDefault(&cfg.Routing.DefaultMatchTarget, d.Routing.DefaultMatchTarget)
	setDefault(&cfg.Routing.RouteNameChainSeparator, d.Routing.RouteNameChainSeparator)
	setDefault(&cfg.Routing.ErrorPolicy, d.Routing.ErrorPolicy)

	logging := &cfg.Observability.Logging
	setDefault(&logging.Level, d.Observability.Logging.Level)
	setDefault(&logging.Format, d.Observability.Logging.Format)
	setDefault(&logging.Output, d.Observability.Logging.Output)

	metrics := &cfg.Observability.Metrics
	setDefault(&metrics.Address, d.Observability.Metrics.Address)
	setDefault(&metrics.Path, d.Observability.Metrics.Path)
	setDefault(&metrics.Namespace, d.Observability.Metrics.Namespace)

	tracing := &cfg.Observability.Tracing
	setDefault(&tracing.ServiceName, d.Observability.Tracing.ServiceName)
	if tracing.SamplingRate == 0 {
		tracing.SamplingRate = d.Observability.Tracing.SamplingRate
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
