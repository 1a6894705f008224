package config

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/routable/internal/dispatch"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
	"github.com/vyrodovalexey/routable/internal/util"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
	validLogOutputs = map[string]bool{"stdout": true, "stderr": true}
)

// Validator validates a configuration.
type Validator struct {
	errs   *util.ValidationError
	routes map[string]bool
}

// Validate validates cfg and reports every problem in one
// *util.ValidationError.
func Validate(cfg *Config) error {
	v := &Validator{
		errs:   util.NewValidationError("invalid routable configuration"),
		routes: make(map[string]bool),
	}
	return v.Validate(cfg)
}

// Validate validates cfg.
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		v.addError("", "configuration is nil")
		return v.errs
	}

	v.validateRouting(&cfg.Routing)
	v.validateObservability(&cfg.Observability)
	v.validateRoutes(cfg.Routes, "routes")
	v.validateControllers(cfg.Controllers)
	v.validateNavigations(cfg.Navigations)

	if v.errs.HasErrors() {
		return v.errs
	}
	return nil
}

func (v *Validator) addError(path, message string) {
	v.errs.AddField(path, message)
}

func (v *Validator) validateRouting(r *RoutingConfig) {
	if _, ok := dispatch.ParseErrorPolicy(r.ErrorPolicy); !ok {
		v.addError("routing.errorPolicy", fmt.Sprintf("unknown error policy %q", r.ErrorPolicy))
	}
	v.validateTarget(r.DefaultMatchTarget, "routing.defaultMatchTarget")
	if r.TimelineCapacity < 0 {
		v.addError("routing.timelineCapacity", "must not be negative")
	}
}

// validateTarget accepts the named targets and dotted field paths.
func (v *Validator) validateTarget(target, path string) {
	switch match.Target(target) {
	case "", match.TargetName, match.TargetPath, match.TargetNameChain:
		return
	}
	for _, seg := range strings.Split(target, ".") {
		if seg == "" {
			v.addError(path, fmt.Sprintf("invalid field path %q", target))
			return
		}
	}
}

func (v *Validator) validateObservability(o *ObservabilityConfig) {
	if l := o.Logging.Level; l != "" && !validLogLevels[l] {
		v.addError("observability.logging.level", fmt.Sprintf("unknown level %q", l))
	}
	if f := o.Logging.Format; f != "" && !validLogFormats[f] {
		v.addError("observability.logging.format", fmt.Sprintf("unknown format %q", f))
	}
	if out := o.Logging.Output; out != "" && !validLogOutputs[out] {
		v.addError("observability.logging.output", fmt.Sprintf("unknown output %q", out))
	}

	if o.Metrics.Enabled {
		if o.Metrics.Address == "" {
			v.addError("observability.metrics.address", "address is required when metrics are enabled")
		}
		if !strings.HasPrefix(o.Metrics.Path, "/") {
			v.addError("observability.metrics.path", "path must start with /")
		}
	}

	if r := o.Tracing.SamplingRate; r < 0 || r > 1 {
		v.addError("observability.tracing.samplingRate", "must be between 0 and 1")
	}
}

func (v *Validator) validateRoutes(routes []route.Record, path string) {
	for i, r := range routes {
		p := fmt.Sprintf("%s[%d]", path, i)
		if r.Name != "" {
			if v.routes[r.Name] {
				v.addError(p+".name", fmt.Sprintf("duplicate route name %q", r.Name))
			}
			v.routes[r.Name] = true
		}
		if r.Path == "" && r.Name == "" {
			v.addError(p, "route needs a name or a path")
		}
		v.validateRoutes(r.Children, p+".children")
	}
}

func (v *Validator) validateControllers(controllers []ControllerConfig) {
	names := make(map[string]bool, len(controllers))
	for i := range controllers {
		c := &controllers[i]
		p := fmt.Sprintf("controllers[%d]", i)

		if c.Name == "" {
			v.addError(p+".name", "name is required")
		} else if names[c.Name] {
			v.addError(p+".name", fmt.Sprintf("duplicate controller name %q", c.Name))
		}
		names[c.Name] = true

		if len(c.Match) == 0 {
			v.addError(p+".match", "at least one match expression is required")
		}
		v.validateMatch(c.Match, p+".match")
		v.validateTarget(c.Target, p+".target")

		for field, h := range map[string]*HookConfig{
			"guardEnter": c.GuardEnter,
			"guardLeave": c.GuardLeave,
			"activate":   c.Activate,
			"deactivate": c.Deactivate,
			"update":     c.Update,
		} {
			if h != nil {
				v.validateHook(h, p+"."+field)
			}
		}

		for j, w := range c.Watchers {
			wp := fmt.Sprintf("%s.watchers[%d]", p, j)
			for _, e := range w.On {
				if !registry.Event(e).Valid() {
					v.addError(wp+".on", fmt.Sprintf("unknown event %q", e))
				}
			}
			v.validateMatch(w.Match, wp+".match")
		}
	}
}

func (v *Validator) validateMatch(specs []match.Spec, path string) {
	for i, s := range specs {
		if _, err := match.Compile(s); err != nil {
			v.addError(fmt.Sprintf("%s[%d]", path, i), err.Error())
		}
	}
}

func (v *Validator) validateHook(h *HookConfig, path string) {
	if _, err := h.Outcome(); err != nil {
		v.addError(path+".outcome", err.Error())
		return
	}
	if name, ok := h.RedirectName(); ok && !v.routes[name] {
		v.addError(path+".outcome", fmt.Sprintf("redirect to unknown route %q", name))
	}
}

func (v *Validator) validateNavigations(navs []NavigationConfig) {
	for i, n := range navs {
		p := fmt.Sprintf("navigations[%d]", i)
		switch {
		case n.Name == "" && n.Path == "":
			v.addError(p, "navigation needs a route name or a path")
		case n.Name != "" && !v.routes[n.Name]:
			v.addError(p, fmt.Sprintf("unknown route %q", n.Name))
		}
	}
}
