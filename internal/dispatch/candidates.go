package dispatch

import (
	"sort"

	"github.com/vyrodovalexey/routable/internal/lifecycle"
	"github.com/vyrodovalexey/routable/internal/match"
	"github.com/vyrodovalexey/routable/internal/registry"
	"github.com/vyrodovalexey/routable/internal/route"
)

// Phase names a lifecycle callback slot.
type Phase string

const (
	PhaseGuardEnter Phase = "guardEnter"
	PhaseGuardLeave Phase = "guardLeave"
	PhaseActivate   Phase = "activate"
	PhaseDeactivate Phase = "deactivate"
	PhaseUpdate     Phase = "update"
	PhaseWatch      Phase = "watch"
)

// candidate is one callback scheduled for the current navigation.
type candidate struct {
	id       registry.Identity
	class    string
	phase    Phase
	handler  string
	priority int
	method   lifecycle.Method
	cfg      *registry.Config
}

// transition is a controller entering or leaving its routes.
type transition struct {
	id       registry.Identity
	class    string
	cfg      *registry.Config
	entering bool
}

// plan is everything a navigation will run.
type plan struct {
	guards   []candidate
	handlers []candidate
	watchers []candidate

	// silent are transitions of controllers without a handler for them.
	silent []transition
}

// ActiveConfig is a controller whose routes match a navigation endpoint.
type ActiveConfig struct {
	ID     registry.Identity
	Object any
	Config *registry.Config
}

func (d *Dispatcher) matchOptions(cfg *registry.Config) match.Options {
	opts := d.matchOpts.WithTarget(cfg.MatchTarget)
	opts.Chains = d.index
	return opts
}

// matches evaluates the effective matcher of a controller: its instance
// matcher if it has one, else its configured route matcher, OR-ed with the
// chain match of its active routes.
func (d *Dispatcher) matches(inst registry.Instance, cfg *registry.Config, loc route.Location) bool {
	if m, ok := inst.Object.(registry.InstanceMatcher); ok {
		if m.MatchesRoute(loc) {
			return true
		}
	} else if cfg.RouteMatcher != nil && cfg.RouteMatcher(loc) {
		return true
	}
	return d.index.ChainMatches(loc, cfg.Expression(), d.matchOptions(cfg))
}

// sameRoute reports whether a navigation only changes params or query.
// Unnamed endpoints compare by path.
func sameRoute(to, from route.Location) bool {
	if to.Name != "" || from.Name != "" {
		return to.Name == from.Name
	}
	return to.Path == from.Path
}

func (d *Dispatcher) collect(to, from route.Location) plan {
	var p plan
	same := sameRoute(to, from)

	for _, inst := range d.reg.Instances() {
		cfg, ok := d.reg.Config(inst.ID)
		if !ok {
			continue
		}

		matchesTo := d.matches(inst, cfg, to)
		matchesFrom := d.matches(inst, cfg, from)
		if !matchesTo && !matchesFrom {
			continue
		}

		add := func(list *[]candidate, phase Phase, hc *registry.HandlerConfig) {
			*list = append(*list, candidate{
				id:       inst.ID,
				class:    cfg.Class,
				phase:    phase,
				handler:  hc.Handler,
				priority: hc.Priority,
				method:   hc.Method(),
				cfg:      cfg,
			})
		}

		if same {
			if cfg.Update != nil {
				add(&p.handlers, PhaseUpdate, cfg.Update)
			}
		} else {
			if cfg.GuardEnter != nil && matchesTo {
				add(&p.guards, PhaseGuardEnter, cfg.GuardEnter)
			}
			if cfg.GuardLeave != nil && matchesFrom {
				add(&p.guards, PhaseGuardLeave, cfg.GuardLeave)
			}

			switch {
			case matchesTo && !matchesFrom:
				if cfg.Activate != nil {
					add(&p.handlers, PhaseActivate, cfg.Activate)
				} else {
					p.silent = append(p.silent, transition{id: inst.ID, class: cfg.Class, cfg: cfg, entering: true})
				}
			case matchesFrom && !matchesTo:
				if cfg.Deactivate != nil {
					add(&p.handlers, PhaseDeactivate, cfg.Deactivate)
				} else {
					p.silent = append(p.silent, transition{id: inst.ID, class: cfg.Class, cfg: cfg})
				}
			}
		}

		p.watchers = append(p.watchers, d.applicableWatchers(inst, cfg, to, from, matchesTo, matchesFrom, same)...)
	}

	sortByPriority(p.guards)
	sortByPriority(p.handlers)
	sortByPriority(p.watchers)
	return p
}

func (d *Dispatcher) applicableWatchers(
	inst registry.Instance,
	cfg *registry.Config,
	to, from route.Location,
	matchesTo, matchesFrom, same bool,
) []candidate {
	var out []candidate
	for _, w := range cfg.Watchers {
		wTo, wFrom := matchesTo, matchesFrom
		if w.Match != nil {
			opts := d.matchOptions(cfg)
			wTo = match.Matches(to, w.Match, opts)
			wFrom = match.Matches(from, w.Match, opts)
		}

		applies := (wTo && same && w.Observes(registry.EventUpdate)) ||
			(wTo && w.Observes(registry.EventEnter)) ||
			(wFrom && w.Observes(registry.EventLeave))
		if !applies {
			continue
		}

		out = append(out, candidate{
			id:       inst.ID,
			class:    cfg.Class,
			phase:    PhaseWatch,
			handler:  w.Handler,
			priority: w.Priority,
			method:   w.Method(),
			cfg:      cfg,
		})
	}
	return out
}

// sortByPriority orders candidates by descending priority. Equal
// priorities keep discovery order.
func sortByPriority(list []candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
}

// ActiveConfigs returns the controllers whose routes match to or from, in
// registration order.
func (d *Dispatcher) ActiveConfigs(to, from route.Location) []ActiveConfig {
	var out []ActiveConfig
	for _, inst := range d.reg.Instances() {
		cfg, ok := d.reg.Config(inst.ID)
		if !ok {
			continue
		}
		if d.matches(inst, cfg, to) || d.matches(inst, cfg, from) {
			out = append(out, ActiveConfig{ID: inst.ID, Object: inst.Object, Config: cfg})
		}
	}
	return out
}

// RoutableObjectIsActive reports whether obj's routes match loc. It reads
// no live state and has no side effects.
func (d *Dispatcher) RoutableObjectIsActive(loc route.Location, obj any) bool {
	id, ok := d.reg.IdentityOf(obj)
	if !ok {
		return false
	}
	cfg, ok := d.reg.Config(id)
	if !ok {
		return false
	}
	return d.matches(registry.Instance{ID: id, Object: obj}, cfg, loc)
}
