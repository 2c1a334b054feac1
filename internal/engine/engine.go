// Package engine assembles the token registry from the standard tokens
// and the loaded content packs, orders context updates along the token
// dependency graph, and applies patches to a target directory.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"quilt/internal/condition"
	"quilt/internal/diag"
	"quilt/internal/pack"
	"quilt/internal/provider"
	"quilt/internal/template"
	"quilt/internal/token"
	"quilt/internal/token/dag"
)

// Context keys read by the standard tokens.
const (
	KeySeason  = "season"
	KeyWeather = "weather"
	KeyDay     = "day"
)

// DayMax is the last day of an in-game month.
const DayMax = 28

// Patch is a validated, applicable patch bound to its pack.
type Patch struct {
	Pack     string // pack name
	Dir      string // pack directory, for load sources
	Index    int    // position in the manifest
	Action   string
	Target   *template.TokenString
	File     string
	Entries  map[string]*template.TokenString
	When     condition.Set
	Priority int
}

func (p Patch) origin(path string) diag.Origin {
	return diag.Origin{Path: path, Field: fmt.Sprintf("patches[%d]", p.Index)}
}

// Engine holds the assembled registry and the patches ready to run.
type Engine struct {
	reg     *token.Registry
	patches []Patch
	order   []string // qualified names, dependencies first
}

// StandardRegistry registers the built-in tokens every setup gets:
// Season, Weather, Day and the input transforms.
func StandardRegistry() (*token.Registry, error) {
	reg := token.NewRegistry()

	day, err := provider.NewRange("Day", KeyDay, 1, DayMax)
	if err != nil {
		return nil, err
	}
	providers := []token.ValueProvider{
		provider.NewContextValue("Season", KeySeason, "Spring", "Summer", "Fall", "Winter"),
		provider.NewContextValue("Weather", KeyWeather),
		day,
		provider.NewLowercase(),
		provider.NewUppercase(),
	}
	for _, p := range providers {
		if err := reg.Add(token.New(p, "", "")); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Build assembles an engine from loaded packs: registers each pack's
// dynamic tokens under the pack's name as scope, orders the registry by
// token dependencies, and validates every patch. Problems surface as
// diagnostics on rep; patches with errors are dropped, the rest stay
// runnable. Tokens inside a pack are referenced by their qualified name
// ("packname/Token") everywhere, conditions and token strings alike.
func Build(reg *token.Registry, results []pack.Result, rep diag.Reporter) (*Engine, bool) {
	ok := true
	e := &Engine{reg: reg}

	origins := make(map[string]diag.Origin)
	for _, r := range results {
		if r.Manifest == nil {
			ok = false
			continue
		}
		if !registerPackTokens(reg, r.Manifest, rep, origins) {
			ok = false
		}
	}

	if !e.buildOrder(origins, rep) {
		ok = false
	}

	for _, r := range results {
		if r.Manifest == nil {
			continue
		}
		if !e.collectPatches(r.Manifest, rep) {
			ok = false
		}
	}
	sort.SliceStable(e.patches, func(i, j int) bool {
		if e.patches[i].Priority != e.patches[j].Priority {
			return e.patches[i].Priority < e.patches[j].Priority
		}
		return e.patches[i].Pack < e.patches[j].Pack
	})

	return e, ok
}

// Registry exposes the assembled registry.
func (e *Engine) Registry() *token.Registry { return e.reg }

// Patches returns the validated patches in application order.
func (e *Engine) Patches() []Patch { return e.patches }

// UpdateOrder returns the qualified token names in context update order.
func (e *Engine) UpdateOrder() []string {
	return append([]string(nil), e.order...)
}

func registerPackTokens(reg *token.Registry, m *pack.Manifest, rep diag.Reporter, origins map[string]diag.Origin) bool {
	ok := true
	for _, name := range m.TokenNames() {
		def := m.Tokens[name]
		entries := make([]provider.DynamicEntry, 0, len(def.Entries))
		for _, entry := range def.Entries {
			entries = append(entries, provider.DynamicEntry{
				Values: entry.AllValues(),
				When:   pack.ParseWhen(entry.When),
			})
		}

		tok := token.New(provider.NewDynamic(name, reg, entries), m.Pack.Name, "")
		origin := diag.Origin{Path: m.Path, Field: "tokens." + name}
		if err := reg.Add(tok); err != nil {
			diag.ReportError(rep, diag.TokDuplicateToken, origin, err.Error())
			ok = false
			continue
		}
		origins[strings.ToLower(tok.QualifiedName())] = origin
	}
	return ok
}

// buildOrder wires every registered token into the dependency graph and
// derives the context update order. Unknown dependencies, self edges and
// cycles are reported; tokens stuck in a cycle drop out of the order.
func (e *Engine) buildOrder(origins map[string]diag.Origin, rep diag.Reporter) bool {
	all := e.reg.All()
	nodes := make([]dag.Node, 0, len(all))
	for _, tok := range all {
		nodes = append(nodes, dag.Node{
			Name: tok.QualifiedName(),
			Uses: tok.TokensUsed(),
		})
	}

	bag := diag.NewBag(2*len(nodes) + 16)
	idx := dag.BuildIndex(nodes)
	g, slots := dag.BuildGraph(idx, nodes, origins, diag.BagReporter{Bag: bag})
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(idx, slots, topo, diag.BagReporter{Bag: bag})
	for _, d := range bag.Items() {
		rep.Report(d.Code, d.Severity, d.Origin, d.Message, d.Notes)
	}

	cyclic := make(map[dag.TokenID]struct{}, len(topo.Cycles))
	for _, id := range topo.Cycles {
		cyclic[id] = struct{}{}
	}

	e.order = e.order[:0]
	for _, id := range topo.UpdateOrder() {
		if _, stuck := cyclic[id]; stuck {
			continue
		}
		if !g.Present[int(id)] {
			continue
		}
		e.order = append(e.order, idx.IDToName[int(id)])
	}
	return !bag.HasErrors()
}

func (e *Engine) collectPatches(m *pack.Manifest, rep diag.Reporter) bool {
	ok := true
	for i, def := range m.Patches {
		p := Patch{
			Pack:     m.Pack.Name,
			Dir:      m.Dir,
			Index:    i,
			Action:   def.Action,
			File:     def.File,
			When:     pack.ParseWhen(def.When),
			Priority: def.Priority,
		}
		origin := p.origin(m.Path)

		target, err := template.Parse(def.Target)
		if err != nil {
			diag.ReportError(rep, diag.PackInvalidPatch, origin, err.Error())
			ok = false
			continue
		}
		p.Target = target

		valid := target.Validate(e.reg, origin, rep)
		if !p.When.Validate(e.reg, origin, rep) {
			valid = false
		}

		if def.Action == pack.ActionEdit {
			p.Entries = make(map[string]*template.TokenString, len(def.Entries))
			for key, raw := range def.Entries {
				entry, err := template.Parse(raw)
				if err != nil {
					diag.ReportError(rep, diag.PackInvalidPatch, origin,
						fmt.Sprintf("entry %q: %v", key, err))
					valid = false
					continue
				}
				if !entry.Validate(e.reg, origin, rep) {
					valid = false
					continue
				}
				p.Entries[key] = entry
			}
		}

		if !valid {
			ok = false
			continue
		}
		e.patches = append(e.patches, p)
	}
	return ok
}
