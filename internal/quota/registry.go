// Package quota holds the per-plan usage limits enforced by the services.
// Plans are defined in an embedded YAML file so limits ship with the binary
// and stay identical across instances.
package quota

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/plans.yaml
var configFiles embed.FS

// Plan describes the usage limits applied to one user tier.
type Plan struct {
	Name         string `yaml:"name"`
	MaxLocations int    `yaml:"max_locations"`
	MaxItems     int    `yaml:"max_items"`
	// MaxDepth is the maximum zero-based nesting depth of the location
	// tree; a plan with MaxDepth 10 allows paths of up to 10 levels.
	MaxDepth int `yaml:"max_depth"`
}

type planFile struct {
	Plans []Plan `yaml:"plans"`
}

// Registry holds the loaded plans
type Registry struct {
	plans map[string]*Plan
	mu    sync.RWMutex
}

// NewRegistry creates a quota registry from the embedded plan file
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/plans.yaml")
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal plans file: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plans file defines no plans")
	}

	r := &Registry{plans: make(map[string]*Plan, len(file.Plans))}
	for i := range file.Plans {
		p := file.Plans[i]
		if p.Name == "" {
			return nil, fmt.Errorf("plan %d has no name", i)
		}
		if p.MaxLocations <= 0 || p.MaxItems <= 0 || p.MaxDepth <= 0 {
			return nil, fmt.Errorf("plan %q has non-positive limits", p.Name)
		}
		r.plans[p.Name] = &p
	}

	return r, nil
}

// Plan returns the limits of the named plan
func (r *Registry) Plan(name string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[name]
	if !ok {
		return nil, fmt.Errorf("unknown plan: %q", name)
	}
	return p, nil
}

// Names lists the defined plan names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plans))
	for name := range r.plans {
		names = append(names, name)
	}
	return names
}
