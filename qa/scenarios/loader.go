// Package scenarios runs YAML-defined assignment scenarios end to end
// through the manager. Each *.yaml file in this directory is one case.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/careops/bookd/core/model"
)

type ProviderDef struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories,omitempty"`
	Capacity   int      `yaml:"capacity,omitempty"`
	Sink       bool     `yaml:"sink,omitempty"`
}

func (p ProviderDef) ToModel() model.Provider {
	if p.Sink {
		return model.NewSink(p.Name)
	}
	cats := make([]model.CategoryID, len(p.Categories))
	for i, c := range p.Categories {
		cats[i] = model.CategoryID(c)
	}
	return model.Provider{Name: p.Name, Categories: cats, Capacity: p.Capacity}
}

type RequestDef struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Slot     string `yaml:"slot"`
}

func (r RequestDef) ToModel() model.Request {
	return model.Request{ID: r.ID, Category: model.CategoryID(r.Category), Slot: r.Slot}
}

type Expected struct {
	Placed         int            `yaml:"placed"`
	Unassigned     int            `yaml:"unassigned"`
	Objective      int            `yaml:"objective"`
	UnassignedIDs  []string       `yaml:"unassigned_ids,omitempty"`
	ProviderPlaced map[string]int `yaml:"provider_placed,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Categories  []string      `yaml:"categories"`
	Providers   []ProviderDef `yaml:"providers"`
	Requests    []RequestDef  `yaml:"requests"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
