package config

import (
	"fmt"

	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/model"
)

// CategoryDef declares one service category of the catalog.
type CategoryDef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProviderDef declares one provider of the roster. Exactly one provider must
// be marked as the unassigned sink.
type ProviderDef struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Capacity   int      `json:"capacity"`
	Sink       bool     `json:"sink"`
}

// Roster converts the declared providers and categories to domain types and
// validates them with the same rules the solver applies.
func (c Config) Roster() ([]model.Provider, model.CategorySet, error) {
	cats := make([]model.Category, len(c.Categories))
	for i, cd := range c.Categories {
		if cd.ID == "" {
			return nil, nil, fmt.Errorf("categories[%d]: id is required", i)
		}
		cats[i] = model.Category{ID: model.CategoryID(cd.ID), Label: cd.Label}
	}
	set := model.NewCategorySet(cats...)

	providers := make([]model.Provider, len(c.Providers))
	for i, pd := range c.Providers {
		ids := make([]model.CategoryID, len(pd.Categories))
		for j, s := range pd.Categories {
			ids[j] = model.CategoryID(s)
		}
		providers[i] = model.Provider{
			Name:       pd.Name,
			Categories: ids,
			Capacity:   pd.Capacity,
			Sink:       pd.Sink,
		}
	}
	if err := assign.ValidateSetup(providers, set); err != nil {
		return nil, nil, err
	}
	return providers, set, nil
}
