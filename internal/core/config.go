package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"lsudt/internal/types"
)

// Config is the merged view of every configuration file: named locators
// plus the accumulated segment rules.
type Config struct {
	Locators *LocatorSet
	Segments []types.Segment
}

// LocatorSet stores locators by identifier in first-appearance order, so
// "first match wins" scans stay deterministic. Re-registering an identifier
// replaces its locator but keeps its original position.
type LocatorSet struct {
	order []string
	byID  map[string]types.Locator
}

func NewLocatorSet() *LocatorSet {
	return &LocatorSet{byID: make(map[string]types.Locator)}
}

// Put registers or replaces the locator under its identifier.
func (s *LocatorSet) Put(loc types.Locator) {
	if _, ok := s.byID[loc.Identifier]; !ok {
		s.order = append(s.order, loc.Identifier)
	}
	s.byID[loc.Identifier] = loc
}

func (s *LocatorSet) Get(identifier string) (types.Locator, bool) {
	loc, ok := s.byID[identifier]
	return loc, ok
}

// All returns the locators in first-appearance order.
func (s *LocatorSet) All() []types.Locator {
	out := make([]types.Locator, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *LocatorSet) Len() int { return len(s.order) }

// MergeConfig folds the parsed configuration files into a single model.
// Mappings merge last-write-wins per identifier across files; segments
// accumulate in file order. Mappings without an identifier or without a
// locator value are dropped.
func MergeConfig(ctx context.Context, files []types.ConfigFile) Config {
	cfg := Config{Locators: NewLocatorSet()}
	for _, file := range files {
		for _, mapping := range file.Mappings {
			loc, ok := locatorFromMapping(mapping)
			if !ok {
				continue
			}
			assert.NotEmpty(ctx, loc.Value, "locator value must not be empty")
			cfg.Locators.Put(loc)
		}
		cfg.Segments = append(cfg.Segments, file.Segments...)
	}
	log.Ctx(ctx).Debug().
		Int("locators", cfg.Locators.Len()).
		Int("segments", len(cfg.Segments)).
		Msg("configuration merged")
	return cfg
}

// locatorFromMapping validates one mapping entry. The port path form wins
// when both are present.
func locatorFromMapping(mapping types.Mapping) (types.Locator, bool) {
	if mapping.Identifier == "" {
		return types.Locator{}, false
	}
	switch {
	case mapping.Port != "":
		return types.Locator{
			Identifier: mapping.Identifier,
			Kind:       types.LocatorKindPortPath,
			Value:      mapping.Port,
		}, true
	case mapping.IDPath != "":
		return types.Locator{
			Identifier: mapping.Identifier,
			Kind:       types.LocatorKindIDPath,
			Value:      mapping.IDPath,
		}, true
	default:
		return types.Locator{}, false
	}
}
