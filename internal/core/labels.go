package core

import (
	"fmt"
	"strings"

	"lsudt/internal/types"
)

// EnvRule names the environment variable a labeled port exports and an
// optional device-node basename prefix restricting which nodes qualify.
type EnvRule struct {
	Name   string
	Prefix string
}

// ParseEnvRule splits a configured "NAME" or "NAME,PREFIX" rule. Rules
// without a name are rejected.
func ParseEnvRule(raw string) (EnvRule, bool) {
	name, prefix, _ := strings.Cut(raw, ",")
	if name == "" {
		return EnvRule{}, false
	}
	return EnvRule{Name: name, Prefix: prefix}, true
}

// PortLabel is the resolved annotation for one concrete port path. Either
// part may be empty: a label-only entry renames the port in tree output, an
// env-only entry still marks the path for env association and the ".0"
// redirection lookup.
type PortLabel struct {
	Label string
	Env   EnvRule
}

func (p PortLabel) HasEnv() bool { return p.Env.Name != "" }

// LabelEntry pairs a port path with its annotation for ordered scans.
type LabelEntry struct {
	PortPath string
	Label    PortLabel
}

// LabelMap holds resolved annotations in insertion order. Overwriting a
// path keeps its original slot, so "first match wins" scans are stable
// across reruns of the same configuration.
type LabelMap struct {
	order  []string
	byPath map[string]PortLabel
}

func NewLabelMap() *LabelMap {
	return &LabelMap{byPath: make(map[string]PortLabel)}
}

func (m *LabelMap) Put(portPath string, label PortLabel) {
	if _, ok := m.byPath[portPath]; !ok {
		m.order = append(m.order, portPath)
	}
	m.byPath[portPath] = label
}

func (m *LabelMap) Get(portPath string) (PortLabel, bool) {
	label, ok := m.byPath[portPath]
	return label, ok
}

// Entries returns all annotations in insertion order.
func (m *LabelMap) Entries() []LabelEntry {
	out := make([]LabelEntry, 0, len(m.order))
	for _, portPath := range m.order {
		out = append(out, LabelEntry{PortPath: portPath, Label: m.byPath[portPath]})
	}
	return out
}

func (m *LabelMap) Len() int { return len(m.order) }

// ResolveLabels merges the segment rules against the discovered tree,
// producing the port-path annotation map. Identifier-path locators resolve
// through the records attached to the tree, so this must run after the tree
// is fully built. Segments naming an unknown identifier and port entries
// without a port number are skipped; entries are recorded even when both
// label and env are empty so the ".0" redirection can see the path.
func ResolveLabels(cfg Config, tree *Tree) *LabelMap {
	labels := NewLabelMap()
	for _, segment := range cfg.Segments {
		locator, ok := cfg.Locators.Get(segment.Identifier)
		if !ok {
			continue
		}
		for _, rootPath := range ResolveLocator(locator, tree) {
			if segment.Label != "" {
				labels.Put(rootPath, PortLabel{Label: segment.Label})
			}
			for _, port := range segment.Ports {
				if port.Port == nil {
					continue
				}
				entry := PortLabel{Label: port.Label}
				if rule, ok := ParseEnvRule(port.Env); ok {
					entry.Env = rule
				}
				labels.Put(fmt.Sprintf("%s.%d", rootPath, *port.Port), entry)
			}
		}
	}
	return labels
}

// ResolveLocator expands a locator to the concrete port paths it addresses
// in this scan: a port-path locator is itself, an identifier-path locator
// matches every node owning a record with exactly that ID_PATH. Zero, one
// or many paths are all possible.
func ResolveLocator(locator types.Locator, tree *Tree) []string {
	switch locator.Kind {
	case types.LocatorKindPortPath:
		return []string{locator.Value}
	case types.LocatorKindIDPath:
		return tree.PortPathsByIDPath(locator.Value)
	default:
		return nil
	}
}
