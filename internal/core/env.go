package core

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"lsudt/internal/shared"
	"lsudt/internal/types"
)

// EnvBuckets accumulates device nodes per identifier and env name.
// Identifier and env-name order is first appearance; the nodes within a
// bucket stay sorted and unique, so the generated tokens are deterministic
// whatever order enumeration delivered the records in.
type EnvBuckets struct {
	order []string
	byID  map[string]*envVars
}

type envVars struct {
	order   []string
	entries map[string][]string
}

func NewEnvBuckets() *EnvBuckets {
	return &EnvBuckets{byID: make(map[string]*envVars)}
}

// Add inserts devNode under the identifier and env name, keeping the bucket
// sorted and dropping duplicates.
func (b *EnvBuckets) Add(identifier, envName, devNode string) {
	vars, ok := b.byID[identifier]
	if !ok {
		vars = &envVars{entries: make(map[string][]string)}
		b.byID[identifier] = vars
		b.order = append(b.order, identifier)
	}
	bucket, ok := vars.entries[envName]
	if !ok {
		vars.order = append(vars.order, envName)
	}
	i := sort.SearchStrings(bucket, devNode)
	if i < len(bucket) && bucket[i] == devNode {
		return
	}
	bucket = append(bucket, "")
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = devNode
	vars.entries[envName] = bucket
}

// Tokens renders the NAME_INDEX=value pairs: normalized identifier token,
// env name, then the zero-based position within the sorted bucket.
// Identifiers that normalize to an empty token are suppressed.
func (b *EnvBuckets) Tokens() []string {
	var tokens []string
	for _, id := range b.order {
		token := shared.EnvToken(id)
		if token == "" {
			continue
		}
		vars := b.byID[id]
		for _, envName := range vars.order {
			for i, devNode := range vars.entries[envName] {
				tokens = append(tokens, fmt.Sprintf("%s_%s_%d=%s", token, envName, i, devNode))
			}
		}
	}
	return tokens
}

// Names returns the distinct env base names that would emit at least one
// token, in first-appearance order.
func (b *EnvBuckets) Names() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, id := range b.order {
		if shared.EnvToken(id) == "" {
			continue
		}
		vars := b.byID[id]
		for _, envName := range vars.order {
			if len(vars.entries[envName]) == 0 {
				continue
			}
			if _, ok := seen[envName]; ok {
				continue
			}
			seen[envName] = struct{}{}
			names = append(names, envName)
		}
	}
	return names
}

// AssociateEnv walks the tree with the same suppression rules as rendering
// and fills buckets from the surviving records. Each visited node resolves
// through the ".0" sub-port entry when the configuration names one for its
// position; the node's records are attributed to the first locator whose
// resolved port path occurs within the lookup path and to the first labeled
// path carrying an env rule that occurs within it.
func AssociateEnv(tree *Tree, cfg Config, labels *LabelMap, opts WalkOptions) *EnvBuckets {
	buckets := NewEnvBuckets()
	tree.Walk(opts, func(node *Node, _ int, surviving []types.Device) {
		if len(surviving) == 0 {
			return
		}
		lookupPath := node.PortPath
		if _, ok := labels.Get(node.PortPath + ".0"); ok {
			lookupPath = node.PortPath + ".0"
		}
		rule, ok := envRuleFor(labels, lookupPath)
		if !ok {
			return
		}
		identifier := identifierFor(cfg, tree, lookupPath)
		for _, dev := range surviving {
			value := dev.DevName
			if value == "" {
				value = dev.Interface
			}
			if rule.Prefix != "" && !strings.HasPrefix(path.Base(value), rule.Prefix) {
				continue
			}
			buckets.Add(identifier, rule.Name, value)
		}
	})
	return buckets
}

// identifierFor selects the first configured locator whose resolved port
// path occurs as a substring of lookupPath. Substring rather than prefix
// matching is deliberate: existing configurations rely on it.
func identifierFor(cfg Config, tree *Tree, lookupPath string) string {
	for _, locator := range cfg.Locators.All() {
		for _, portPath := range ResolveLocator(locator, tree) {
			if strings.Contains(lookupPath, portPath) {
				return locator.Identifier
			}
		}
	}
	return ""
}

// envRuleFor selects the first labeled path carrying an env rule that
// occurs as a substring of lookupPath.
func envRuleFor(labels *LabelMap, lookupPath string) (EnvRule, bool) {
	for _, entry := range labels.Entries() {
		if entry.Label.HasEnv() && strings.Contains(lookupPath, entry.PortPath) {
			return entry.Label.Env, true
		}
	}
	return EnvRule{}, false
}
