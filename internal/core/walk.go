package core

import (
	"strings"

	"lsudt/internal/types"
)

// devUSBPrefix is the raw bus device-node tree, hidden unless requested.
const devUSBPrefix = "/dev/bus/usb"

// WalkOptions control node suppression and record filtering during
// traversal. The same options feed tree rendering and env association so
// both views agree on what exists.
type WalkOptions struct {
	// ShowEmptyHubs keeps nodes with no attached records and no children.
	ShowEmptyHubs bool
	// ShowBusNodes keeps /dev/bus/usb device nodes in the surviving set.
	ShowBusNodes bool
	// IDPathPrefix suppresses nodes whose chain, the node or any ancestor,
	// has no record with this ID_PATH prefix.
	IDPathPrefix string
}

// Visit receives one traversed node, its depth below its root, and the
// records that survived filtering.
type Visit func(node *Node, depth int, surviving []types.Device)

// Walk traverses pre-order from every root in creation order, applying the
// suppression rules. A suppressed node's subtree is not descended into.
func (t *Tree) Walk(opts WalkOptions, visit Visit) {
	for _, root := range t.Roots() {
		t.walk(root, 0, opts, visit)
	}
}

func (t *Tree) walk(node *Node, depth int, opts WalkOptions, visit Visit) {
	if !opts.ShowEmptyHubs && !node.HasChildren() && len(node.Devices) == 0 {
		return
	}
	if opts.IDPathPrefix != "" && !t.chainHasIDPath(node, opts.IDPathPrefix) {
		return
	}
	visit(node, depth, survivingDevices(node, opts))
	for _, child := range t.Children(node) {
		t.walk(child, depth+1, opts, visit)
	}
}

// chainHasIDPath walks the parent references iteratively; hub nesting depth
// is small and bounded, but iteration keeps the check allocation-free.
func (t *Tree) chainHasIDPath(node *Node, prefix string) bool {
	for current := node; current != nil; current = t.Parent(current) {
		for _, dev := range current.Devices {
			if dev.IDPath != "" && strings.HasPrefix(dev.IDPath, prefix) {
				return true
			}
		}
	}
	return false
}

func survivingDevices(node *Node, opts WalkOptions) []types.Device {
	var surviving []types.Device
	for _, dev := range node.Devices {
		if !opts.ShowBusNodes && strings.HasPrefix(dev.DevName, devUSBPrefix) {
			continue
		}
		surviving = append(surviving, dev)
	}
	return surviving
}
