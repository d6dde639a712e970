package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"lsudt/internal/types"
)

// Sysfs attributes captured for top-level USB devices.
const (
	attrVendorID    = "idVendor"
	attrProductID   = "idProduct"
	attrDeviceClass = "bDeviceClass"
)

// usbClassHub is the bDeviceClass value hubs report.
const usbClassHub = 9

// USBIdent carries the identity attributes of an enumerated USB device.
// Nodes inferred purely from topology carry none.
type USBIdent struct {
	VendorID    uint16
	ProductID   uint16
	DeviceClass uint8
}

func (u USBIdent) IsHub() bool { return u.DeviceClass == usbClassHub }

// Node is one physical port position in the topology. Parent and child
// relations are stored as port-path keys into the owning tree's arena, not
// as pointers, so nodes stay comparable and cheap to copy for inspection.
type Node struct {
	PortPath string
	USB      *USBIdent
	Devices  []types.Device

	parent   string
	children []string
}

// HasChildren reports whether any downstream port was discovered, whether
// or not traversal later suppresses it.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// Tree owns the set of topology nodes discovered in one scan. Nodes are
// arena-allocated and indexed by port path; creation order is recorded so
// traversal stays deterministic across identical scans.
type Tree struct {
	nodes    map[string]*Node
	order    []string
	stopPath string
}

// NewTree returns an empty tree. A non-empty stopPath bounds upward parent
// creation: FindOrCreate will not link ancestors above that port path.
func NewTree(stopPath string) *Tree {
	return &Tree{nodes: make(map[string]*Node), stopPath: stopPath}
}

// FindOrCreate returns the node for portPath, creating it and its missing
// ancestors on first reference. Re-requesting an existing path returns the
// same node with no duplicate links.
func (t *Tree) FindOrCreate(portPath string) *Node {
	if node, ok := t.nodes[portPath]; ok {
		return node
	}
	node := &Node{PortPath: portPath}
	t.nodes[portPath] = node
	t.order = append(t.order, portPath)

	if portPath == t.stopPath {
		return node
	}
	if idx := strings.LastIndex(portPath, "."); idx >= 0 {
		parent := t.FindOrCreate(portPath[:idx])
		parent.children = append(parent.children, portPath)
		node.parent = parent.PortPath
	}
	return node
}

// Lookup returns the node for portPath if it was discovered.
func (t *Tree) Lookup(portPath string) (*Node, bool) {
	node, ok := t.nodes[portPath]
	return node, ok
}

// Parent returns the upstream node, or nil for roots.
func (t *Tree) Parent(n *Node) *Node {
	if n.parent == "" {
		return nil
	}
	return t.nodes[n.parent]
}

// Children returns the downstream nodes in discovery order.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, key := range n.children {
		out = append(out, t.nodes[key])
	}
	return out
}

// Roots returns the nodes without a parent, in creation order.
func (t *Tree) Roots() []*Node {
	var roots []*Node
	for _, key := range t.order {
		if node := t.nodes[key]; node.parent == "" {
			roots = append(roots, node)
		}
	}
	return roots
}

// Len reports the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// AttachDevice appends an OS device record to the node. Records with
// nothing displayable are dropped before reaching this point.
func (t *Tree) AttachDevice(node *Node, dev types.Device) {
	node.Devices = append(node.Devices, dev)
}

// AttachUSBInfo copies the USB identity attributes onto the node when dev
// is a top-level USB device. All three attributes must be present and parse
// as hex, or none are applied.
func (t *Tree) AttachUSBInfo(node *Node, dev types.Device) {
	if dev.DevType != types.DevTypeUSBDevice {
		return
	}
	vendor, okVendor := parseHexAttr(dev.SysAttrs[attrVendorID], 16)
	product, okProduct := parseHexAttr(dev.SysAttrs[attrProductID], 16)
	class, okClass := parseHexAttr(dev.SysAttrs[attrDeviceClass], 8)
	if !okVendor || !okProduct || !okClass {
		return
	}
	node.USB = &USBIdent{
		VendorID:    uint16(vendor),
		ProductID:   uint16(product),
		DeviceClass: uint8(class),
	}
}

func parseHexAttr(raw string, bits int) (uint64, bool) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 16, bits)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PortPathsByIDPath returns the port paths of nodes holding at least one
// record whose ID_PATH equals idPath exactly, in node creation order. The
// same identifier path can resolve to several positions when a device chain
// reappears on another port after reconnection.
func (t *Tree) PortPathsByIDPath(idPath string) []string {
	var paths []string
	for _, key := range t.order {
		for _, dev := range t.nodes[key].Devices {
			if dev.IDPath == idPath {
				paths = append(paths, key)
				break
			}
		}
	}
	return paths
}

// BuildOptions restrict which enumerated records enter the tree.
type BuildOptions struct {
	// DevicePathPrefix limits records to a sysfs subtree; "" means no limit.
	DevicePathPrefix string
	// PortPathPrefix limits records to a port-path subtree and stops
	// ancestor creation at that path.
	PortPathPrefix string
}

// BuildTree turns one enumeration snapshot into a topology tree, attaching
// displayable records and USB identity attributes as it goes. Records whose
// device path does not descend from a USB port are ignored.
func BuildTree(ctx context.Context, devices []types.Device, opts BuildOptions) *Tree {
	tree := NewTree(opts.PortPathPrefix)
	attached := 0
	for _, dev := range devices {
		if opts.DevicePathPrefix != "" && !strings.HasPrefix(dev.DevPath, opts.DevicePathPrefix) {
			continue
		}
		portPath := PortPathFromDevPath(dev.DevPath)
		if portPath == "" {
			continue
		}
		if opts.PortPathPrefix != "" && !strings.HasPrefix(portPath, opts.PortPathPrefix) {
			continue
		}
		node := tree.FindOrCreate(portPath)
		tree.AttachUSBInfo(node, dev)
		if !dev.Displayable() {
			continue
		}
		tree.AttachDevice(node, dev)
		attached++
	}
	log.Ctx(ctx).Debug().
		Int("nodes", tree.Len()).
		Int("devices", attached).
		Msg("topology tree built")
	return tree
}
