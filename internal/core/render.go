package core

import (
	"fmt"
	"io"
	"strings"

	"lsudt/internal/types"
)

// RenderOptions control the textual tree output.
type RenderOptions struct {
	Walk        WalkOptions
	ShowIDPaths bool
	ShowLinks   bool
}

const indentStep = "    "

// RenderTree writes the topology as indented text, one "Port" heading per
// node followed by its surviving device nodes. Leaf nodes are separated by
// a blank line unless the link block already emitted one; nodes with
// children run straight into their subtree.
func RenderTree(w io.Writer, tree *Tree, labels *LabelMap, opts RenderOptions) {
	tree.Walk(opts.Walk, func(node *Node, depth int, surviving []types.Device) {
		indent := strings.Repeat(indentStep, depth)
		writePortLine(w, node, labels, indent)
		blankWritten := false
		for _, dev := range surviving {
			name := dev.DevName
			if name == "" {
				name = "Net: " + dev.Interface
			}
			suffix := ""
			if opts.ShowIDPaths && dev.IDPath != "" {
				suffix = fmt.Sprintf(" (%s)", dev.IDPath)
			}
			fmt.Fprintf(w, "%s   %s%s\n", indent, name, suffix)
			if opts.ShowLinks && len(dev.DevLinks) > 0 {
				for _, link := range dev.DevLinks {
					fmt.Fprintf(w, "%s   : %s\n", indent, link)
				}
				fmt.Fprintln(w)
				blankWritten = true
			}
		}
		if !node.HasChildren() && !blankWritten {
			fmt.Fprintln(w)
		}
	})
}

// writePortLine renders the node heading. The port number is the last
// dotted component; a configured label replaces the Hub/Device class name
// but never the identity attributes next to it.
func writePortLine(w io.Writer, node *Node, labels *LabelMap, indent string) {
	portPath := node.PortPath
	port := portPath
	if idx := strings.LastIndex(portPath, "."); idx >= 0 {
		port = portPath[idx+1:]
	}
	if node.USB == nil {
		fmt.Fprintf(w, "%sPort %s: (%s)\n", indent, port, portPath)
		return
	}
	name := "Device"
	if node.USB.IsHub() {
		name = "Hub"
	}
	if label, ok := labels.Get(portPath); ok && label.Label != "" {
		name = label.Label
	}
	fmt.Fprintf(w, "%sPort %s: %s (%x:%x / %s)\n",
		indent, port, name, node.USB.VendorID, node.USB.ProductID, portPath)
}
