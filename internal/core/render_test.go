package core

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lsudt/internal/types"
)

func renderFixtureTree(t *testing.T) *Tree {
	t.Helper()
	devices := []types.Device{
		{
			DevPath:  sysUSBBase + "/1-10/1-10.3",
			DevType:  types.DevTypeUSBDevice,
			DevName:  "/dev/bus/usb/001/004",
			IDPath:   "pci-0000:00:14.0-usb-0:10.3",
			SysAttrs: map[string]string{"idVendor": "2109", "idProduct": "2813", "bDeviceClass": "09"},
		},
		{
			DevPath:  sysUSBBase + "/1-10/1-10.3/1-10.3.1/1-10.3.1:1.0/ttyUSB0/tty/ttyUSB0",
			DevName:  "/dev/ttyUSB0",
			IDPath:   "pci-0000:00:14.0-usb-0:10.3.1:1.0",
			DevLinks: []string{"/dev/serial/by-id/usb-FTDI_USB-RS485_Cable_FT0ABCDE-if00-port0"},
		},
		{
			DevPath:  sysUSBBase + "/1-10/1-10.3/1-10.3.1",
			DevType:  types.DevTypeUSBDevice,
			DevName:  "/dev/bus/usb/001/005",
			IDPath:   "pci-0000:00:14.0-usb-0:10.3.1",
			SysAttrs: map[string]string{"idVendor": "0403", "idProduct": "6001", "bDeviceClass": "00"},
		},
		{
			DevPath:   sysUSBBase + "/1-10/1-10.3/1-10.3.2/1-10.3.2:1.0/net/enx0050b6abcdef",
			Subsystem: "net",
			Interface: "enx0050b6abcdef",
			IDPath:    "pci-0000:00:14.0-usb-0:10.3.2:1.0",
		},
		{
			DevPath:  sysUSBBase + "/1-10/1-10.4",
			DevType:  types.DevTypeUSBDevice,
			IDPath:   "pci-0000:00:14.0-usb-0:10.4",
			SysAttrs: map[string]string{"idVendor": "05e3", "idProduct": "0610", "bDeviceClass": "09"},
		},
	}
	return BuildTree(context.Background(), devices, BuildOptions{})
}

func renderToString(tree *Tree, labels *LabelMap, opts RenderOptions) string {
	var out strings.Builder
	RenderTree(&out, tree, labels, opts)
	return out.String()
}

func TestRenderTreeDefault(t *testing.T) {
	tree := renderFixtureTree(t)
	got := renderToString(tree, NewLabelMap(), RenderOptions{})

	want := strings.Join([]string{
		"Port 1-10: (1-10)",
		"    Port 3: Hub (2109:2813 / 1-10.3)",
		"        Port 1: Device (403:6001 / 1-10.3.1)",
		"           /dev/ttyUSB0",
		"",
		"        Port 2: (1-10.3.2)",
		"           Net: enx0050b6abcdef",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestRenderTreeLabelOverridesClassName(t *testing.T) {
	tree := renderFixtureTree(t)
	labels := NewLabelMap()
	labels.Put("1-10.3", PortLabel{Label: "Camera Hub"})
	labels.Put("1-10.3.2", PortLabel{Env: EnvRule{Name: "ETH"}})

	got := renderToString(tree, labels, RenderOptions{})

	if !strings.Contains(got, "Port 3: Camera Hub (2109:2813 / 1-10.3)") {
		t.Fatalf("label did not replace class name:\n%s", got)
	}
	// An env-only entry must not rename the port.
	if !strings.Contains(got, "Port 2: (1-10.3.2)") {
		t.Fatalf("env-only entry changed the port line:\n%s", got)
	}
}

func TestRenderTreeVerboseFlags(t *testing.T) {
	tree := renderFixtureTree(t)
	got := renderToString(tree, NewLabelMap(), RenderOptions{
		Walk:        WalkOptions{ShowBusNodes: true, ShowEmptyHubs: true},
		ShowIDPaths: true,
		ShowLinks:   true,
	})

	want := strings.Join([]string{
		"Port 1-10: (1-10)",
		"    Port 3: Hub (2109:2813 / 1-10.3)",
		"       /dev/bus/usb/001/004 (pci-0000:00:14.0-usb-0:10.3)",
		"        Port 1: Device (403:6001 / 1-10.3.1)",
		"           /dev/ttyUSB0 (pci-0000:00:14.0-usb-0:10.3.1:1.0)",
		"           : /dev/serial/by-id/usb-FTDI_USB-RS485_Cable_FT0ABCDE-if00-port0",
		"",
		"           /dev/bus/usb/001/005 (pci-0000:00:14.0-usb-0:10.3.1)",
		"        Port 2: (1-10.3.2)",
		"           Net: enx0050b6abcdef (pci-0000:00:14.0-usb-0:10.3.2:1.0)",
		"",
		"    Port 4: Hub (5e3:610 / 1-10.4)",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestRenderTreePortPathSubtree(t *testing.T) {
	devices := []types.Device{
		{DevPath: sysUSBBase + "/1-10/1-10.3/1-10.3.1/1-10.3.1:1.0/ttyUSB0/tty/ttyUSB0", DevName: "/dev/ttyUSB0"},
	}
	tree := BuildTree(context.Background(), devices, BuildOptions{PortPathPrefix: "1-10.3"})
	got := renderToString(tree, NewLabelMap(), RenderOptions{})

	want := strings.Join([]string{
		"Port 3: (1-10.3)",
		"    Port 1: (1-10.3.1)",
		"       /dev/ttyUSB0",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}
