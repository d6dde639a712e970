package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsudt/internal/core"
	"lsudt/internal/types"
)

const sysUSB = "/devices/pci0000:00/0000:00:14.0/usb1"

// stubDeviceSource replays one batch per scan, repeating the last batch
// once the script runs out, and records the tag each call asked for.
type stubDeviceSource struct {
	batches [][]types.Device
	calls   int
	tags    []string
}

func (s *stubDeviceSource) ListDevices(_ context.Context, tag string) ([]types.Device, error) {
	s.tags = append(s.tags, tag)
	idx := s.calls
	if idx >= len(s.batches) {
		idx = len(s.batches) - 1
	}
	s.calls++
	return s.batches[idx], nil
}

type stubConfigSource struct {
	files []types.ConfigFile
	calls int
	err   error
}

func (s *stubConfigSource) LoadConfig(context.Context) ([]types.ConfigFile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.files, nil
}

// fixtureDevices is a hub with a serial adapter on port 1 and a network
// adapter on port 2, as one enumeration snapshot would deliver them.
func fixtureDevices() []types.Device {
	return []types.Device{
		{
			DevPath:  sysUSB + "/1-10",
			DevType:  types.DevTypeUSBDevice,
			DevName:  "/dev/bus/usb/001/004",
			IDPath:   "pci-0000:00:14.0-usb-0:10",
			SysAttrs: map[string]string{"idVendor": "2109", "idProduct": "2813", "bDeviceClass": "09"},
		},
		{
			DevPath:  sysUSB + "/1-10/1-10.1/1-10.1:1.0/ttyUSB0/tty/ttyUSB0",
			DevName:  "/dev/ttyUSB0",
			IDPath:   "pci-0000:00:14.0-usb-0:10.1:1.0",
			DevLinks: []string{"/dev/serial/by-id/usb-FTDI_FT232R_A5052NB1-if00-port0"},
		},
		{
			DevPath:  sysUSB + "/1-10/1-10.1",
			DevType:  types.DevTypeUSBDevice,
			DevName:  "/dev/bus/usb/001/005",
			IDPath:   "pci-0000:00:14.0-usb-0:10.1",
			SysAttrs: map[string]string{"idVendor": "0403", "idProduct": "6001", "bDeviceClass": "00"},
		},
		{
			DevPath:   sysUSB + "/1-10/1-10.2/1-10.2:1.0/net/enx0050b6abcdef",
			Subsystem: "net",
			Interface: "enx0050b6abcdef",
			IDPath:    "pci-0000:00:14.0-usb-0:10.2:1.0",
		},
	}
}

func fixtureConfig() []types.ConfigFile {
	one, two := 1, 2
	return []types.ConfigFile{{
		Mappings: []types.Mapping{
			{Identifier: "hub1", Port: "1-10"},
			{Identifier: "serial", Port: "1-10.1"},
			{Identifier: "bay", IDPath: "pci-0000:00:14.0-usb-0:10"},
			{Identifier: "ghost-bay", IDPath: "pci-0000:00:15.0"},
		},
		Segments: []types.Segment{{
			Identifier: "hub1",
			Label:      "Camera Hub",
			Ports: []types.SegmentPort{
				{Port: &one, Env: "SERIAL,ttyUSB"},
				{Port: &two, Env: "ETH"},
			},
		}},
	}}
}

func newTestService(batches ...[]types.Device) (Service, *stubDeviceSource, *stubConfigSource) {
	devs := &stubDeviceSource{batches: batches}
	cfgSrc := &stubConfigSource{files: fixtureConfig()}
	return Service{Devices: devs, Config: cfgSrc, Sleep: func(time.Duration) {}}, devs, cfgSrc
}

func defaultTreeOutput() string {
	return strings.Join([]string{
		"Port 1-10: Camera Hub (2109:2813 / 1-10)",
		"    Port 1: Device (403:6001 / 1-10.1)",
		"       /dev/ttyUSB0",
		"",
		"    Port 2: (1-10.2)",
		"       Net: enx0050b6abcdef",
		"",
	}, "\n") + "\n"
}

func TestTree_RendersLabeledTopology(t *testing.T) {
	svc, _, _ := newTestService(fixtureDevices())

	got, err := svc.Tree(context.Background(), TreeRequest{})
	require.NoError(t, err)
	if diff := cmp.Diff(defaultTreeOutput(), got.Output); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestTree_ShowFlagsReachRenderer(t *testing.T) {
	svc, _, _ := newTestService(fixtureDevices())

	got, err := svc.Tree(context.Background(), TreeRequest{
		ShowBusNodes: true,
		ShowIDPaths:  true,
		ShowLinks:    true,
	})
	require.NoError(t, err)
	assert.Contains(t, got.Output, "   /dev/bus/usb/001/004 (pci-0000:00:14.0-usb-0:10)\n")
	assert.Contains(t, got.Output, "       : /dev/serial/by-id/usb-FTDI_FT232R_A5052NB1-if00-port0\n")
}

func TestTree_LabelFilters(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "port path locator narrows to its subtree",
			label: "serial",
			want:  "Port 1: Device (403:6001 / 1-10.1)\n   /dev/ttyUSB0\n\n",
		},
		{
			name:  "idpath locator keeps the matching chain",
			label: "bay",
			want:  defaultTreeOutput(),
		},
		{
			name:  "idpath locator with no matching records hides everything",
			label: "ghost-bay",
			want:  "",
		},
		{
			name:  "unknown label restricts nothing",
			label: "no-such-identifier",
			want:  defaultTreeOutput(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(fixtureDevices())
			got, err := svc.Tree(context.Background(), TreeRequest{Filters: Filters{Label: tt.label}})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got.Output); diff != "" {
				t.Fatalf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTree_DevicePathFilterAcceptsSysPaths(t *testing.T) {
	svc, _, _ := newTestService(fixtureDevices())

	got, err := svc.Tree(context.Background(), TreeRequest{
		Filters: Filters{DevicePath: "/sys" + sysUSB + "/1-10/1-10.1"},
	})
	require.NoError(t, err)
	want := strings.Join([]string{
		"Port 1-10: (1-10)",
		"    Port 1: Device (403:6001 / 1-10.1)",
		"       /dev/ttyUSB0",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got.Output); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestTree_DevicePathFilterResolvesDevNodes(t *testing.T) {
	svc, _, _ := newTestService(fixtureDevices())
	var resolved string
	svc.ResolveDevNode = func(devNode string) (string, error) {
		resolved = devNode
		return sysUSB + "/1-10/1-10.1/1-10.1:1.0/ttyUSB0/tty/ttyUSB0", nil
	}

	got, err := svc.Tree(context.Background(), TreeRequest{
		Filters: Filters{DevicePath: "/dev/ttyUSB0"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", resolved)
	want := strings.Join([]string{
		"Port 1-10: (1-10)",
		"    Port 1: (1-10.1)",
		"       /dev/ttyUSB0",
		"",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, got.Output); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestTree_DevNodeResolutionErrorAborts(t *testing.T) {
	svc, devs, _ := newTestService(fixtureDevices())
	svc.ResolveDevNode = func(string) (string, error) { return "", assert.AnError }

	_, err := svc.Tree(context.Background(), TreeRequest{
		Filters: Filters{DevicePath: "/dev/ttyUSB0"},
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, devs.calls)
}

func TestTree_TagReachesEnumerator(t *testing.T) {
	svc, devs, _ := newTestService(fixtureDevices())

	_, err := svc.Tree(context.Background(), TreeRequest{Filters: Filters{Tag: "seat"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"seat"}, devs.tags)
}

func TestEnv_DerivesTokens(t *testing.T) {
	svc, _, _ := newTestService(fixtureDevices())

	got, err := svc.Env(context.Background(), EnvRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"HUB1_SERIAL_0=/dev/ttyUSB0",
		"HUB1_ETH_0=enx0050b6abcdef",
	}, got.Tokens)
}

func TestWait_RetriesUntilResolved(t *testing.T) {
	all := fixtureDevices()
	incomplete := []types.Device{all[0], all[3]}
	svc, devs, cfgSrc := newTestService(incomplete, all)
	sleeps := 0
	svc.Sleep = func(d time.Duration) {
		assert.Equal(t, time.Second, d)
		sleeps++
	}

	got, err := svc.Wait(context.Background(), WaitRequest{
		Names:      []string{"SERIAL", "ETH"},
		TimeoutSec: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"HUB1_SERIAL_0=/dev/ttyUSB0",
		"HUB1_ETH_0=enx0050b6abcdef",
	}, got.Tokens)
	assert.Equal(t, 2, devs.calls)
	// Every attempt re-reads the configuration as well.
	assert.Equal(t, 2, cfgSrc.calls)
	assert.Equal(t, 1, sleeps)
}

func TestWait_ZeroTimeoutScansOnce(t *testing.T) {
	all := fixtureDevices()
	svc, devs, _ := newTestService([]types.Device{all[0], all[3]})

	_, err := svc.Wait(context.Background(), WaitRequest{
		Names:      []string{"SERIAL"},
		TimeoutSec: 0,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	var builder *errbuilder.ErrBuilder
	require.ErrorAs(t, err, &builder)
	assert.Equal(t, core.WaitTimeoutPrefix+": SERIAL", builder.Msg)
	assert.Equal(t, 1, devs.calls)
}

func TestWait_RequiresNames(t *testing.T) {
	svc, devs, _ := newTestService(fixtureDevices())

	_, err := svc.Wait(context.Background(), WaitRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Equal(t, 0, devs.calls)
}

func TestScan_ConfigErrorPropagates(t *testing.T) {
	svc, devs, cfgSrc := newTestService(fixtureDevices())
	cfgSrc.err = assert.AnError

	_, err := svc.Tree(context.Background(), TreeRequest{})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, devs.calls)

	_, err = svc.Env(context.Background(), EnvRequest{})
	require.ErrorIs(t, err, assert.AnError)
}
