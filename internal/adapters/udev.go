package adapters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"lsudt/internal/types"
)

const (
	defaultSysRoot     = "/sys"
	defaultUdevDataDir = "/run/udev/data"
)

// usbIdentAttrs are captured verbatim for top-level USB devices; the tree
// layer decides whether the set is complete enough to use.
var usbIdentAttrs = []string{"idVendor", "idProduct", "bDeviceClass"}

// UdevEnumeratorAdapter reads a snapshot of the kernel device tree from
// sysfs and augments each record with the properties udev stored for it in
// its runtime database. No libudev binding is needed: the database is one
// text file per device under /run/udev/data, keyed by device number,
// network ifindex, or subsystem:sysname.
type UdevEnumeratorAdapter struct {
	SysRoot string // defaults to /sys
	DataDir string // defaults to /run/udev/data
}

func NewUdevEnumeratorAdapter() UdevEnumeratorAdapter {
	return UdevEnumeratorAdapter{}
}

func (a UdevEnumeratorAdapter) sysRoot() string {
	if a.SysRoot != "" {
		return a.SysRoot
	}
	return defaultSysRoot
}

func (a UdevEnumeratorAdapter) dataDir() string {
	if a.DataDir != "" {
		return a.DataDir
	}
	return defaultUdevDataDir
}

// ListDevices walks <sysroot>/devices for directories carrying a uevent
// file and returns one record per device. Devices can vanish mid-walk on
// hotplug; unreadable subtrees are skipped rather than failing the scan.
func (a UdevEnumeratorAdapter) ListDevices(ctx context.Context, tag string) ([]types.Device, error) {
	root := filepath.Join(a.sysRoot(), "devices")
	var devices []types.Device
	walkErr := filepath.WalkDir(root, func(dir string, entry fs.DirEntry, err error) error {
		if err != nil {
			if dir == root {
				return err
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		dev, ok := a.readDevice(dir)
		if !ok {
			return nil
		}
		if tag != "" && !hasTag(dev.Tags, tag) {
			return nil
		}
		devices = append(devices, dev)
		return nil
	})
	if walkErr != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to walk sysfs device tree").
			WithCause(walkErr)
	}
	log.Debug().
		Int("devices", len(devices)).
		Str("tag", tag).
		Msg("sysfs enumeration complete")
	return devices, nil
}

// readDevice assembles one record from a sysfs directory. Directories
// without a uevent file are structural, not devices.
func (a UdevEnumeratorAdapter) readDevice(dir string) (types.Device, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, "uevent"))
	if err != nil {
		return types.Device{}, false
	}
	props := parseKeyValues(string(raw))
	dev := types.Device{
		SysPath:   dir,
		DevPath:   strings.TrimPrefix(dir, a.sysRoot()),
		DevType:   props["DEVTYPE"],
		Subsystem: subsystemOf(dir),
	}
	if name := props["DEVNAME"]; name != "" {
		dev.DevName = "/dev/" + strings.TrimPrefix(name, "/")
	}
	if dev.Subsystem == "net" {
		dev.Interface = props["INTERFACE"]
	}
	a.applyUdevData(&dev, props)
	if dev.DevType == types.DevTypeUSBDevice {
		dev.SysAttrs = readUSBAttrs(dir)
	}
	return dev, true
}

// applyUdevData merges the udev database entry for the device: ID_PATH from
// the property lines, devlinks, and tags. Devices udev has not processed
// yet simply have no entry.
func (a UdevEnumeratorAdapter) applyUdevData(dev *types.Device, props map[string]string) {
	key := udevDataKey(*dev, props)
	if key == "" {
		return
	}
	raw, err := os.ReadFile(filepath.Join(a.dataDir(), key))
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(raw), "\n") {
		switch {
		case strings.HasPrefix(line, "E:"):
			if k, v, ok := strings.Cut(line[2:], "="); ok && k == "ID_PATH" {
				dev.IDPath = v
			}
		case strings.HasPrefix(line, "S:"):
			dev.DevLinks = append(dev.DevLinks, "/dev/"+line[2:])
		case strings.HasPrefix(line, "G:"), strings.HasPrefix(line, "Q:"):
			dev.Tags = append(dev.Tags, line[2:])
		}
	}
}

// udevDataKey derives the database filename udev uses for a device: block
// and character devices by device number, network interfaces by ifindex,
// everything else by subsystem and sysname.
func udevDataKey(dev types.Device, props map[string]string) string {
	major, minor := props["MAJOR"], props["MINOR"]
	switch {
	case major != "" && minor != "":
		prefix := "c"
		if dev.Subsystem == "block" {
			prefix = "b"
		}
		return prefix + major + ":" + minor
	case dev.Subsystem == "net":
		if ifindex := props["IFINDEX"]; ifindex != "" {
			return "n" + ifindex
		}
		return ""
	case dev.Subsystem != "":
		return "+" + dev.Subsystem + ":" + filepath.Base(dev.SysPath)
	default:
		return ""
	}
}

// subsystemOf resolves the subsystem symlink every sysfs device carries.
// The link target need not exist; only its basename matters.
func subsystemOf(dir string) string {
	target, err := os.Readlink(filepath.Join(dir, "subsystem"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}

func readUSBAttrs(dir string) map[string]string {
	attrs := make(map[string]string, len(usbIdentAttrs))
	for _, name := range usbIdentAttrs {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		attrs[name] = strings.TrimSpace(string(raw))
	}
	return attrs
}

func parseKeyValues(raw string) map[string]string {
	props := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		if key, value, ok := strings.Cut(line, "="); ok {
			props[key] = value
		}
	}
	return props
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DevPathForNode resolves a /dev node such as /dev/ttyUSB0 to its kernel
// device path via /sys/dev, so subtree restrictions can be given as the
// node a user actually interacts with.
func (a UdevEnumeratorAdapter) DevPathForNode(devNode string) (string, error) {
	var stat unix.Stat_t
	if err := unix.Stat(devNode, &stat); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("device node not found: " + devNode).
			WithCause(err)
	}
	var kind string
	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFCHR:
		kind = "char"
	case unix.S_IFBLK:
		kind = "block"
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("not a device node: " + devNode)
	}
	rdev := uint64(stat.Rdev)
	sysPath := fmt.Sprintf("%s/dev/%s/%d:%d", a.sysRoot(), kind, unix.Major(rdev), unix.Minor(rdev))
	resolved, err := filepath.EvalSymlinks(sysPath)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no sysfs entry for device node: " + devNode).
			WithCause(err)
	}
	return strings.TrimPrefix(resolved, a.sysRoot()), nil
}
