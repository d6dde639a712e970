package core

import (
	"regexp"
	"strings"
)

// usbRootPattern captures the bus-port token of the first USB topology
// segment in a kernel device path, e.g. "1-10" in
// /devices/pci0000:00/0000:00:14.0/usb1/1-10/1-10.3.
var usbRootPattern = regexp.MustCompile(`/usb[0-9]+/([0-9]+-[0-9]+)`)

// PortPathFromDevPath derives the physical port path from a kernel device
// path: the deepest path segment extending the bus-port token, with any
// config/interface suffix after ":" removed. Returns "" for paths that do
// not descend from a USB port, such as the bus roots usb1, usb2.
func PortPathFromDevPath(devPath string) string {
	match := usbRootPattern.FindStringSubmatch(devPath)
	if match == nil {
		return ""
	}
	segments := strings.Split(devPath, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if strings.HasPrefix(segments[i], match[1]) {
			portPath, _, _ := strings.Cut(segments[i], ":")
			return portPath
		}
	}
	return ""
}

// SanitizeDevicePath normalizes a user-supplied sysfs restriction to the
// kernel DEVPATH form: a /sys prefix is dropped and a /devices prefix is
// ensured, so /sys/devices/foo, /devices/foo and foo all mean the same
// subtree.
func SanitizeDevicePath(devicePath string) string {
	devicePath = strings.TrimPrefix(devicePath, "/sys")
	if !strings.HasPrefix(devicePath, "/devices") {
		devicePath = "/devices/" + strings.TrimPrefix(devicePath, "/")
	}
	return devicePath
}
