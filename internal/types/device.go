package types

// DevTypeUSBDevice marks a top-level USB device entry, as opposed to an
// interface or endpoint below it.
const DevTypeUSBDevice = "usb_device"

// Device is one record from the OS device database, captured at enumeration
// time. A single physical USB device usually produces several records: the
// device itself, its interfaces, and the device nodes hanging off them.
type Device struct {
	// SysPath is the absolute sysfs directory the record was read from.
	SysPath string
	// DevPath is the kernel device path relative to the sysfs root, e.g.
	// /devices/pci0000:00/0000:00:14.0/usb1/1-10/1-10.3.
	DevPath string
	// DevType is the kernel DEVTYPE, e.g. usb_device or usb_interface.
	DevType string
	// Subsystem the record belongs to (usb, tty, net, block, ...).
	Subsystem string
	// DevName is the device node under /dev, when the kernel provides one.
	DevName string
	// DevLinks are the alternate /dev paths udev maintains for the node.
	DevLinks []string
	// IDPath is the udev ID_PATH property describing the upstream chain.
	IDPath string
	// Interface is the network interface name (net subsystem only).
	Interface string
	// Tags are the udev tags recorded for the device.
	Tags []string
	// SysAttrs holds raw sysfs attributes captured for top-level USB
	// devices (idVendor, idProduct, bDeviceClass).
	SysAttrs map[string]string
}

// Displayable reports whether the record carries anything worth showing:
// either a device node or a network interface name.
func (d Device) Displayable() bool {
	return d.DevName != "" || d.Interface != ""
}
