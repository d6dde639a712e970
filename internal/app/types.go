package app

// Filters restrict one scan. Zero values mean unrestricted.
type Filters struct {
	// DevicePath limits output to a sysfs subtree. Accepts /sys/devices/...
	// and /devices/... forms, or a /dev node which is resolved first.
	DevicePath string
	// PortPath limits output to the subtree below a port path.
	PortPath string
	// Label limits output via a configured identifier: its locator becomes
	// the port-path or ID_PATH restriction. Unknown labels restrict nothing.
	Label string
	// Tag keeps only devices carrying this udev tag.
	Tag string
	// IDPath suppresses nodes whose chain has no record with this ID_PATH
	// prefix.
	IDPath string
}

type TreeRequest struct {
	Filters
	ShowBusNodes  bool
	ShowIDPaths   bool
	ShowEmptyHubs bool
	ShowLinks     bool
}

type TreeResult struct {
	Output string
}

type EnvRequest struct {
	Filters
	ShowBusNodes  bool
	ShowEmptyHubs bool
}

type EnvResult struct {
	Tokens []string
}

type WaitRequest struct {
	EnvRequest
	// Names are the env base names that must all resolve, e.g. SERIAL.
	Names []string
	// TimeoutSec is the whole-second budget; 0 scans exactly once, negative
	// waits forever.
	TimeoutSec int
}

type WaitResult struct {
	Tokens []string
}
