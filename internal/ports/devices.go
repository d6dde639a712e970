package ports

import (
	"context"

	"lsudt/internal/types"
)

// DeviceEnumeratorPort produces a point-in-time snapshot of the OS device
// database. Implementations must return a fresh snapshot on every call so
// retry loops observe hotplug changes.
type DeviceEnumeratorPort interface {
	// ListDevices returns all known devices, restricted to those carrying
	// the given udev tag when tag is non-empty.
	ListDevices(ctx context.Context, tag string) ([]types.Device, error)
}
