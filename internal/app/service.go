package app

import (
	"time"

	"lsudt/internal/adapters"
	"lsudt/internal/ports"
)

// Service wires the scan pipeline to its collaborators. Sleep and
// ResolveDevNode are plain funcs rather than ports so tests can stub the
// wait clock and /dev-node resolution without touching the filesystem.
type Service struct {
	Devices        ports.DeviceEnumeratorPort
	Config         ports.ConfigSourcePort
	Sleep          func(time.Duration)
	ResolveDevNode func(devNode string) (string, error)
}

func NewService(configDir string) Service {
	enumerator := adapters.NewUdevEnumeratorAdapter()
	return Service{
		Devices:        enumerator,
		Config:         adapters.NewConfigDirSourceAdapter(configDir),
		Sleep:          time.Sleep,
		ResolveDevNode: enumerator.DevPathForNode,
	}
}
