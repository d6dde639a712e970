package app

import (
	"context"
	"strings"

	"lsudt/internal/core"
	"lsudt/internal/types"
)

// scanContext is the freshly built state of one scan-and-resolve pass.
// Every pass rebuilds it from scratch; retry loops must never see stale
// topology or stale configuration.
type scanContext struct {
	cfg    core.Config
	tree   *core.Tree
	labels *core.LabelMap
	walk   core.WalkOptions
}

// scan runs the pipeline shared by every operation: load and merge the
// config, resolve filter indirections against it, enumerate devices, build
// the tree, then resolve labels against the built tree.
func (s Service) scan(ctx context.Context, f Filters, walk core.WalkOptions) (scanContext, error) {
	files, err := s.Config.LoadConfig(ctx)
	if err != nil {
		return scanContext{}, err
	}
	cfg := core.MergeConfig(ctx, files)

	portPath := f.PortPath
	idPath := f.IDPath
	if f.Label != "" {
		if locator, ok := cfg.Locators.Get(f.Label); ok {
			switch locator.Kind {
			case types.LocatorKindPortPath:
				portPath = locator.Value
			case types.LocatorKindIDPath:
				idPath = locator.Value
			}
		}
	}

	devicePath := ""
	if f.DevicePath != "" {
		devicePath, err = s.resolveDevicePath(f.DevicePath)
		if err != nil {
			return scanContext{}, err
		}
	}

	devices, err := s.Devices.ListDevices(ctx, f.Tag)
	if err != nil {
		return scanContext{}, err
	}
	tree := core.BuildTree(ctx, devices, core.BuildOptions{
		DevicePathPrefix: devicePath,
		PortPathPrefix:   portPath,
	})
	walk.IDPathPrefix = idPath
	return scanContext{
		cfg:    cfg,
		tree:   tree,
		labels: core.ResolveLabels(cfg, tree),
		walk:   walk,
	}, nil
}

// resolveDevicePath turns the user's restriction into DEVPATH form. A /dev
// node goes through sysfs resolution; anything else is sanitized textually.
func (s Service) resolveDevicePath(raw string) (string, error) {
	if strings.HasPrefix(raw, "/dev/") && s.ResolveDevNode != nil {
		return s.ResolveDevNode(raw)
	}
	return core.SanitizeDevicePath(raw), nil
}
