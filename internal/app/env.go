package app

import (
	"context"

	"lsudt/internal/core"
)

// Env derives the NAME_INDEX=value tokens for one scan of the current
// system state.
func (s Service) Env(ctx context.Context, req EnvRequest) (EnvResult, error) {
	buckets, err := s.scanEnv(ctx, req)
	if err != nil {
		return EnvResult{}, err
	}
	return EnvResult{Tokens: buckets.Tokens()}, nil
}

func (s Service) scanEnv(ctx context.Context, req EnvRequest) (*core.EnvBuckets, error) {
	state, err := s.scan(ctx, req.Filters, core.WalkOptions{
		ShowEmptyHubs: req.ShowEmptyHubs,
		ShowBusNodes:  req.ShowBusNodes,
	})
	if err != nil {
		return nil, err
	}
	return core.AssociateEnv(state.tree, state.cfg, state.labels, state.walk), nil
}
