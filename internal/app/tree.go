package app

import (
	"context"
	"strings"

	"lsudt/internal/core"
)

// Tree renders the discovered topology as indented text.
func (s Service) Tree(ctx context.Context, req TreeRequest) (TreeResult, error) {
	state, err := s.scan(ctx, req.Filters, core.WalkOptions{
		ShowEmptyHubs: req.ShowEmptyHubs,
		ShowBusNodes:  req.ShowBusNodes,
	})
	if err != nil {
		return TreeResult{}, err
	}
	var out strings.Builder
	core.RenderTree(&out, state.tree, state.labels, core.RenderOptions{
		Walk:        state.walk,
		ShowIDPaths: req.ShowIDPaths,
		ShowLinks:   req.ShowLinks,
	})
	return TreeResult{Output: out.String()}, nil
}
