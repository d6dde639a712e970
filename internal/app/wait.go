package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"lsudt/internal/core"
)

// Wait polls full rescans until every requested env base name resolves or
// the timeout budget expires. Each attempt re-reads the configuration and
// re-enumerates devices, so hotplug and config edits are both picked up.
func (s Service) Wait(ctx context.Context, req WaitRequest) (WaitResult, error) {
	if len(req.Names) == 0 {
		return WaitResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("wait requires at least one env variable name")
	}
	waiter := core.Waiter{
		Sleep: s.Sleep,
		Scan: func(ctx context.Context) (*core.EnvBuckets, error) {
			return s.scanEnv(ctx, req.EnvRequest)
		},
	}
	buckets, err := waiter.Wait(ctx, req.Names, req.TimeoutSec)
	if err != nil {
		return WaitResult{}, err
	}
	return WaitResult{Tokens: buckets.Tokens()}, nil
}
