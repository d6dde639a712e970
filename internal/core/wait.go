package core

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// WaitTimeoutPrefix starts every wait-timeout error message; the CLI layer
// keys the distinct timeout exit code off it.
const WaitTimeoutPrefix = "timed out waiting for env"

// ScanFunc runs one full scan-and-resolve pass against fresh system state
// and returns the resulting env buckets.
type ScanFunc func(ctx context.Context) (*EnvBuckets, error)

// Waiter polls a full rescan until every requested env base name resolves
// or the time budget is spent. Sleep is injectable for tests; nil means
// time.Sleep.
type Waiter struct {
	Scan  ScanFunc
	Sleep func(time.Duration)
}

// Wait runs the poll loop. The budget counts whole seconds, checked after
// each failed scan, so timeoutSec == 0 still performs exactly one scan; a
// negative budget waits forever. The returned buckets are those of the
// satisfying scan.
func (w Waiter) Wait(ctx context.Context, names []string, timeoutSec int) (*EnvBuckets, error) {
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	elapsed := 0
	for attempt := 1; ; attempt++ {
		buckets, err := w.Scan(ctx)
		if err != nil {
			return nil, err
		}
		missing := missingNames(buckets, names)
		if len(missing) == 0 {
			log.Ctx(ctx).Debug().
				Int("attempts", attempt).
				Msg("requested env variables resolved")
			return buckets, nil
		}
		if timeoutSec >= 0 && elapsed >= timeoutSec {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(WaitTimeoutPrefix + ": " + strings.Join(missing, ", "))
		}
		log.Ctx(ctx).Debug().
			Strs("missing", missing).
			Int("elapsed_sec", elapsed).
			Msg("env variables not yet resolvable")
		sleep(time.Second)
		elapsed++
	}
}

// missingNames returns the requested names not yet resolvable, in request
// order. Matching is exact on the env base name: a request for SERIAL is
// satisfied by any identifier exporting SERIAL tokens.
func missingNames(buckets *EnvBuckets, names []string) []string {
	resolved := make(map[string]struct{})
	for _, name := range buckets.Names() {
		resolved[name] = struct{}{}
	}
	var missing []string
	for _, name := range names {
		if _, ok := resolved[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
