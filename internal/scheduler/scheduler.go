// Package scheduler fans the checks of one category out across a bounded
// number of concurrent workers.
package scheduler

import (
	"context"
	"sync"

	"sitescout/internal/scout"
)

// Checker executes a single site check and always produces a Result.
type Checker interface {
	Check(ctx context.Context, category string, site scout.SiteSpec) scout.Result
}

// RunCategory checks every site in the category with at most limit checks in
// flight at once. It always returns one Result per site: once ctx is canceled,
// sites that have not finished are recorded as ERROR rather than dropped, so
// the category result is complete no matter how the run ends.
func RunCategory(ctx context.Context, checker Checker, category string, sites []scout.SiteSpec, limit int) scout.CategoryResult {
	if limit <= 0 {
		limit = 1
	}

	slots := make(chan struct{}, limit)
	results := make(chan scout.Result, len(sites))

	var wg sync.WaitGroup
	for _, site := range sites {
		// Admission gate: block for a slot, but give up as soon as the
		// run is canceled so a stuck category cannot wedge shutdown.
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			results <- canceledResult(site)
			continue
		}

		wg.Add(1)
		go func(site scout.SiteSpec) {
			defer wg.Done()
			defer func() { <-slots }()
			results <- checker.Check(ctx, category, site)
		}(site)
	}

	wg.Wait()
	close(results)

	out := make(scout.CategoryResult, len(sites))
	for res := range results {
		out[res.Site.Name] = res
	}
	return out
}

func canceledResult(site scout.SiteSpec) scout.Result {
	return scout.Result{
		Site:   site,
		Status: scout.StatusError,
		Err:    "check canceled",
	}
}
