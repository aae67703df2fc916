package filter

import (
	"context"
	"sync"
	"time"

	"lapmart/internal/catalog"
	"lapmart/internal/domain"
	applog "lapmart/internal/log"
)

// Store is the catalog store as the engine sees it: attribute-indexed,
// read-only queries over an internally consistent snapshot.
type Store interface {
	Find(ctx context.Context, p Predicate, offset, limit int) ([]domain.Listing, int, error)
	Count(ctx context.Context, p Predicate) (int, error)
	DistinctValues(ctx context.Context, attr catalog.Attribute) ([]string, error)
	MinMax(ctx context.Context, attr catalog.Attribute, p Predicate) (float64, float64, error)
}

const (
	defaultProbeWorkers = 8
	defaultProbeTimeout = 2 * time.Second
)

// Calculator computes, for every value of every registered facet, whether
// selecting it would still yield at least one result. One count probe per
// unselected facet value; probes are independent reads and fan out on a
// bounded worker pool.
type Calculator struct {
	Store Store
	// Workers caps concurrent probes per request. Additional probes
	// queue rather than fail.
	Workers int
	// ProbeTimeout bounds each store call; a timed-out probe resolves
	// per the conservative policy below.
	ProbeTimeout time.Duration
}

type probe struct {
	facet int // index into the facet list
	opt   int // index into that facet's option slice
	sel   Selection
}

// Options runs the availability computation for sel.
//
// Per facet: a selected value is enabled unconditionally (deselecting must
// always be possible). An unselected value is probed with the facet's
// accepted set replaced by that value alone, every other facet kept as-is
// (substitution semantics, uniform across facets). When the selection is
// empty the probe loop is skipped and everything is enabled.
//
// A failed probe is retried once, then resolved as enabled: occasionally
// showing a dead-end option is better than hiding a reachable one.
func (c *Calculator) Options(ctx context.Context, sel Selection) (domain.FilterOptions, error) {
	facets := catalog.Facets()
	out := domain.FilterOptions{Facets: make(map[string][]domain.FacetOption, len(facets))}

	options := make([][]domain.FacetOption, len(facets))
	var probes []probe
	for i, attr := range facets {
		dctx, cancel := c.withTimeout(ctx)
		known, err := c.Store.DistinctValues(dctx, attr)
		cancel()
		if err != nil {
			return out, err
		}
		// keep a user-picked value visible even if it vanished from
		// the catalog, so it can still be deselected
		for _, v := range sel.Values(attr.Key) {
			if !contains(known, v) {
				known = append(known, v)
			}
		}
		options[i] = make([]domain.FacetOption, len(known))
		for j, v := range known {
			options[i][j] = domain.FacetOption{Value: v}
			if sel.Empty() || sel.Selected(attr.Key, v) {
				continue
			}
			probes = append(probes, probe{facet: i, opt: j, sel: sel.Replacing(attr.Key, v)})
		}
	}

	c.run(ctx, options, probes)

	for i, attr := range facets {
		out.Facets[attr.Key] = options[i]
	}

	// price has no discrete value set; recompute its bounds over
	// everything matching the other active constraints
	priceAttr, _ := catalog.Lookup(catalog.KeyPrice)
	mctx, cancel := c.withTimeout(ctx)
	min, max, err := c.Store.MinMax(mctx, priceAttr, Compile(sel.WithoutPrice()))
	cancel()
	if err != nil {
		return out, err
	}
	out.PriceRange = domain.PriceRange{Min: min, Max: max}
	return out, nil
}

// run fans the probes out over the worker pool and writes each verdict
// into its own option slot; no two probes share state.
func (c *Calculator) run(ctx context.Context, options [][]domain.FacetOption, probes []probe) {
	if len(probes) == 0 {
		return
	}
	workers := c.Workers
	if workers <= 0 {
		workers = defaultProbeWorkers
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, pr := range probes {
		wg.Add(1)
		sem <- struct{}{}
		go func(pr probe) {
			defer wg.Done()
			defer func() { <-sem }()
			options[pr.facet][pr.opt].Disabled = !c.reachable(ctx, pr.sel)
		}(pr)
	}
	wg.Wait()
}

// reachable probes whether sel would yield at least one result.
func (c *Calculator) reachable(ctx context.Context, sel Selection) bool {
	p := Compile(sel)
	n, err := c.count(ctx, p)
	if err != nil {
		// one retry, then enable conservatively
		n, err = c.count(ctx, p)
		if err != nil {
			applog.Warn("facet.probe.failed", err, nil)
			return true
		}
	}
	return n > 0
}

func (c *Calculator) count(ctx context.Context, p Predicate) (int, error) {
	pctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.Store.Count(pctx, p)
}

// withTimeout bounds a single store call. No call out of the calculator
// goes without a deadline; a hung store must not hang the request.
func (c *Calculator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func contains(vs []string, v string) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
