// internal/assistant/contextdata/aggregator.go

// Package contextdata assembles the first-turn data snapshot from the
// layered cache/fallback chain. Every dataset acquisition is independent:
// its own budget, its own failure boundary, and a zeroed entry in the
// snapshot when it degrades.
package contextdata

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"sales-assistant/internal/assistant/cache"
	"sales-assistant/internal/common/auth"
	"sales-assistant/internal/common/httpclient"
	"sales-assistant/internal/common/logger"
	"sales-assistant/internal/common/metrics"
	"sales-assistant/internal/models"
)

type Aggregator struct {
	config   *Config
	fetcher  *httpclient.Client
	partners *cache.Resolver[models.Partner]
	products *cache.Resolver[models.Product]
	logger   logger.Logger
}

func NewAggregator(config *Config, store cache.Store, fetcher *httpclient.Client, log logger.Logger) *Aggregator {
	log = log.With(map[string]interface{}{"component": "aggregator"})
	return &Aggregator{
		config:  config,
		fetcher: fetcher,
		partners: cache.NewResolver(store, func(raw []byte) []models.Partner {
			return DecodeItems[models.Partner](raw, "parceiros")
		}, log.With(map[string]interface{}{"dataset": "partners"})),
		products: cache.NewResolver(store, func(raw []byte) []models.Product {
			return DecodeItems[models.Product](raw, "produtos")
		}, log.With(map[string]interface{}{"dataset": "products"})),
		logger: log,
	}
}

// Aggregate builds the Snapshot for one conversation. It never fails: a
// dataset that times out or errors contributes an empty entry, and the
// failure goes to the log and the acquisition counter only.
//
// The five acquisitions run concurrently. Each goroutine writes a disjoint
// set of snapshot fields and the WaitGroup join publishes them, so no lock
// is needed.
func (a *Aggregator) Aggregate(ctx context.Context, identity auth.Identity) *models.Snapshot {
	start := time.Now()
	snap := models.EmptySnapshot(identity.Name)

	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		items, src := acquireTiered(ctx, a, a.config.Partners, a.partners, nil)
		snap.Partners = capItems(items, a.config.Partners.Cap)
		snap.TotalPartners = len(items)
		a.observe(a.config.Partners.Name, src, len(items))
	}()

	go func() {
		defer wg.Done()
		items, src := acquireTiered(ctx, a, a.config.Products, a.products, nil)
		snap.Products = capItems(items, a.config.Products.Cap)
		snap.TotalProducts = len(items)
		a.observe(a.config.Products.Name, src, len(items))
	}()

	go func() {
		defer wg.Done()
		headers := map[string]string{"Cookie": identity.CookieHeader()}
		items, src := acquireLive[models.Lead](ctx, a, a.config.Leads, headers)
		snap.Leads = capItems(items, a.config.Leads.Cap)
		snap.TotalLeads = len(items)
		a.observe(a.config.Leads.Name, src, len(items))
	}()

	go func() {
		defer wg.Done()
		items, src := acquireLive[models.Activity](ctx, a, a.config.Activities, nil)
		snap.Activities = capItems(items, a.config.Activities.Cap)
		snap.TotalActivities = len(items)
		a.observe(a.config.Activities.Name, src, len(items))
	}()

	go func() {
		defer wg.Done()
		q := a.config.Orders
		q.Path = fmt.Sprintf(q.Path, identity.ID)
		orders, src := acquireLive[models.Order](ctx, a, q, nil)
		// Count and sum cover the full returned set; only the displayed
		// "recent" subset is capped.
		snap.TotalOrders = len(orders)
		snap.TotalOrderValue = models.OrderValueSum(orders)
		snap.RecentOrders = capItems(orders, q.RecentCap)
		a.observe(q.Name, src, len(orders))
	}()

	wg.Wait()

	metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("snapshot assembled", map[string]interface{}{
		"userId":     identity.ID,
		"leads":      snap.TotalLeads,
		"activities": snap.TotalActivities,
		"partners":   snap.TotalPartners,
		"products":   snap.TotalProducts,
		"orders":     snap.TotalOrders,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return snap
}

// acquireTiered probes the dataset's candidate cache keys first and falls
// back to the live endpoint on a full miss.
func acquireTiered[T any](ctx context.Context, a *Aggregator, q DatasetQuery, resolver *cache.Resolver[T], headers map[string]string) ([]T, string) {
	if items, ok := resolver.Resolve(ctx, q.CacheKeys); ok {
		return items, "cache"
	}
	return acquireLive[T](ctx, a, q, headers)
}

// acquireLive performs one budget-bounded fetch and shapes the payload.
// Failures degrade to an empty result.
func acquireLive[T any](ctx context.Context, a *Aggregator, q DatasetQuery, headers map[string]string) ([]T, string) {
	url := strings.TrimSuffix(a.config.BaseURL, "/") + q.Path
	body, err := a.fetcher.FetchJSON(ctx, q.Name, url, headers, q.Timeout)
	if err != nil {
		a.logger.Warn("dataset unavailable", map[string]interface{}{
			"dataset": q.Name,
			"error":   err.Error(),
		})
		return nil, "failed"
	}
	return DecodeItems[T](body, q.WrapField), "api"
}

func (a *Aggregator) observe(dataset, source string, count int) {
	metrics.DatasetAcquisitions.WithLabelValues(dataset, source).Inc()
	if source != "failed" {
		a.logger.Debug("dataset acquired", map[string]interface{}{
			"dataset": dataset,
			"source":  source,
			"count":   count,
		})
	}
}

// capItems truncates to the dataset cap, preserving source order.
func capItems[T any](items []T, max int) []T {
	if len(items) <= max {
		return items
	}
	return items[:max]
}
