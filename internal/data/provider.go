package data

import (
	"log"
	"time"

	"minesite-model/internal/config"
	"minesite-model/internal/model"

	gocache "github.com/patrickmn/go-cache"
)

// SnapshotSource records where a snapshot came from, so callers can surface
// data provenance next to the numbers.
type SnapshotSource string

const (
	SourceLive   SnapshotSource = "live"
	SourceCache  SnapshotSource = "cache"
	SourceStatic SnapshotSource = "static-fallback"
)

const snapshotCacheKey = "network-snapshot"

// Provider hands out network snapshots with a live-first policy: a cached
// live fetch wins, then a fresh fetch, then the static assumption values.
// It never returns an error; a projection must always be computable.
type Provider struct {
	client *LiveClient
	assume config.Assumptions
	cache  *gocache.Cache
}

// NewProvider wires a live client to the assumption constants. TTL comes
// from the assumptions (live_data_ttl_hours).
func NewProvider(client *LiveClient, assume config.Assumptions) *Provider {
	ttl := assume.LiveDataTTL()
	return &Provider{
		client: client,
		assume: assume,
		cache:  gocache.New(ttl, ttl),
	}
}

// Snapshot returns the freshest snapshot available and its provenance.
func (p *Provider) Snapshot() (model.NetworkSnapshot, SnapshotSource) {
	if cached, found := p.cache.Get(snapshotCacheKey); found {
		if snap, ok := cached.(model.NetworkSnapshot); ok {
			return snap, SourceCache
		}
	}

	snap, err := p.Refresh()
	if err != nil {
		log.Printf("[LiveData] Live fetch failed, using static assumptions: %v", err)
		return p.Static(), SourceStatic
	}
	return snap, SourceLive
}

// Refresh forces a live fetch, bypassing the cache. The result is cached on
// success so subsequent Snapshot calls reuse it.
func (p *Provider) Refresh() (model.NetworkSnapshot, error) {
	snap, err := p.client.FetchSnapshot(p.assume.BlockSubsidyBTC, p.assume.USDToGBP)
	if err != nil {
		return model.NetworkSnapshot{}, err
	}
	p.cache.Set(snapshotCacheKey, snap, gocache.DefaultExpiration)
	return snap, nil
}

// Static returns the snapshot implied by the assumption constants, stamped
// with the current time.
func (p *Provider) Static() model.NetworkSnapshot {
	return p.assume.StaticSnapshot(time.Now().UTC())
}
