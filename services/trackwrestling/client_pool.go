package trackwrestling

import (
	"context"
	"fmt"
	"sync"
	"time"
	"trackwrestling-backend/internal/components/assert"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
	"trackwrestling-backend/lib/scrapers/trackwrestling/core"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Fetcher is everything the http api needs from trackwrestling, *core.Client
// and ClientPool implement it.
type Fetcher interface {
	SearchTournaments(ctx context.Context, query string) ([]tw.Tournament, error)
	TournamentHub(ctx context.Context, eventType tw.EventType, tournamentId int64) (tw.Tournament, error)
	MatAssignments(ctx context.Context, eventType tw.EventType, tournamentId int64) ([]tw.Match, error)
	Brackets(ctx context.Context, eventType tw.EventType, tournamentId int64) (tw.BracketData, error)
	BracketHTML(ctx context.Context, eventType tw.EventType, tournamentId int64, groupId string, pages []int64) (string, error)
}

type PoolOptions struct {
	Client core.ClientOptions
	// SessionTTL defaults to 15 minutes.
	SessionTTL time.Duration
	// SessionCacheSize defaults to 256.
	SessionCacheSize int
}

// ClientPool keeps one client (and so one viewer session) per tournament for
// a while. Every client shares one rate limiter.
type ClientPool struct {
	opts  core.ClientOptions
	clock chrono.TimeAPI
	tel   telemetry.API

	mutex  sync.Mutex
	cache  *expirable.LRU[string, *core.Client]
	search *core.Client
}

func NewClientPool(opts PoolOptions, clock chrono.TimeAPI, tel telemetry.API) (*ClientPool, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 15 * time.Minute
	}
	if opts.SessionCacheSize <= 0 {
		opts.SessionCacheSize = 256
	}
	if opts.Client.Limiter == nil {
		opts.Client.Limiter = core.NewLimiter(opts.Client.RequestsPerSecond)
	}

	search, err := core.NewClient(opts.Client, clock, tel)
	if err != nil {
		return nil, err
	}

	return &ClientPool{
		opts:   opts.Client,
		clock:  clock,
		tel:    tel,
		cache:  expirable.NewLRU[string, *core.Client](opts.SessionCacheSize, nil, opts.SessionTTL),
		search: search,
	}, nil
}

func poolKey(eventType tw.EventType, tournamentId int64) string {
	return fmt.Sprintf("%s:%d", eventType.Alias(), tournamentId)
}

// Get returns the cached client for a tournament, creating one if the last
// one expired.
func (p *ClientPool) Get(eventType tw.EventType, tournamentId int64) (*core.Client, error) {
	key := poolKey(eventType, tournamentId)

	p.mutex.Lock()
	defer p.mutex.Unlock()

	cached, hit := p.cache.Get(key)
	if hit {
		return cached, nil
	}
	client, err := core.NewClient(p.opts, p.clock, p.tel)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, client)
	return client, nil
}

// Len is the number of live sessions.
func (p *ClientPool) Len() int {
	return p.cache.Len()
}

func (p *ClientPool) SearchTournaments(ctx context.Context, query string) ([]tw.Tournament, error) {
	return p.search.SearchTournaments(ctx, query)
}

func (p *ClientPool) TournamentHub(ctx context.Context, eventType tw.EventType, tournamentId int64) (tw.Tournament, error) {
	client, err := p.Get(eventType, tournamentId)
	if err != nil {
		return tw.Tournament{}, err
	}
	return client.TournamentHub(ctx, eventType, tournamentId)
}

func (p *ClientPool) MatAssignments(ctx context.Context, eventType tw.EventType, tournamentId int64) ([]tw.Match, error) {
	client, err := p.Get(eventType, tournamentId)
	if err != nil {
		return nil, err
	}
	return client.MatAssignments(ctx, eventType, tournamentId)
}

func (p *ClientPool) Brackets(ctx context.Context, eventType tw.EventType, tournamentId int64) (tw.BracketData, error) {
	client, err := p.Get(eventType, tournamentId)
	if err != nil {
		return tw.BracketData{}, err
	}
	return client.Brackets(ctx, eventType, tournamentId)
}

func (p *ClientPool) BracketHTML(ctx context.Context, eventType tw.EventType, tournamentId int64, groupId string, pages []int64) (string, error) {
	client, err := p.Get(eventType, tournamentId)
	if err != nil {
		return "", err
	}
	return client.BracketHTML(ctx, eventType, tournamentId, groupId, pages)
}
