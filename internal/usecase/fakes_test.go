package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/logger"
)

var testLogger = logger.NewNopLogger()

// Friday 2025-07-04 10:00 UTC
var testRef = time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)

type mutableClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *mutableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memContextRepo keeps contexts in insertion order
type memContextRepo struct {
	mu    sync.Mutex
	items []*entity.SearchContext
}

func (r *memContextRepo) Insert(_ context.Context, sc *entity.SearchContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sc
	cp.RawParams.Filters = sc.RawParams.Filters.Clone()
	r.items = append(r.items, &cp)
	return nil
}

// newestFirst returns the user's active contexts, newest first
func (r *memContextRepo) newestFirst(userID int64) []*entity.SearchContext {
	var out []*entity.SearchContext
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID && r.items[i].Active {
			out = append(out, r.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memContextRepo) DeactivateExpired(_ context.Context, userID int64, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sc := range r.items {
		if sc.UserID == userID && sc.Active && !sc.ExpiresAt.After(now) {
			sc.Active = false
			n++
		}
	}
	return n, nil
}

func (r *memContextRepo) DeactivateBeyond(_ context.Context, userID int64, keep int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i, sc := range r.newestFirst(userID) {
		if i >= keep {
			sc.Active = false
			n++
		}
	}
	return n, nil
}

func (r *memContextRepo) FindLatestActive(_ context.Context, userID int64, now time.Time) (*entity.SearchContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sc := range r.newestFirst(userID) {
		if sc.ExpiresAt.After(now) {
			cp := *sc
			return &cp, nil
		}
	}
	return nil, entity.ErrContextNotFound
}

func (r *memContextRepo) CountActive(_ context.Context, userID int64, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sc := range r.newestFirst(userID) {
		if sc.ExpiresAt.After(now) {
			n++
		}
	}
	return n, nil
}

func (r *memContextRepo) DeactivateAll(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sc := range r.items {
		if sc.UserID == userID && sc.Active {
			sc.Active = false
			n++
		}
	}
	return n, nil
}

func (r *memContextRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sc := range r.items {
		if sc.Active && !sc.ExpiresAt.After(now) {
			sc.Active = false
			n++
		}
	}
	return n, nil
}

type memAirlineRepo struct {
	mu       sync.Mutex
	airlines []*entity.Airline
	listErr  error
}

func newMemAirlineRepo(airlines ...*entity.Airline) *memAirlineRepo {
	return &memAirlineRepo{airlines: airlines}
}

func (r *memAirlineRepo) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.airlines {
		if strings.EqualFold(a.Code, code) {
			cp := *a
			cp.Aliases = append([]string(nil), a.Aliases...)
			return &cp, nil
		}
	}
	return nil, entity.ErrAirlineNotFound
}

func (r *memAirlineRepo) List(_ context.Context) ([]*entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entity.Airline, len(r.airlines))
	copy(out, r.airlines)
	return out, nil
}

func (r *memAirlineRepo) Save(_ context.Context, airline *entity.Airline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *airline
	for i, a := range r.airlines {
		if strings.EqualFold(a.Code, airline.Code) {
			r.airlines[i] = &cp
			return nil
		}
	}
	r.airlines = append(r.airlines, &cp)
	return nil
}

func (r *memAirlineRepo) TopByUsage(_ context.Context, limit int) ([]*entity.Airline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Airline, len(r.airlines))
	copy(out, r.airlines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memQueryLog struct {
	mu      sync.Mutex
	entries []*entity.QueryLogEntry
	err     error
}

func (l *memQueryLog) Append(_ context.Context, entry *entity.QueryLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memQueryLog) Counts(_ context.Context) (int64, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ok int64
	for _, e := range l.entries {
		if e.Success {
			ok++
		}
	}
	return int64(len(l.entries)), ok, nil
}

func (l *memQueryLog) CommonQueries(_ context.Context, limit int) ([]entity.QueryCount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range l.entries {
		counts[e.QueryText]++
	}
	out := make([]entity.QueryCount, 0, len(counts))
	for q, n := range counts {
		out = append(out, entity.QueryCount{QueryText: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].QueryText < out[j].QueryText
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeOracle struct {
	name    string
	params  *entity.OracleResult
	filters *entity.FilterResult
	err     error
	delay   time.Duration

	mu      sync.Mutex
	queries []string
}

func (o *fakeOracle) Name() string { return o.name }

func (o *fakeOracle) record(q string) {
	o.mu.Lock()
	o.queries = append(o.queries, q)
	o.mu.Unlock()
}

func (o *fakeOracle) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queries)
}

func (o *fakeOracle) ExtractParameters(ctx context.Context, query string, _ time.Time) (*entity.OracleResult, error) {
	o.record(query)
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.params == nil {
		return nil, errors.New("no canned parameters")
	}
	cp := *o.params
	return &cp, nil
}

func (o *fakeOracle) ExtractFilters(_ context.Context, query string) (*entity.FilterResult, error) {
	o.record(query)
	if o.err != nil {
		return nil, o.err
	}
	if o.filters == nil {
		return nil, errors.New("no canned filters")
	}
	cp := *o.filters
	return &cp, nil
}

type fakeProvider struct {
	mu       sync.Mutex
	result   *entity.FlightOfferResult
	err      error
	requests []entity.FlightSearchRequest
}

func (p *fakeProvider) SearchOffers(_ context.Context, req entity.FlightSearchRequest) (*entity.FlightOfferResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	return p.result, p.err
}

func (p *fakeProvider) lastRequest() entity.FlightSearchRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

func sampleAirlines() []*entity.Airline {
	return []*entity.Airline{
		{Code: "AI", Name: "Air India", Aliases: []string{"Air India", "AIR INDIA"}},
		{Code: "6E", Name: "IndiGo", Aliases: []string{"IndiGo", "Indigo Airlines"}},
		{Code: "SG", Name: "SpiceJet", Aliases: []string{"SpiceJet"}},
		{Code: "UK", Name: "Vistara", Aliases: []string{"Vistara"}},
		{Code: "EK", Name: "Emirates", Aliases: []string{"Emirates"}},
		{Code: "QP", Name: "Akasa Air", Aliases: []string{"Akasa Air"}},
	}
}

func rawSegment(carrier, number, from, to, dep, arr string) entity.RawSegment {
	return entity.RawSegment{
		Departure:   entity.RawEndpoint{IATACode: from, Terminal: "3", At: dep},
		Arrival:     entity.RawEndpoint{IATACode: to, Terminal: "1", At: arr},
		CarrierCode: carrier,
		Number:      number,
		Aircraft:    entity.RawAircraft{Code: "320"},
		Duration:    "PT2H10M",
	}
}

func rawOffer(id, price, cabin string, segments ...entity.RawSegment) entity.RawOffer {
	return entity.RawOffer{
		ID:                     id,
		ValidatingAirlineCodes: []string{segments[0].CarrierCode},
		Itineraries:            []entity.RawItinerary{{Duration: "PT2H10M", Segments: segments}},
		Price:                  entity.RawPrice{Currency: "EUR", Total: price, GrandTotal: price},
		TravelerPricings: []entity.RawTravelerPricing{{
			FareDetailsBySegment: []entity.RawFareDetail{{Cabin: cabin}},
		}},
	}
}
