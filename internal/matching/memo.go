package matching

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/metrics"
	"github.com/angelmondragon/haulmarket/pkg/redis"
	"github.com/google/uuid"
)

// wasteTypeLoader returns the waste types a main product accepts.
type wasteTypeLoader func(ctx context.Context, mainProductID uuid.UUID) ([]uuid.UUID, error)

type memoEntry struct {
	wasteTypes []uuid.UUID
	expiresAt  time.Time
}

// wasteTypeMemo caches MainProduct waste-type lists per engine instance.
// Entries expire after ttl and the table never holds more than capacity
// entries. A zero ttl or capacity disables local caching. When shared is set,
// misses consult redis before hitting the loader.
type wasteTypeMemo struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]memoEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
	load     wasteTypeLoader
	shared   redis.Store
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
}

func newWasteTypeMemo(load wasteTypeLoader, ttl time.Duration, capacity int, shared redis.Store, m *metrics.EngineMetrics, logg *logger.Logger) *wasteTypeMemo {
	return &wasteTypeMemo{
		entries:  make(map[uuid.UUID]memoEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		load:     load,
		shared:   shared,
		metrics:  m,
		logg:     logg,
	}
}

func (m *wasteTypeMemo) enabled() bool {
	return m.ttl > 0 && m.capacity > 0
}

// WasteTypes returns the accepted waste types for mainProductID.
func (m *wasteTypeMemo) WasteTypes(ctx context.Context, mainProductID uuid.UUID) ([]uuid.UUID, error) {
	if ids, ok := m.lookup(mainProductID); ok {
		m.metrics.IncMemo("hit")
		return ids, nil
	}
	if ids, ok := m.readShared(ctx, mainProductID); ok {
		m.metrics.IncMemo("shared_hit")
		m.put(mainProductID, ids)
		return ids, nil
	}

	m.metrics.IncMemo("miss")
	ids, err := m.load(ctx, mainProductID)
	if err != nil {
		return nil, err
	}
	m.put(mainProductID, ids)
	m.writeShared(ctx, mainProductID, ids)
	return ids, nil
}

// Invalidate drops mainProductID from both tiers after a catalog edit.
func (m *wasteTypeMemo) Invalidate(ctx context.Context, mainProductID uuid.UUID) {
	m.mu.Lock()
	delete(m.entries, mainProductID)
	m.mu.Unlock()

	if m.shared == nil {
		return
	}
	if err := m.shared.Del(ctx, m.shared.WasteTypeKey(mainProductID.String())); err != nil {
		m.logg.Warn(ctx, "waste type memo invalidate failed: "+err.Error())
	}
}

func (m *wasteTypeMemo) lookup(id uuid.UUID) ([]uuid.UUID, bool) {
	if !m.enabled() {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, false
	}
	return entry.wasteTypes, true
}

func (m *wasteTypeMemo) put(id uuid.UUID, ids []uuid.UUID) {
	if !m.enabled() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[id]; !exists && len(m.entries) >= m.capacity {
		m.evictLocked(now)
	}
	m.entries[id] = memoEntry{wasteTypes: ids, expiresAt: now.Add(m.ttl)}
}

// evictLocked drops expired entries, then the entry closest to expiry if the
// table is still full.
func (m *wasteTypeMemo) evictLocked(now time.Time) {
	var (
		oldestID uuid.UUID
		oldestAt time.Time
		found    bool
	)
	for id, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, id)
			continue
		}
		if !found || entry.expiresAt.Before(oldestAt) {
			oldestID, oldestAt, found = id, entry.expiresAt, true
		}
	}
	if len(m.entries) >= m.capacity && found {
		delete(m.entries, oldestID)
	}
}

func (m *wasteTypeMemo) readShared(ctx context.Context, id uuid.UUID) ([]uuid.UUID, bool) {
	if m.shared == nil || m.ttl <= 0 {
		return nil, false
	}
	raw, err := m.shared.Get(ctx, m.shared.WasteTypeKey(id.String()))
	if err != nil {
		if !redis.IsMiss(err) {
			m.logg.Warn(ctx, "waste type memo read failed: "+err.Error())
		}
		return nil, false
	}
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		m.logg.Warn(ctx, "waste type memo entry unreadable: "+err.Error())
		return nil, false
	}
	return ids, true
}

func (m *wasteTypeMemo) writeShared(ctx context.Context, id uuid.UUID, ids []uuid.UUID) {
	if m.shared == nil || m.ttl <= 0 {
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := m.shared.Set(ctx, m.shared.WasteTypeKey(id.String()), string(payload), m.ttl); err != nil {
		m.logg.Warn(ctx, "waste type memo write failed: "+err.Error())
	}
}
