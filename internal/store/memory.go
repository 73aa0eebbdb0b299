package store

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type recordKey struct {
	modID    string
	language string
	key      string
}

// Memory is a Store held entirely in process memory.
type Memory struct {
	mu      sync.RWMutex
	mods    map[string]ModRecord
	records map[recordKey]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		mods:    make(map[string]ModRecord),
		records: make(map[recordKey]Record),
	}
}

func (m *Memory) PutMod(_ context.Context, mod ModRecord) error {
	m.mu.Lock()
	m.mods[mod.ID] = mod
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListMods(_ context.Context) ([]ModRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mods := make([]ModRecord, 0, len(m.mods))
	for _, mod := range m.mods {
		mods = append(mods, mod)
	}
	slices.SortFunc(mods, func(a, b ModRecord) int { return strings.Compare(a.ID, b.ID) })
	return mods, nil
}

func (m *Memory) DeleteMod(ctx context.Context, modID string) error {
	m.mu.Lock()
	delete(m.mods, modID)
	m.mu.Unlock()
	return m.DeletePrefix(ctx, modID, "")
}

func (m *Memory) Put(_ context.Context, records ...Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		r.Values = slices.Clone(r.Values)
		m.records[recordKey{r.ModID, r.Language, r.Key}] = r
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, modID, language, key string) error {
	m.mu.Lock()
	delete(m.records, recordKey{modID, language, key})
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, modID, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.records {
		if k.modID == modID && (language == "" || k.language == language) {
			delete(m.records, k)
		}
	}
	return nil
}

func (m *Memory) QueryAll(_ context.Context, modID, language string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for k, r := range m.records {
		if k.modID != modID || (language != "" && k.language != language) {
			continue
		}
		r.Values = slices.Clone(r.Values)
		out = append(out, r)
	}
	sortRecords(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }

func sortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		if c := strings.Compare(a.Language, b.Language); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
}
