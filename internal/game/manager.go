package game

import "sync"

// Manager keeps one table per seat, usually a chat id.
type Manager struct {
	tables  map[int64]*Table
	factory func(seat int64) *Table
	mu      sync.RWMutex
}

func NewManager(factory func(seat int64) *Table) *Manager {
	return &Manager{
		tables:  make(map[int64]*Table),
		factory: factory,
	}
}

func (m *Manager) Get(seat int64) *Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[seat]
}

func (m *Manager) GetOrCreate(seat int64) *Table {
	if t := m.Get(seat); t != nil {
		return t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[seat]; ok {
		return t
	}
	t := m.factory(seat)
	m.tables[seat] = t
	return t
}

func (m *Manager) Delete(seat int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, seat)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}
