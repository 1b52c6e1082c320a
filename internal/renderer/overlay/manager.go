package overlay

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
)

// Portal is floating content anchored to a rectangle in a window's content
// space. Content is a control; it is placed in the layout tree as a portal
// child of the window's root node.
type Portal struct {
	ID        string
	Anchor    core.ScreenRect
	Size      core.Size
	Placement Placement
	Priority  Priority
	Content   any

	node   *layout.Node
	result Result
	seq    int
}

// Result returns the placement resolved by the last Sync.
func (p *Portal) Result() Result { return p.result }

// Node returns the layout node holding the content, once synced.
func (p *Portal) Node() *layout.Node { return p.node }

// Manager tracks the open portals of one window.
type Manager struct {
	mu sync.RWMutex

	// portals contains all open portals, keyed by ID.
	portals map[string]*Portal

	// sortedIDs contains portal IDs sorted by priority then open order.
	sortedIDs []string

	// needsSort indicates the sortedIDs needs re-sorting.
	needsSort bool

	// attached holds portals currently wired into a layout root.
	attached map[string]*Portal

	seq     int
	version uint64
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		portals:  make(map[string]*Portal),
		attached: make(map[string]*Portal),
	}
}

// Open registers p and returns its ID. An empty ID is replaced by a
// generated one; an existing ID replaces the previous portal.
func (m *Manager) Open(p *Portal) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Priority == 0 {
		p.Priority = PriorityNormal
	}
	if _, exists := m.portals[p.ID]; !exists {
		m.sortedIDs = append(m.sortedIDs, p.ID)
	}
	m.seq++
	p.seq = m.seq
	m.portals[p.ID] = p
	m.needsSort = true
	m.version++
	return p.ID
}

// Close removes a portal by ID.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.portals[id]; !ok {
		return false
	}
	delete(m.portals, id)
	for i, sid := range m.sortedIDs {
		if sid == id {
			m.sortedIDs = append(m.sortedIDs[:i], m.sortedIDs[i+1:]...)
			break
		}
	}
	m.version++
	return true
}

// Get returns a portal by ID.
func (m *Manager) Get(id string) (*Portal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.portals[id]
	return p, ok
}

// Clear closes every portal.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portals = make(map[string]*Portal)
	m.sortedIDs = nil
	m.version++
}

// Count returns the number of open portals.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.portals)
}

// Version changes whenever a portal is opened or closed.
func (m *Manager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Portals returns the open portals, lowest priority first.
func (m *Manager) Portals() []*Portal {
	m.mu.Lock()
	m.ensureSorted()
	out := make([]*Portal, 0, len(m.sortedIDs))
	for _, id := range m.sortedIDs {
		out = append(out, m.portals[id])
	}
	m.mu.Unlock()
	return out
}

func (m *Manager) ensureSorted() {
	if !m.needsSort {
		return
	}
	sort.SliceStable(m.sortedIDs, func(i, j int) bool {
		a, b := m.portals[m.sortedIDs[i]], m.portals[m.sortedIDs[j]]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.seq < b.seq
	})
	m.needsSort = false
}

// Sync resolves every portal's placement within bounds and mirrors the set
// of open portals onto root's portal children, in paint order. Closed
// portals are detached.
func (m *Manager) Sync(root *layout.Node, bounds core.ScreenRect) {
	portals := m.Portals()

	m.mu.Lock()
	defer m.mu.Unlock()

	live := make(map[string]bool, len(portals))
	for _, p := range portals {
		live[p.ID] = true
	}
	for id, p := range m.attached {
		if !live[id] || p.node.Parent() != root {
			if p.node != nil && p.node.Parent() == root {
				root.RemovePortal(p.node)
			}
			delete(m.attached, id)
		}
	}

	reorder := false
	for _, p := range portals {
		p.result = Place(p.Anchor, p.Size, p.Placement, bounds)
		if _, ok := m.attached[p.ID]; ok {
			root.MovePortal(p.node, p.result.Rect)
			continue
		}
		if p.node == nil {
			p.node = layout.NewNode(p.Content, nil)
		}
		root.AddPortal(p.node, p.result.Rect)
		m.attached[p.ID] = p
		reorder = true
	}

	if reorder {
		// Re-add in priority order so paint order matches.
		for _, p := range portals {
			root.RemovePortal(p.node)
		}
		for _, p := range portals {
			root.AddPortal(p.node, p.result.Rect)
		}
	}
}
