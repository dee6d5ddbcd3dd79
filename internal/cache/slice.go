// Package cache holds the normalized client-side state for one entity kind:
// records by id plus an ordered id index per scope. All writes go through
// Dispatch, which applies one Transition under the slice lock.
package cache

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ButyrinIA/socialclient/internal/models"
)

// Entity is implemented by the record types stored in a Slice.
type Entity[T any] interface {
	EntityID() string
	Clone() T
	WithReactions(models.Reactions) T
	Replace(update T) T
}

// ScopeState is a copy of the pagination index of one scope.
type ScopeState struct {
	OrderedIDs  []string `json:"orderedIds"`
	TotalCount  int      `json:"totalCount"`
	CurrentPage int      `json:"currentPage"`
}

// Status is the shared loading/error pair of a slice.
type Status struct {
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// Snapshot is a deep copy of a slice's state.
type Snapshot[T any] struct {
	Name     string                `json:"name"`
	Entities map[string]T          `json:"entities"`
	Scopes   map[string]ScopeState `json:"scopes"`
	Status   Status                `json:"status"`
}

type scopeIndex struct {
	ids   []string
	total int
	page  int
	// ids inserted by UpsertCreated and not yet seen in a fetched page;
	// they are not part of the server-confirmed total.
	pending map[string]struct{}
	// evictors are the created ids whose insert trimmed the tail, evicted
	// the trimmed ids, both oldest first. Removing an evictor puts the
	// most recently trimmed id back at the tail.
	evictors []string
	evicted  []string
}

// Slice is the cache for one entity kind.
type Slice[T Entity[T]] struct {
	name   string
	window int

	mu      sync.RWMutex
	byID    map[string]T
	scopes  map[string]*scopeIndex
	applied map[string]uint64
	status  Status

	seq atomic.Uint64
}

// New creates an empty slice. A positive window keeps the head of each
// scope index aligned to pages of that size when records are created.
func New[T Entity[T]](name string, window int) *Slice[T] {
	return &Slice[T]{
		name:    name,
		window:  window,
		byID:    make(map[string]T),
		scopes:  make(map[string]*scopeIndex),
		applied: make(map[string]uint64),
	}
}

func (s *Slice[T]) Name() string {
	return s.name
}

// NextSeq issues a request sequence number for a page fetch.
func (s *Slice[T]) NextSeq() uint64 {
	return s.seq.Add(1)
}

// Dispatch applies t atomically.
func (s *Slice[T]) Dispatch(t Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch tr := t.(type) {
	case StartLoading:
		s.status.IsLoading = true
	case Fail:
		s.status = Status{IsLoading: false, Error: tr.Err}
	case UpsertPage[T]:
		s.upsertPage(tr)
		s.status = Status{}
	case UpsertCreated[T]:
		s.upsertCreated(tr)
		s.status = Status{}
	case UpdateFields[T]:
		if cur, ok := s.byID[tr.ID]; ok {
			s.byID[tr.ID] = cur.Replace(tr.Patch)
		}
		s.status = Status{}
	case UpdateReactions:
		if cur, ok := s.byID[tr.ID]; ok {
			s.byID[tr.ID] = cur.WithReactions(tr.Reactions)
		}
		s.status = Status{}
	case Remove:
		s.remove(tr)
		s.status = Status{}
	case ResetScope:
		delete(s.scopes, tr.Scope)
	default:
		return fmt.Errorf("cache %s: unsupported transition %T", s.name, t)
	}
	return nil
}

func (s *Slice[T]) index(scope string) *scopeIndex {
	idx, ok := s.scopes[scope]
	if !ok {
		idx = &scopeIndex{page: 1, pending: make(map[string]struct{})}
		s.scopes[scope] = idx
	}
	return idx
}

func (s *Slice[T]) upsertPage(tr UpsertPage[T]) {
	stale := tr.Seq != 0 && tr.Seq < s.applied[tr.Scope]
	if !stale && tr.Seq > s.applied[tr.Scope] {
		s.applied[tr.Scope] = tr.Seq
	}

	if tr.Reset && !stale {
		delete(s.scopes, tr.Scope)
	}
	idx := s.index(tr.Scope)

	for _, item := range tr.Items {
		id := item.EntityID()
		s.byID[id] = item.Clone()
		if !slices.Contains(idx.ids, id) {
			idx.ids = append(idx.ids, id)
		}
		idx.evicted = deleteID(idx.evicted, id)
		if _, local := idx.pending[id]; local {
			delete(idx.pending, id)
			if pos := slices.Index(idx.evictors, id); pos >= 0 {
				// the created record is now confirmed; its trim is permanent
				idx.evictors = slices.Delete(idx.evictors, pos, pos+1)
				if len(idx.evicted) > 0 {
					idx.evicted = idx.evicted[1:]
				}
			}
		}
	}

	if !stale {
		idx.total = max(tr.Total, 0)
		if tr.Page >= 1 {
			idx.page = tr.Page
		}
	}
}

func (s *Slice[T]) upsertCreated(tr UpsertCreated[T]) {
	id := tr.Item.EntityID()
	idx := s.index(tr.Scope)

	switch pos := slices.Index(idx.ids, id); {
	case pos >= 0:
		idx.ids = slices.Delete(idx.ids, pos, pos+1)
	case slices.Contains(idx.evicted, id):
		idx.evicted = deleteID(idx.evicted, id)
	default:
		idx.pending[id] = struct{}{}
	}

	if n := len(idx.ids); s.window > 0 && n > 0 && n%s.window == 0 {
		idx.evicted = append(idx.evicted, idx.ids[n-1])
		idx.evictors = append(idx.evictors, id)
		idx.ids = idx.ids[:n-1]
	}

	s.byID[id] = tr.Item.Clone()
	idx.ids = slices.Insert(idx.ids, 0, id)
}

// remove decrements the total only for ids the server confirmed in this
// scope, whether they are still in the window or were trimmed from it.
func (s *Slice[T]) remove(tr Remove) {
	delete(s.byID, tr.ID)

	idx, ok := s.scopes[tr.Scope]
	if !ok {
		return
	}
	inWindow := slices.Contains(idx.ids, tr.ID)
	trimmed := slices.Contains(idx.evicted, tr.ID)
	if !inWindow && !trimmed {
		return
	}
	idx.ids = deleteID(idx.ids, tr.ID)
	idx.evicted = deleteID(idx.evicted, tr.ID)

	if pos := slices.Index(idx.evictors, tr.ID); pos >= 0 {
		idx.evictors = slices.Delete(idx.evictors, pos, pos+1)
		s.restoreTail(idx)
	}

	if _, local := idx.pending[tr.ID]; local {
		delete(idx.pending, tr.ID)
		return
	}
	if idx.total > 0 {
		idx.total--
	}
}

// restoreTail appends the most recently trimmed id that is still cached.
func (s *Slice[T]) restoreTail(idx *scopeIndex) {
	for n := len(idx.evicted); n > 0; n = len(idx.evicted) {
		id := idx.evicted[n-1]
		idx.evicted = idx.evicted[:n-1]
		if _, ok := s.byID[id]; ok && !slices.Contains(idx.ids, id) {
			idx.ids = append(idx.ids, id)
			return
		}
	}
}

func deleteID(ids []string, id string) []string {
	if pos := slices.Index(ids, id); pos >= 0 {
		return slices.Delete(ids, pos, pos+1)
	}
	return ids
}

// UpsertPage merges a fetched page into scope.
func (s *Slice[T]) UpsertPage(scope string, items []T, total, page int) {
	_ = s.Dispatch(UpsertPage[T]{Scope: scope, Items: items, Total: total, Page: page})
}

// UpsertCreated prepends a created record to scope.
func (s *Slice[T]) UpsertCreated(scope string, item T) {
	_ = s.Dispatch(UpsertCreated[T]{Scope: scope, Item: item})
}

// UpdateReactions replaces the counts of id; absent ids are ignored.
func (s *Slice[T]) UpdateReactions(id string, r models.Reactions) {
	_ = s.Dispatch(UpdateReactions{ID: id, Reactions: r})
}

// UpdateFields replaces the editable fields of id with those of patch;
// absent ids are ignored.
func (s *Slice[T]) UpdateFields(id string, patch T) {
	_ = s.Dispatch(UpdateFields[T]{ID: id, Patch: patch})
}

// Remove deletes id from the cache and from scope.
func (s *Slice[T]) Remove(scope, id string) {
	_ = s.Dispatch(Remove{Scope: scope, ID: id})
}

// ResetScope clears the index and counters of scope.
func (s *Slice[T]) ResetScope(scope string) {
	_ = s.Dispatch(ResetScope{Scope: scope})
}

// Get returns a copy of the record with the given id.
func (s *Slice[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.Clone(), true
}

// Len returns the number of cached records.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Scope returns a copy of the index of scope. Unknown scopes report an
// empty index on page 1.
func (s *Slice[T]) Scope(scope string) ScopeState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.scopes[scope]
	if !ok {
		return ScopeState{OrderedIDs: []string{}, CurrentPage: 1}
	}
	return idx.state()
}

// Page resolves the ordered index of scope into records.
func (s *Slice[T]) Page(scope string) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.scopes[scope]
	if !ok {
		return nil
	}
	out := make([]T, 0, len(idx.ids))
	for _, id := range idx.ids {
		if v, ok := s.byID[id]; ok {
			out = append(out, v.Clone())
		}
	}
	return out
}

func (s *Slice[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot returns a deep copy of the whole slice.
func (s *Slice[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot[T]{
		Name:     s.name,
		Entities: make(map[string]T, len(s.byID)),
		Scopes:   make(map[string]ScopeState, len(s.scopes)),
		Status:   s.status,
	}
	for id, v := range s.byID {
		snap.Entities[id] = v.Clone()
	}
	for scope, idx := range s.scopes {
		snap.Scopes[scope] = idx.state()
	}
	return snap
}

func (idx *scopeIndex) state() ScopeState {
	return ScopeState{
		OrderedIDs:  slices.Clone(idx.ids),
		TotalCount:  idx.total,
		CurrentPage: idx.page,
	}
}
