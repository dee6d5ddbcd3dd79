package cache

import "github.com/ButyrinIA/socialclient/internal/models"

// Transition is a single state change applied to a Slice. The set of
// transitions is closed: only the types in this file implement it.
type Transition interface {
	transition()
}

// StartLoading marks the slice busy before an API call.
type StartLoading struct{}

// Fail records a failed operation and clears the loading flag. Cached
// entities and indexes are left untouched.
type Fail struct {
	Err string
}

// UpsertPage merges one fetched page into the cache and the scope index.
// Reset clears the scope index first, in the same transition. Seq is the
// request sequence from Slice.NextSeq; zero means unsequenced.
type UpsertPage[T any] struct {
	Scope string
	Items []T
	Total int
	Page  int
	Reset bool
	Seq   uint64
}

// UpsertCreated inserts a freshly created record at the head of its scope.
type UpsertCreated[T any] struct {
	Scope string
	Item  T
}

// UpdateFields replaces record ID with Patch, the record returned by an
// edit. Fields absent from Patch are cleared.
type UpdateFields[T any] struct {
	ID    string
	Patch T
}

// UpdateReactions replaces the reaction counts of record ID.
type UpdateReactions struct {
	ID        string
	Reactions models.Reactions
}

// Remove deletes record ID from the cache and from the scope index.
type Remove struct {
	Scope string
	ID    string
}

// ResetScope drops the ordered index and counters of a scope.
type ResetScope struct {
	Scope string
}

func (StartLoading) transition() {}
func (Fail) transition() {}
func (UpsertPage[T]) transition() {}
func (UpsertCreated[T]) transition() {}
func (UpdateFields[T]) transition() {}
func (UpdateReactions) transition() {}
func (Remove) transition() {}
func (ResetScope) transition() {}
