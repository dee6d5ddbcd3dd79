package cache

import (
	"fmt"
	"testing"

	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id string) *models.Post {
	return &models.Post{ID: id, Content: "content " + id}
}

func posts(ids ...string) []*models.Post {
	out := make([]*models.Post, len(ids))
	for i, id := range ids {
		out[i] = post(id)
	}
	return out
}

func TestUpsertPage(t *testing.T) {
	t.Run("disjoint pages accumulate without duplicates", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a", "b"), 6, 1)
		s.UpsertPage("u1", posts("c", "d"), 6, 2)
		s.UpsertPage("u1", posts("e", "f"), 6, 3)

		state := s.Scope("u1")
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, state.OrderedIDs)
		assert.Equal(t, 6, s.Len())
	})

	t.Run("overlapping ids keep first position", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a", "b"), 3, 1)
		updated := post("b")
		updated.Content = "edited"
		s.UpsertPage("u1", []*models.Post{updated, post("c")}, 3, 2)

		assert.Equal(t, []string{"a", "b", "c"}, s.Scope("u1").OrderedIDs)
		got, ok := s.Get("b")
		require.True(t, ok)
		assert.Equal(t, "edited", got.Content)
	})

	t.Run("two pages of a user", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("p1", "p2"), 5, 1)
		s.UpsertPage("u1", posts("p3", "p4"), 5, 2)

		state := s.Scope("u1")
		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, state.OrderedIDs)
		assert.Equal(t, 5, state.TotalCount)
		assert.Equal(t, 2, state.CurrentPage)
	})

	t.Run("reset in the same transition", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a", "b"), 2, 1)
		require.NoError(t, s.Dispatch(UpsertPage[*models.Post]{
			Scope: "u1", Items: posts("x"), Total: 1, Page: 1, Reset: true,
		}))

		assert.Equal(t, []string{"x"}, s.Scope("u1").OrderedIDs)
		assert.Equal(t, 1, s.Scope("u1").TotalCount)
	})

	t.Run("stale response merges ids but not counters", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		first := s.NextSeq()
		second := s.NextSeq()

		require.NoError(t, s.Dispatch(UpsertPage[*models.Post]{Scope: "u1", Items: posts("c", "d"), Total: 9, Page: 2, Seq: second}))
		require.NoError(t, s.Dispatch(UpsertPage[*models.Post]{Scope: "u1", Items: posts("a", "b"), Total: 4, Page: 1, Seq: first, Reset: true}))

		state := s.Scope("u1")
		assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, state.OrderedIDs)
		assert.Equal(t, 9, state.TotalCount)
		assert.Equal(t, 2, state.CurrentPage)
	})
}

func TestUpsertCreated(t *testing.T) {
	t.Run("prepends without touching the total", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("a"), 1, 1)
		s.UpsertCreated("u1", post("n"))

		state := s.Scope("u1")
		assert.Equal(t, []string{"n", "a"}, state.OrderedIDs)
		assert.Equal(t, 1, state.TotalCount)
	})

	t.Run("evicts the tail on a page boundary", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("a", "b"), 4, 1)
		s.UpsertCreated("u1", post("n"))

		assert.Equal(t, []string{"n", "a"}, s.Scope("u1").OrderedIDs)
		assert.Equal(t, 4, s.Scope("u1").TotalCount)
		_, ok := s.Get("b")
		assert.True(t, ok, "evicted record stays cached")
	})

	t.Run("no window for comments", func(t *testing.T) {
		s := New[*models.Comment]("comment", 0)
		s.UpsertPage("p1", []*models.Comment{{ID: "c1"}, {ID: "c2"}}, 2, 1)
		s.UpsertCreated("p1", &models.Comment{ID: "c3"})

		assert.Equal(t, []string{"c3", "c1", "c2"}, s.Scope("p1").OrderedIDs)
	})

	t.Run("create then remove restores the index", func(t *testing.T) {
		for _, loaded := range [][]string{
			{"a", "b", "c"},
			{"a", "b"},
			{"a", "b", "c", "d"},
		} {
			s := New[*models.Post]("post", 2)
			s.UpsertPage("u1", posts(loaded...), 7, 1)
			before := s.Scope("u1")

			s.UpsertCreated("u1", post("n"))
			s.Remove("u1", "n")

			after := s.Scope("u1")
			assert.Equal(t, before.OrderedIDs, after.OrderedIDs, "loaded %v", loaded)
			assert.Equal(t, 7, after.TotalCount, "loaded %v", loaded)
		}
	})

	t.Run("removing created records restores trimmed ids in order", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("a", "b"), 4, 1)

		s.UpsertCreated("u1", post("n1"))
		s.UpsertCreated("u1", post("n2"))
		require.Equal(t, []string{"n2", "n1"}, s.Scope("u1").OrderedIDs)

		s.Remove("u1", "n1")
		assert.Equal(t, []string{"n2", "a"}, s.Scope("u1").OrderedIDs)
		s.Remove("u1", "n2")
		assert.Equal(t, []string{"a", "b"}, s.Scope("u1").OrderedIDs)
		assert.Equal(t, 4, s.Scope("u1").TotalCount)
	})

	t.Run("confirmed created record keeps the trim", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("a", "b"), 4, 1)
		s.UpsertCreated("u1", post("n"))
		s.UpsertPage("u1", posts("n", "a"), 5, 1)

		s.Remove("u1", "n")

		state := s.Scope("u1")
		assert.Equal(t, []string{"a"}, state.OrderedIDs)
		assert.Equal(t, 4, state.TotalCount)
	})
}

func TestRemove(t *testing.T) {
	t.Run("decrements confirmed total", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a", "b"), 2, 1)
		s.Remove("u1", "a")

		state := s.Scope("u1")
		assert.Equal(t, []string{"b"}, state.OrderedIDs)
		assert.Equal(t, 1, state.TotalCount)
		_, ok := s.Get("a")
		assert.False(t, ok)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a", "b"), 2, 1)
		s.Remove("u1", "a")
		once := s.Snapshot()
		s.Remove("u1", "a")

		assert.Equal(t, once, s.Snapshot())
	})

	t.Run("trimmed confirmed record still counts", func(t *testing.T) {
		s := New[*models.Post]("post", 2)
		s.UpsertPage("u1", posts("a", "b"), 4, 1)
		s.UpsertCreated("u1", post("n"))
		require.Equal(t, []string{"n", "a"}, s.Scope("u1").OrderedIDs)

		s.Remove("u1", "b")

		state := s.Scope("u1")
		assert.Equal(t, []string{"n", "a"}, state.OrderedIDs)
		assert.Equal(t, 3, state.TotalCount)
		_, ok := s.Get("b")
		assert.False(t, ok)

		s.Remove("u1", "b")
		assert.Equal(t, 3, s.Scope("u1").TotalCount)
	})

	t.Run("unknown id leaves the total", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a"), 5, 1)
		s.Remove("u1", "zzz")

		assert.Equal(t, 5, s.Scope("u1").TotalCount)
	})

	t.Run("total floors at zero", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a"), 0, 1)
		s.Remove("u1", "a")

		assert.Equal(t, 0, s.Scope("u1").TotalCount)
	})
}

func TestUpdates(t *testing.T) {
	t.Run("reactions on missing id are ignored", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		s.UpsertPage("u1", posts("a"), 1, 1)
		before := s.Snapshot()

		s.UpdateReactions("missing", models.Reactions{Like: 3})

		assert.Equal(t, before.Entities, s.Snapshot().Entities)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("reactions replace counts", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		p := post("a")
		p.Reactions = models.Reactions{Like: 100, Dislike: 50}
		s.UpsertPage("u1", []*models.Post{p}, 1, 1)

		s.UpdateReactions("a", models.Reactions{Like: 7, Dislike: 1})

		got, _ := s.Get("a")
		assert.Equal(t, models.Reactions{Like: 7, Dislike: 1}, got.Reactions)
	})

	t.Run("fields replaced by the edited record", func(t *testing.T) {
		s := New[*models.Post]("post", 0)
		p := post("a")
		p.Image = "http://img/1.png"
		p.CommentCount = 1
		p.Reactions = models.Reactions{Like: 1}
		s.UpsertPage("u1", []*models.Post{p}, 1, 1)

		s.UpdateFields("a", &models.Post{ID: "a", Content: "new"})

		got, _ := s.Get("a")
		assert.Equal(t, "new", got.Content)
		assert.Empty(t, got.Image)
		assert.Zero(t, got.CommentCount)
		assert.True(t, got.Reactions.IsZero())
	})
}

func TestDispatch(t *testing.T) {
	s := New[*models.Post]("post", 0)

	require.NoError(t, s.Dispatch(StartLoading{}))
	assert.True(t, s.Status().IsLoading)

	require.NoError(t, s.Dispatch(Fail{Err: "boom"}))
	assert.Equal(t, Status{Error: "boom"}, s.Status())

	s.UpsertPage("u1", posts("a"), 1, 1)
	assert.Equal(t, Status{}, s.Status())

	err := s.Dispatch(UpsertPage[*models.Comment]{Scope: "u1"})
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New[*models.Post]("post", 0)
	s.UpsertPage("u1", posts("a"), 1, 1)

	snap := s.Snapshot()
	snap.Entities["a"].Content = "mutated"
	snap.Scopes["u1"].OrderedIDs[0] = "zzz"

	got, _ := s.Get("a")
	assert.Equal(t, "content a", got.Content)
	assert.Equal(t, []string{"a"}, s.Scope("u1").OrderedIDs)
}

func TestResetScope(t *testing.T) {
	s := New[*models.Post]("post", 0)
	for i := 0; i < 3; i++ {
		s.UpsertPage("u1", posts(fmt.Sprintf("p%d", i)), 3, i+1)
	}
	s.ResetScope("u1")

	state := s.Scope("u1")
	assert.Empty(t, state.OrderedIDs)
	assert.Equal(t, 0, state.TotalCount)
	assert.Equal(t, 1, state.CurrentPage)
}
