package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	UID     string
	UserUID string
	Count   int
}

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()

	t.Run("Put and get", func(t *testing.T) {
		store, cleanup, err := NewInMemoryStore[item](c)
		assert.NoError(t, err)
		defer cleanup()

		err = store.Put(c, "1", item{UID: "1", UserUID: "marc", Count: 3})
		assert.NoError(t, err)

		got, exists, err := store.Get(c, "1")
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 3, got.Count)
	})

	t.Run("Get non-existing", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[item](c)
		defer cleanup()

		_, exists, err := store.Get(c, "42")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[item](c)
		defer cleanup()

		_ = store.Put(c, "1", item{UID: "1"})
		err := store.Delete(c, "1")
		assert.NoError(t, err)

		_, exists, _ := store.Get(c, "1")
		assert.False(t, exists)
	})

	t.Run("Query filters on equality", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[item](c)
		defer cleanup()

		_ = store.Put(c, "1", item{UID: "1", UserUID: "marc"})
		_ = store.Put(c, "2", item{UID: "2", UserUID: "eva"})
		_ = store.Put(c, "3", item{UID: "3", UserUID: "marc"})

		got, err := store.Query(c, []Filter{{Field: "UserUID", Compare: "=", Value: "marc"}}, "")
		assert.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Transaction commits on success", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[item](c)
		defer cleanup()

		err := store.RunInTransaction(c, func(c context.Context) error {
			return store.Put(c, "1", item{UID: "1"})
		})
		assert.NoError(t, err)

		_, exists, _ := store.Get(c, "1")
		assert.True(t, exists)
	})

	t.Run("Transaction propagates error", func(t *testing.T) {
		store, cleanup, _ := NewInMemoryStore[item](c)
		defer cleanup()

		err := store.RunInTransaction(c, func(c context.Context) error {
			return fmt.Errorf("boom")
		})
		assert.Error(t, err)
	})
}
