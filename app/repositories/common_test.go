package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestGetNextID(t *testing.T) {
	db := newTestDB(t)

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for i := 2; i <= 5; i++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, i, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("different sequence keys", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			commentID, err := getNextID(txn, CommentSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, commentID, "comment sequence should start from 1")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("corrupt sequence", func(t *testing.T) {
		require.NoError(t, db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte("seq:broken"), []byte("xx"))
		}))
		err := db.Update(func(txn *badger.Txn) error {
			_, err := getNextID(txn, "seq:broken")
			return err
		})
		assert.Error(t, err)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:0000000007", string(idKey(PostKeyPrefix, 7)))
	assert.Equal(t, "follow:0000000001:0000000002", string(pairKey(FollowKeyPrefix, 1, 2)))
	assert.Equal(t, "comment:0000000003:", string(pairPrefix(CommentKeyPrefix, 3)))
	assert.Less(t, string(idKey(PostKeyPrefix, 9)), string(idKey(PostKeyPrefix, 10)))

	id, err := decodeID(encodeID(42))
	assert.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = decodeID([]byte{1})
	assert.Error(t, err)
}
