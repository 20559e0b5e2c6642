package ldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
)

// Transaction buffers writes and applies them atomically on Commit. Reads
// see the database as it was when the transaction began.
type Transaction struct {
	db       *leveldb.DB
	snapshot *leveldb.Snapshot
	batch    *leveldb.Batch
	closed   bool
}

// Begin starts a transaction. Callers defer RollbackUnlessClosed.
func (db *LevelDB) Begin() (*Transaction, error) {
	snapshot, err := db.ldb.GetSnapshot()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Transaction{db: db.ldb, snapshot: snapshot, batch: new(leveldb.Batch)}, nil
}

func (tx *Transaction) checkOpen(operation string) error {
	if tx.closed {
		return errors.Errorf("cannot %s: the transaction is closed", operation)
	}
	return nil
}

func (tx *Transaction) close() {
	tx.closed = true
	tx.snapshot.Release()
}

// Commit writes the buffered writes in a single batch.
func (tx *Transaction) Commit() error {
	if err := tx.checkOpen("commit"); err != nil {
		return err
	}
	tx.close()
	log.Tracef("Committing %d writes", tx.batch.Len())
	return errors.WithStack(tx.db.Write(tx.batch, nil))
}

// Rollback discards the buffered writes.
func (tx *Transaction) Rollback() error {
	if err := tx.checkOpen("rollback"); err != nil {
		return err
	}
	tx.close()
	tx.batch.Reset()
	return nil
}

// RollbackUnlessClosed is Rollback for a transaction that may already be
// committed.
func (tx *Transaction) RollbackUnlessClosed() error {
	if tx.closed {
		return nil
	}
	return tx.Rollback()
}

// Put buffers a write of value under key.
func (tx *Transaction) Put(key []byte, value []byte) error {
	if err := tx.checkOpen("put"); err != nil {
		return err
	}
	tx.batch.Put(key, value)
	return nil
}

// Delete buffers a deletion of key.
func (tx *Transaction) Delete(key []byte) error {
	if err := tx.checkOpen("delete"); err != nil {
		return err
	}
	tx.batch.Delete(key)
	return nil
}

// Get reads key from the snapshot. A missing key yields ErrNotFound.
func (tx *Transaction) Get(key []byte) ([]byte, error) {
	if err := tx.checkOpen("get"); err != nil {
		return nil, err
	}
	data, err := tx.snapshot.Get(key, nil)
	return data, translateGetError(key, err)
}

// Has reports whether the snapshot contains key.
func (tx *Transaction) Has(key []byte) (bool, error) {
	if err := tx.checkOpen("has"); err != nil {
		return false, err
	}
	exists, err := tx.snapshot.Has(key, nil)
	return exists, errors.WithStack(err)
}
