package ldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned by reads of a missing key.
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func translateGetError(key []byte, err error) error {
	if errors.Is(err, leveldb.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, "key %x not found", key)
	}
	return errors.WithStack(err)
}

// LevelDB is a key-value store on top of goleveldb.
type LevelDB struct {
	ldb *leveldb.DB
}

// NewLevelDB opens the database at path, creating it if needed. A corrupted
// database is recovered before it is returned.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, Options())

	var corruptedErr *ldbErrors.ErrCorrupted
	if errors.As(err, &corruptedErr) {
		log.Warnf("Database at %s is corrupted, recovering: %s", path, err)
		db, err = leveldb.RecoverFile(path, Options())
		if err == nil {
			log.Warnf("Recovered the database at %s", path)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open the database at %s", path)
	}
	log.Debugf("Opened the database at %s", path)
	return &LevelDB{ldb: db}, nil
}

// NewMemoryLevelDB opens a database whose contents are lost on Close.
func NewMemoryLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), Options())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &LevelDB{ldb: db}, nil
}

func (db *LevelDB) Close() error {
	return errors.WithStack(db.ldb.Close())
}

// Put writes value under key, replacing any previous value.
func (db *LevelDB) Put(key []byte, value []byte) error {
	return errors.WithStack(db.ldb.Put(key, value, nil))
}

// Get reads key. A missing key yields ErrNotFound.
func (db *LevelDB) Get(key []byte) ([]byte, error) {
	data, err := db.ldb.Get(key, nil)
	return data, translateGetError(key, err)
}

func (db *LevelDB) Has(key []byte) (bool, error) {
	exists, err := db.ldb.Has(key, nil)
	return exists, errors.WithStack(err)
}

// Delete removes key. Deleting a missing key is not an error.
func (db *LevelDB) Delete(key []byte) error {
	return errors.WithStack(db.ldb.Delete(key, nil))
}

// ForEach calls fn for every entry of bucket in key order, with the bucket
// path stripped from the key. It stops at the first error fn returns.
func (db *LevelDB) ForEach(bucket *Bucket, fn func(key []byte, value []byte) error) error {
	prefix := bucket.Path()
	iterator := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iterator.Release()

	for iterator.Next() {
		key := append([]byte(nil), iterator.Key()[len(prefix):]...)
		value := append([]byte(nil), iterator.Value()...)
		err := fn(key, value)
		if err != nil {
			return err
		}
	}
	return errors.WithStack(iterator.Error())
}
