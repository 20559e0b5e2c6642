package ldb

import "bytes"

var separator = []byte("/")

// Bucket is a key namespace. Its keys are the joined bucket path, a
// separator and the key itself.
type Bucket struct {
	path [][]byte
}

func MakeBucket(path ...[]byte) *Bucket {
	return &Bucket{path: path}
}

// Bucket returns the child bucket named name.
func (b *Bucket) Bucket(name []byte) *Bucket {
	childPath := make([][]byte, len(b.path), len(b.path)+1)
	copy(childPath, b.path)
	return MakeBucket(append(childPath, name)...)
}

// Key returns the database key of key inside the bucket.
func (b *Bucket) Key(key []byte) []byte {
	return append(b.Path(), key...)
}

// Path is the prefix shared by every key of the bucket.
func (b *Bucket) Path() []byte {
	return append(bytes.Join(b.path, separator), separator...)
}
