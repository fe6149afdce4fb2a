package table

import (
	"encoding/binary"
	"math"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-sif/tabula"
)

const (
	nilTag byte = iota
	boolTag
	numberTag
	dateTag
	stringTag
	arrayTag
)

// HashKey produces a hash of the values at the given column indices.
// Values which are tabula.ValuesEqual produce equal hashes, so Integer
// and Double values are hashed in the same way.
func HashKey(values []interface{}, idxs []int) uint64 {
	hasher := xxhash.New()
	var buf [9]byte
	for _, idx := range idxs {
		writeValue(hasher, buf[:], values[idx])
	}
	return hasher.Sum64()
}

func writeValue(hasher *xxhash.Digest, buf []byte, v interface{}) {
	switch tv := v.(type) {
	case nil:
		buf[0] = nilTag
		hasher.Write(buf[:1])
	case bool:
		buf[0] = boolTag
		buf[1] = 0
		if tv {
			buf[1] = 1
		}
		hasher.Write(buf[:2])
	case int64:
		writeNumber(hasher, buf, float64(tv))
	case float64:
		writeNumber(hasher, buf, tv)
	case time.Time:
		buf[0] = dateTag
		binary.LittleEndian.PutUint64(buf[1:], uint64(tv.Unix()))
		hasher.Write(buf)
	case string:
		buf[0] = stringTag
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(tv)))
		hasher.Write(buf)
		hasher.WriteString(tv)
	case []interface{}:
		buf[0] = arrayTag
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(tv)))
		hasher.Write(buf)
		for _, e := range tv {
			writeValue(hasher, buf, e)
		}
	default:
		buf[0] = stringTag
		hasher.Write(buf[:1])
		hasher.WriteString(tabula.FormatValue(v))
	}
}

func writeNumber(hasher *xxhash.Digest, buf []byte, f float64) {
	buf[0] = numberTag
	if f == 0 {
		f = 0 // collapse -0
	}
	if math.IsNaN(f) {
		f = math.NaN()
	}
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(f))
	hasher.Write(buf)
}

// KeyIndex assigns dense ids to distinct keys, in order of first insertion.
// Keys are bucketed by hash and verified by value, so hash collisions never
// merge distinct keys. A nil value is equal to another nil value.
type KeyIndex struct {
	buckets map[uint64][]int
	keys    [][]interface{}
}

// NewKeyIndex creates an empty KeyIndex
func NewKeyIndex() *KeyIndex {
	return &KeyIndex{buckets: make(map[uint64][]int)}
}

// Len returns the number of distinct keys
func (k *KeyIndex) Len() int {
	return len(k.keys)
}

// Key returns the key values with a given id
func (k *KeyIndex) Key(id int) []interface{} {
	return k.keys[id]
}

// Find returns the id of the key formed from values at idxs, if present
func (k *KeyIndex) Find(values []interface{}, idxs []int) (int, bool) {
	return k.find(HashKey(values, idxs), values, idxs)
}

// Insert returns the id of the key formed from values at idxs, inserting it if
// necessary. isNew is true iff the key was not present before.
func (k *KeyIndex) Insert(values []interface{}, idxs []int) (id int, isNew bool) {
	h := HashKey(values, idxs)
	if id, ok := k.find(h, values, idxs); ok {
		return id, false
	}
	key := make([]interface{}, len(idxs))
	for i, idx := range idxs {
		key[i] = values[idx]
	}
	id = len(k.keys)
	k.keys = append(k.keys, key)
	k.buckets[h] = append(k.buckets[h], id)
	return id, true
}

func (k *KeyIndex) find(h uint64, values []interface{}, idxs []int) (int, bool) {
	for _, id := range k.buckets[h] {
		key := k.keys[id]
		match := true
		for i, idx := range idxs {
			if !tabula.ValuesEqual(key[i], values[idx]) {
				match = false
				break
			}
		}
		if match {
			return id, true
		}
	}
	return 0, false
}

// Indices returns a slice [0, 1, ..., n-1]
func Indices(n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = i
	}
	return res
}
