package memorydb

import (
	"bytes"
	"testing"
)

// diskstore.EngineMemory backs the header store with this database, keying
// encoded headers by hash prefix; iteration order and prefix scoping here
// are exactly what diskstore's iteratePrefix relies on.
func TestMemoryDBIterator(t *testing.T) {
	tests := []struct {
		content map[string]string
		prefix  string
		order   []string
	}{
		// Empty databases should be iterable
		{map[string]string{}, "", nil},
		{map[string]string{}, "non-existent-prefix", nil},

		// Single-item databases should be iterable
		{map[string]string{"head": "h0"}, "", []string{"head"}},
		{map[string]string{"head": "h0"}, "he", []string{"head"}},
		{map[string]string{"head": "h0"}, "t", nil},

		// Multi-item databases should be fully iterable
		{
			map[string]string{"h1": "v1", "h5": "v5", "h2": "v2", "h4": "v4", "h3": "v3"},
			"",
			[]string{"h1", "h2", "h3", "h4", "h5"},
		},
		{
			map[string]string{"h1": "v1", "h5": "v5", "h2": "v2", "h4": "v4", "h3": "v3"},
			"h",
			[]string{"h1", "h2", "h3", "h4", "h5"},
		},
		{
			map[string]string{"h1": "v1", "h5": "v5", "h2": "v2", "h4": "v4", "h3": "v3"},
			"z",
			nil,
		},
		// Multi-item databases should be prefix-iterable, as diskstore relies
		// on when scoping an iteration to a single block number's keys.
		{
			map[string]string{
				"da1": "va1", "da5": "va5", "da2": "va2", "da4": "va4", "da3": "va3",
				"db1": "vb1", "db5": "vb5", "db2": "vb2", "db4": "vb4", "db3": "vb3",
			},
			"da",
			[]string{"da1", "da2", "da3", "da4", "da5"},
		},
		{
			map[string]string{
				"da1": "va1", "da5": "va5", "da2": "va2", "da4": "va4", "da3": "va3",
				"db1": "vb1", "db5": "vb5", "db2": "vb2", "db4": "vb4", "db3": "vb3",
			},
			"dc",
			nil,
		},
	}
	for i, tt := range tests {
		db := New()
		for key, val := range tt.content {
			if err := db.Put([]byte(key), []byte(val)); err != nil {
				t.Fatalf("test %d: failed to insert item %s:%s into database: %v", i, key, val, err)
			}
		}
		it, idx := db.NewIteratorWithPrefix([]byte(tt.prefix)), 0
		for it.Next() {
			if !bytes.Equal(it.Key(), []byte(tt.order[idx])) {
				t.Errorf("test %d: item %d: key mismatch: have %s, want %s", i, idx, string(it.Key()), tt.order[idx])
			}
			if !bytes.Equal(it.Value(), []byte(tt.content[tt.order[idx]])) {
				t.Errorf("test %d: item %d: value mismatch: have %s, want %s", i, idx, string(it.Value()), tt.content[tt.order[idx]])
			}
			idx++
		}
		if err := it.Error(); err != nil {
			t.Errorf("test %d: iteration failed: %v", i, err)
		}
		if idx != len(tt.order) {
			t.Errorf("test %d: iteration terminated prematurely: have %d, want %d", i, idx, len(tt.order))
		}
	}
}
