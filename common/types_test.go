package common

import "testing"

func TestBytesConversion(t *testing.T) {
	bytes := []byte{5}
	hash := BytesToHash(bytes)

	var exp Hash
	exp[31] = 5

	if hash != exp {
		t.Errorf("expected %x got %x", exp, hash)
	}
}

// Operator owner and nominator identities are common.Address values, so
// malformed account literals in configuration or RPC payloads must be
// rejected the same way an ethereum-style address would be.
func TestIsHexAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"", false},
		{"0x", false},
		{"00", false},
		{"0x00", false},
		{"00000000000000000000000000000000000000", false},
		{"0x00000000000000000000000000000000000000", false},
		{"000000000000000000000000000000000000000", false},
		{"0x000000000000000000000000000000000000000", false},
		{"0000000000000000000000000000000000000000", true},
		{"0x0000000000000000000000000000000000000000", true},
		{"0x00000000000000000000000000000000000000", false},
		{"00x0000000000000000000000000000000000000", false},
		{"0x0x00000000000000000000000000000000000000", false},
		{"notahexaddressatallxxxxxxxxxxxxxxxxxxxxx", false},
		{"0xnotahexaddressatallxxxxxxxxxxxxxxxxxxxxx", false},
		{"00000000000000000000000000000000000000000", false},
		{"0x00000000000000000000000000000000000000000", false},
		{"000000000000000000000000000000000000000000", false},
		{"0x000000000000000000000000000000000000000000", false},
	}

	for i, tt := range tests {
		if valid := IsHexAddress(tt.address); valid != tt.valid {
			t.Errorf("test %d: address validity mismatch: have %v, want %v", i, valid, tt.valid)
		}
	}
}
