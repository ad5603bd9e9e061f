package sui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"0x02a212de6a9dfa3a69e22387acfbafbb1a9e591bd9d636e7895dcfc8de05f331", true},
		{"0x02A212DE6A9DFA3A69E22387ACFBAFBB1A9E591BD9D636E7895DCFC8DE05F331", true},
		{"0x2", false},
		{"02a212de6a9dfa3a69e22387acfbafbb1a9e591bd9d636e7895dcfc8de05f331", false},
		{"0x02a212de6a9dfa3a69e22387acfbafbb1a9e591bd9d636e7895dcfc8de05f331ff", false},
		{"0xzza212de6a9dfa3a69e22387acfbafbb1a9e591bd9d636e7895dcfc8de05f331", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.valid, CheckAddress(tt.address))
		})
	}
}

func TestCoinTypes(t *testing.T) {
	assert.True(t, IsNativeCoinType("0x2::sui::SUI"))
	assert.True(t, IsNativeCoinType("0x0000000000000000000000000000000000000000000000000000000000000002::sui::SUI"))
	assert.False(t, IsNativeCoinType("0x2::sui::USDC"))
	assert.False(t, IsNativeCoinType("0xT"))

	assert.True(t, SameCoinType("0xA1::usdc::USDC", "0x00a1::usdc::USDC"))
	assert.False(t, SameCoinType("0xa1::usdc::USDC", "0xa2::usdc::USDC"))

	assert.Equal(t, "not-hex", NormalizeAddress("not-hex"))
	assert.Equal(t, "0x000000000000000000000000000000000000000000000000000000000000000a", NormalizeAddress("0xA"))
}
