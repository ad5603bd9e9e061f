package sui

import (
	"regexp"
	"strings"
)

var (
	addressRe  = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	objectIDRe = regexp.MustCompile(`^0x[a-fA-F0-9]{1,64}$`)
)

// CheckAddress reports whether address is a full length Sui address.
func CheckAddress(address string) bool {
	return addressRe.MatchString(address)
}

// NormalizeAddress returns the lowercase, 64 hex digit form of a Sui address
// or object id. Input that is not hex is returned unchanged.
func NormalizeAddress(addr string) string {
	if !objectIDRe.MatchString(addr) {
		return addr
	}
	hex := strings.ToLower(addr[2:])
	return "0x" + strings.Repeat("0", 64-len(hex)) + hex
}

// NormalizeCoinType expands the package address of a "<addr>::<module>::<name>"
// coin type so short and long spellings compare equal.
func NormalizeCoinType(coinType string) string {
	parts := strings.SplitN(coinType, "::", 2)
	if len(parts) != 2 {
		return coinType
	}
	return NormalizeAddress(parts[0]) + "::" + parts[1]
}

func SameCoinType(a, b string) bool {
	return NormalizeCoinType(a) == NormalizeCoinType(b)
}

func IsNativeCoinType(coinType string) bool {
	return SameCoinType(coinType, NativeCoinType)
}
