package common

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

const (
	ROSEDecimals = 9 // ROSE has 9 decimals (base units)
)

// BaseUnitsToROSE converts base units to a ROSE string without float precision loss
func BaseUnitsToROSE(value *uint256.Int) string {
	if value == nil {
		return formatWithDecimals("0", ROSEDecimals)
	}
	return formatWithDecimals(value.Dec(), ROSEDecimals)
}

// ROSEToBaseUnits converts a ROSE string to base units without float precision loss
func ROSEToBaseUnits(rose string) (*uint256.Int, error) {
	return parseWithDecimals(rose, ROSEDecimals)
}

// ParseBaseUnits parses an integer amount of base units
func ParseBaseUnits(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}
	if !isDigits(s) {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return uint256.FromDecimal(trimLeadingZeros(s))
}

// FiatValue returns amount (in base units) times rate (fiat per ROSE),
// truncated to two decimals
func FiatValue(amount *uint256.Int, rate string) (string, error) {
	rateUnits, err := parseWithDecimals(rate, ROSEDecimals)
	if err != nil {
		return "", fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	if amount == nil {
		amount = new(uint256.Int)
	}
	product, overflow := new(uint256.Int).MulOverflow(amount, rateUnits)
	if overflow {
		return "", fmt.Errorf("fiat value overflows")
	}
	product.Div(product, uint256.NewInt(1_000_000_000))

	s := formatWithDecimals(product.Dec(), ROSEDecimals)
	return s[:len(s)-(ROSEDecimals-2)], nil
}

// TrimLongString shortens value to its first trimStart characters, "..." and the
// part selected by trimEnd (a negative offset from the end, like a slice index).
// Values not longer than trimStart are returned unchanged. Offsets count runes.
func TrimLongString(value string, trimStart, trimEnd int) string {
	runes := []rune(value)
	if len(runes) <= trimStart {
		return value
	}

	end := len(runes) + trimEnd
	if trimEnd >= 0 {
		end = trimEnd
	}
	if end < 0 {
		end = 0
	}
	if end > len(runes) {
		end = len(runes)
	}

	return string(runes[:trimStart]) + "..." + string(runes[end:])
}

// ShortAddress renders an address the way the wallet lists it
func ShortAddress(address string) string {
	if address == "" {
		return "Unavailable"
	}
	return TrimLongString(address, 10, -8)
}

// formatWithDecimals converts an integer string to decimal string by inserting decimal point
// Example: formatWithDecimals("24981836", 9) = "0.024981836"
func formatWithDecimals(s string, decimals int) string {
	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.024981836", 9) = 24981836
func parseWithDecimals(s string, decimals int) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("invalid decimal format")
	}

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	// Combine and parse
	return uint256.FromDecimal(trimLeadingZeros(whole + frac))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}
