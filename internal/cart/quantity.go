package cart

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ferchini45-svg/carrito/internal/domain"
)

// MaxQuantity is the largest quantity a cart line may hold. It matches the
// width of order_items.quantity.
const MaxQuantity = math.MaxInt32

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseLeadingInt reads the integer prefix of raw, so "2.5" is 2 and "3abc"
// is 3. Values beyond the int64 range saturate.
func parseLeadingInt(raw string) (int64, bool) {
	digits := leadingInt.FindString(strings.TrimSpace(raw))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return n, true
}

// ParseAddQuantity is lenient: anything without a positive integer prefix
// counts as 1. Quantities above MaxQuantity are rejected.
func ParseAddQuantity(raw string) (int, error) {
	q, ok := parseLeadingInt(raw)
	if !ok || q < 1 {
		return 1, nil
	}
	if q > MaxQuantity {
		return 0, domain.ErrInvalidQuantity
	}
	return int(q), nil
}

// ParseQuantity is strict about the integer prefix. Zero and negative
// values are valid and mean "remove the line".
func ParseQuantity(raw string) (int, error) {
	q, ok := parseLeadingInt(raw)
	if !ok || q > MaxQuantity {
		return 0, domain.ErrInvalidQuantity
	}
	if q < 0 {
		return -1, nil
	}
	return int(q), nil
}

func ParseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidProductID
	}
	return id, nil
}
