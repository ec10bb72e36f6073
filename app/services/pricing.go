package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
)

// PriceWithTax is price × multiplier rounded half up to cents. Display
// only; it is never stored.
func PriceWithTax(price models.Money, multiplier decimal.Decimal) models.Money {
	return models.MoneyOf(price.Mul(multiplier).Round(2))
}

// PriceInRials is price × rate truncated to an integer.
func PriceInRials(price models.Money, rate int64) int64 {
	return price.Mul(decimal.NewFromInt(rate)).IntPart()
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify lowercases name, drops anything but ASCII letters, digits,
// underscores, hyphens and spaces, and joins words with single hyphens.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "")
	s = slugCollapse.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-_")
}
