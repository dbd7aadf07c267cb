package spotify

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// NormalizeMarket validates an ISO 3166-1 alpha-2 country code and returns it upper-cased.
// An empty market and the special value "from_token" both yield "from_token".
func NormalizeMarket(market string) (string, error) {
	market = strings.TrimSpace(market)
	if market == "" || strings.EqualFold(market, DefaultMarket) {
		return DefaultMarket, nil
	}
	if len(market) != 2 {
		return "", fmt.Errorf("%w: market %q is not a two-letter country code", ErrInvalidInput, market)
	}

	region, err := language.ParseRegion(market)
	if err != nil || !region.IsCountry() {
		return "", fmt.Errorf("%w: unknown market %q", ErrInvalidInput, market)
	}
	return region.String(), nil
}
