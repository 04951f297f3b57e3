package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payrail/riskcore/pkg/models"
)

// Placement controls where the currency symbol is rendered.
type Placement string

const (
	PlacementPrefix      Placement = "prefix"
	PlacementPrefixSpace Placement = "prefix_space"
	PlacementSuffix      Placement = "suffix"
)

// Rule holds the formatting and validation rules for one currency.
type Rule struct {
	Code                 models.Currency `yaml:"code" json:"code"`
	Name                 string          `yaml:"name" json:"name"`
	Symbol               string          `yaml:"symbol" json:"symbol"`
	DecimalPlaces        int32           `yaml:"decimal_places" json:"decimal_places"`
	ThousandsSeparator   string          `yaml:"thousands_separator" json:"thousands_separator"`
	DecimalSeparator     string          `yaml:"decimal_separator" json:"decimal_separator"`
	Placement            Placement       `yaml:"placement" json:"placement"`
	MinimumAmount        decimal.Decimal `yaml:"minimum_amount" json:"minimum_amount"`
	MaximumAmount        decimal.Decimal `yaml:"maximum_amount" json:"maximum_amount"`
	SmallestDenomination decimal.Decimal `yaml:"smallest_denomination" json:"smallest_denomination"`
}

// Catalog is a read-only set of currency rules. Lookups for unknown codes
// fall back to the USD rule, matching the behavior callers already rely on.
type Catalog struct {
	rules map[models.Currency]Rule
}

// NewCatalog validates the rule set at load time and returns a catalog.
func NewCatalog(rules []Rule) (*Catalog, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("currency catalog is empty")
	}
	byCode := make(map[models.Currency]Rule, len(rules))
	for _, r := range rules {
		if r.Code == "" {
			return nil, fmt.Errorf("currency rule without code")
		}
		if _, dup := byCode[r.Code]; dup {
			return nil, fmt.Errorf("duplicate currency rule for %s", r.Code)
		}
		if r.DecimalPlaces < 0 {
			return nil, fmt.Errorf("currency %s: negative decimal places", r.Code)
		}
		if r.MinimumAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("currency %s: minimum amount must be positive", r.Code)
		}
		if r.MaximumAmount.LessThanOrEqual(r.MinimumAmount) {
			return nil, fmt.Errorf("currency %s: maximum must exceed minimum", r.Code)
		}
		if r.SmallestDenomination.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("currency %s: smallest denomination must be positive", r.Code)
		}
		switch r.Placement {
		case PlacementPrefix, PlacementPrefixSpace, PlacementSuffix:
		default:
			return nil, fmt.Errorf("currency %s: unknown symbol placement %q", r.Code, r.Placement)
		}
		byCode[r.Code] = r
	}
	if _, ok := byCode[models.CurrencyUSD]; !ok {
		return nil, fmt.Errorf("currency catalog must include USD (fallback rule)")
	}
	return &Catalog{rules: byCode}, nil
}

// Supported reports whether the catalog carries an explicit rule for the
// code, without the USD fallback applied by Rule.
func (c *Catalog) Supported(code models.Currency) bool {
	_, ok := c.rules[code]
	return ok
}

// DefaultCatalog returns the built-in ten-currency catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRules())
	if err != nil {
		// The built-in table is validated by tests; a failure here means
		// the binary itself is broken.
		panic(err)
	}
	return c
}

// DefaultRules returns the built-in currency rule set.
func DefaultRules() []Rule {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []Rule{
		{
			Code: models.CurrencyUSD, Name: "US Dollar", Symbol: "$",
			DecimalPlaces: 2, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("1000000.00"), SmallestDenomination: d("0.01"),
		},
		{
			Code: models.CurrencyEUR, Name: "Euro", Symbol: "€",
			DecimalPlaces: 2, ThousandsSeparator: ".", DecimalSeparator: ",",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("1000000.00"), SmallestDenomination: d("0.01"),
		},
		{
			Code: models.CurrencyGBP, Name: "British Pound", Symbol: "£",
			DecimalPlaces: 2, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("1000000.00"), SmallestDenomination: d("0.01"),
		},
		{
			Code: models.CurrencyJPY, Name: "Japanese Yen", Symbol: "¥",
			DecimalPlaces: 0, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("1"), MaximumAmount: d("100000000"), SmallestDenomination: d("1"),
		},
		{
			Code: models.CurrencyKRW, Name: "South Korean Won", Symbol: "₩",
			DecimalPlaces: 0, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("1"), MaximumAmount: d("1000000000"), SmallestDenomination: d("1"),
		},
		{
			Code: models.CurrencyRUB, Name: "Russian Ruble", Symbol: "₽",
			DecimalPlaces: 2, ThousandsSeparator: " ", DecimalSeparator: ",",
			Placement:     PlacementSuffix,
			MinimumAmount: d("0.01"), MaximumAmount: d("10000000.00"), SmallestDenomination: d("1"),
		},
		{
			Code: models.CurrencyCHF, Name: "Swiss Franc", Symbol: "CHF",
			DecimalPlaces: 2, ThousandsSeparator: "'", DecimalSeparator: ".",
			Placement:     PlacementPrefixSpace,
			MinimumAmount: d("0.05"), MaximumAmount: d("1000000.00"), SmallestDenomination: d("0.05"),
		},
		{
			Code: models.CurrencyARS, Name: "Argentine Peso", Symbol: "$",
			DecimalPlaces: 2, ThousandsSeparator: ".", DecimalSeparator: ",",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("100000.00"), SmallestDenomination: d("1"),
		},
		{
			Code: models.CurrencyMXN, Name: "Mexican Peso", Symbol: "$",
			DecimalPlaces: 2, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("500000.00"), SmallestDenomination: d("0.05"),
		},
		{
			Code: models.CurrencyINR, Name: "Indian Rupee", Symbol: "₹",
			DecimalPlaces: 2, ThousandsSeparator: ",", DecimalSeparator: ".",
			Placement:     PlacementPrefix,
			MinimumAmount: d("0.01"), MaximumAmount: d("10000000.00"), SmallestDenomination: d("1"),
		},
	}
}
