// Package screening checks transfer parties against sanction and PEP
// watch lists. Lists are static configuration supplied at construction;
// name comparison is delegated to a pluggable Matcher.
package screening

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Lists holds the configured watch lists.
type Lists struct {
	// SanctionedCountries maps a list name (OFAC, EU_SANCTIONS, ...) to
	// the country codes it restricts.
	SanctionedCountries map[string][]string `yaml:"sanctioned_countries" json:"sanctioned_countries" mapstructure:"sanctioned_countries"`
	// SanctionedNames are entity names subject to blocking.
	SanctionedNames []string `yaml:"sanctioned_names" json:"sanctioned_names" mapstructure:"sanctioned_names"`
	// PEPNames are politically exposed persons requiring enhanced due
	// diligence.
	PEPNames []string `yaml:"pep_names" json:"pep_names" mapstructure:"pep_names"`
}

// DefaultLists returns the built-in watch lists.
func DefaultLists() Lists {
	return Lists{
		SanctionedCountries: map[string][]string{
			"OFAC":         {"CU", "IR", "KP", "SY", "RU"},
			"EU_SANCTIONS": {"BY", "RU", "SY"},
			"UN_SANCTIONS": {"KP"},
		},
	}
}

// CountryMatch reports which lists restrict a country.
type CountryMatch struct {
	Country string   `json:"country"`
	Lists   []string `json:"lists"`
}

// NameMatch reports a watch-list name hit.
type NameMatch struct {
	Entry string  `json:"entry"`
	Score float64 `json:"score"`
}

// Screener performs sanctions and PEP screening.
type Screener struct {
	lists   Lists
	matcher Matcher
	logger  *zap.SugaredLogger

	countryIndex map[string][]string
}

// NewScreener builds a screener. A nil matcher defaults to the historical
// substring comparison.
func NewScreener(lists Lists, matcher Matcher, logger *zap.SugaredLogger) (*Screener, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if matcher == nil {
		matcher = SubstringMatcher{}
	}

	index := make(map[string][]string)
	for listName, countries := range lists.SanctionedCountries {
		if listName == "" {
			return nil, fmt.Errorf("sanction list with empty name")
		}
		for _, cc := range countries {
			if len(cc) != 2 {
				return nil, fmt.Errorf("sanction list %s: invalid country code %q", listName, cc)
			}
			index[cc] = append(index[cc], listName)
		}
	}
	for _, lists := range index {
		sort.Strings(lists)
	}

	return &Screener{
		lists:        lists,
		matcher:      matcher,
		logger:       logger,
		countryIndex: index,
	}, nil
}

// CountrySanctioned reports whether a country appears on any configured
// sanction list.
func (s *Screener) CountrySanctioned(country string) (bool, CountryMatch) {
	lists, ok := s.countryIndex[country]
	if !ok {
		return false, CountryMatch{}
	}
	return true, CountryMatch{Country: country, Lists: lists}
}

// NameSanctioned screens a party name against the sanctioned-name list.
func (s *Screener) NameSanctioned(name string) (bool, NameMatch) {
	return s.screenName(name, s.lists.SanctionedNames)
}

// IsPEP screens a party name against the politically-exposed-person list.
func (s *Screener) IsPEP(name string) (bool, NameMatch) {
	return s.screenName(name, s.lists.PEPNames)
}

func (s *Screener) screenName(name string, entries []string) (bool, NameMatch) {
	if name == "" {
		return false, NameMatch{}
	}
	for _, entry := range entries {
		if matched, score := s.matcher.Match(name, entry); matched {
			s.logger.Infow("watch list name match", "entry", entry, "score", score)
			return true, NameMatch{Entry: entry, Score: score}
		}
	}
	return false, NameMatch{}
}
