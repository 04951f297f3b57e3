package screening_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/payrail/riskcore/internal/screening"
)

func newScreener(t *testing.T, lists screening.Lists, m screening.Matcher) *screening.Screener {
	t.Helper()
	s, err := screening.NewScreener(lists, m, zap.NewNop().Sugar())
	require.NoError(t, err)
	return s
}

func TestCountrySanctioned(t *testing.T) {
	s := newScreener(t, screening.DefaultLists(), nil)

	sanctioned, match := s.CountrySanctioned("RU")
	assert.True(t, sanctioned)
	assert.ElementsMatch(t, []string{"OFAC", "EU_SANCTIONS"}, match.Lists)

	sanctioned, _ = s.CountrySanctioned("ES")
	assert.False(t, sanctioned)
}

func TestSubstringMatcher(t *testing.T) {
	lists := screening.Lists{SanctionedNames: []string{"IVAN BLOCKED"}}
	s := newScreener(t, lists, screening.SubstringMatcher{})

	matched, hit := s.NameSanctioned("Mr Ivan Blocked Jr")
	assert.True(t, matched)
	assert.Equal(t, "IVAN BLOCKED", hit.Entry)

	matched, _ = s.NameSanctioned("Ivan Clean")
	assert.False(t, matched)
}

func TestFuzzyMatcher(t *testing.T) {
	m := screening.NewFuzzyMatcher()

	matched, score := m.Match("Jon Smith", "John Smith")
	assert.True(t, matched)
	assert.Greater(t, score, 0.85)

	matched, _ = m.Match("Maria Lopez", "John Smith")
	assert.False(t, matched)

	// Exact match after normalization.
	matched, score = m.Match("  JOHN   SMITH ", "john smith")
	assert.True(t, matched)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestPEPScreening(t *testing.T) {
	lists := screening.Lists{PEPNames: []string{"SENATOR EXAMPLE"}}
	s := newScreener(t, lists, nil)

	matched, _ := s.IsPEP("Senator Example")
	assert.True(t, matched)

	matched, _ = s.IsPEP("Plain Citizen")
	assert.False(t, matched)
}

func TestListsFromYAMLDocument(t *testing.T) {
	doc := `
sanctioned_countries:
  OFAC: [CU, IR, KP, SY, RU]
  EU_SANCTIONS: [BY, RU, SY]
sanctioned_names:
  - IVAN BLOCKED
pep_names:
  - SENATOR EXAMPLE
`
	var lists screening.Lists
	require.NoError(t, yaml.Unmarshal([]byte(doc), &lists))

	s := newScreener(t, lists, nil)
	sanctioned, match := s.CountrySanctioned("BY")
	assert.True(t, sanctioned)
	assert.Equal(t, []string{"EU_SANCTIONS"}, match.Lists)

	matched, _ := s.NameSanctioned("Ivan Blocked")
	assert.True(t, matched)
}

func TestNewScreenerValidatesLists(t *testing.T) {
	lists := screening.Lists{
		SanctionedCountries: map[string][]string{"OFAC": {"RUS"}},
	}
	_, err := screening.NewScreener(lists, nil, zap.NewNop().Sugar())
	assert.Error(t, err)
}
