package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSimpleKeywordBounds(t *testing.T) {
	assert := require.New(t)

	testCases := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "Empty", query: "", wantErr: true},
		{name: "Blank", query: "   ", wantErr: true},
		{name: "OneCharacter", query: "a", wantErr: true},
		{name: "TwoCharacters", query: "ab", wantErr: false},
		{name: "MaxLength", query: strings.Repeat("a", 200), wantErr: false},
		{name: "TooLong", query: strings.Repeat("a", 201), wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NormalizeSimple(SimpleParams{Query: testCase.query})
			if testCase.wantErr {
				assert.ErrorIs(err, ErrValidation)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestNormalizeSimplePaginationClamping(t *testing.T) {
	assert := require.New(t)

	testCases := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "Defaults", limit: 0, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "NegativeLimit", limit: -5, offset: 0, wantLimit: 50, wantOffset: 0},
		{name: "LimitAboveMax", limit: 500, offset: 0, wantLimit: 100, wantOffset: 0},
		{name: "LimitAtMax", limit: 100, offset: 0, wantLimit: 100, wantOffset: 0},
		{name: "NegativeOffset", limit: 10, offset: -3, wantLimit: 10, wantOffset: 0},
		{name: "ValidValues", limit: 25, offset: 75, wantLimit: 25, wantOffset: 75},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			query, err := NormalizeSimple(SimpleParams{Query: "api", Limit: testCase.limit, Offset: testCase.offset})
			assert.NoError(err)
			assert.Equal(testCase.wantLimit, query.Limit)
			assert.Equal(testCase.wantOffset, query.Offset)
		})
	}
}

func TestNormalizeSimpleScopeFallsBackToAll(t *testing.T) {
	assert := require.New(t)

	query, err := NormalizeSimple(SimpleParams{Query: "api", Scope: "bogus"})
	assert.NoError(err)
	assert.Equal(ScopeAll, query.Scope)

	query, err = NormalizeSimple(SimpleParams{Query: "api", Scope: "tasks"})
	assert.NoError(err)
	assert.Equal(ScopeTasks, query.Scope)
	assert.Equal(SortByRelevance, query.SortBy)
	assert.Equal(SortDesc, query.SortOrder)
}

func TestNormalizeAdvancedRejectsUnknownValues(t *testing.T) {
	assert := require.New(t)

	testCases := []struct {
		name   string
		params AdvancedParams
	}{
		{name: "UnknownScope", params: AdvancedParams{Keywords: "api", Scope: "bogus"}},
		{name: "UnknownSortBy", params: AdvancedParams{Keywords: "api", SortBy: "name"}},
		{name: "UnknownSortOrder", params: AdvancedParams{Keywords: "api", SortOrder: "sideways"}},
		{name: "ShortKeywords", params: AdvancedParams{Keywords: "a"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NormalizeAdvanced(testCase.params)
			assert.ErrorIs(err, ErrValidation)
		})
	}
}

func TestNormalizeAdvancedRequiresKeywordsOrFilters(t *testing.T) {
	assert := require.New(t)

	_, err := NormalizeAdvanced(AdvancedParams{})
	assert.ErrorIs(err, ErrValidation)
	assert.Contains(err.Error(), "must supply keywords or filters")

	// Whitespace-only keywords with an empty filter object are still empty.
	_, err = NormalizeAdvanced(AdvancedParams{Keywords: "  ", Filter: &FilterParams{}})
	assert.ErrorIs(err, ErrValidation)

	query, err := NormalizeAdvanced(AdvancedParams{Filter: &FilterParams{Projects: []int64{1}}})
	assert.NoError(err)
	assert.Empty(query.Keywords)
	assert.NotNil(query.Filter)

	query, err = NormalizeAdvanced(AdvancedParams{Keywords: "api"})
	assert.NoError(err)
	assert.Nil(query.Filter)
	assert.Equal(ScopeAll, query.Scope)
}
