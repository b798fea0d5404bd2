package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookups(t *testing.T) {
	assert.True(t, IsNation("pt"))
	assert.True(t, IsNation("uk-heritage"))
	assert.False(t, IsNation("es"))

	assert.True(t, IsInterest("santos-populares"))
	assert.False(t, IsInterest("opera"))

	assert.True(t, IsPreference("events"))
	assert.False(t, IsPreference("gaming"))
}

func TestCityByName(t *testing.T) {
	city, ok := CityByName(" london ")
	require.True(t, ok)
	assert.Equal(t, "london", city.Code)
	assert.True(t, city.HasArea("stockwell"))
	assert.False(t, city.HasArea("Leith"))

	other, ok := CityByCode("other")
	require.True(t, ok)
	assert.True(t, other.HasArea("Anywhere"))

	_, ok = CityByName("Lisbon")
	assert.False(t, ok)
}

func TestInterestsByCategory(t *testing.T) {
	order, groups := InterestsByCategory()
	require.NotEmpty(t, order)
	assert.Equal(t, "music", order[0])
	assert.Len(t, groups["music"], 4)

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(Interests), total)
}
