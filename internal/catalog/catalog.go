// Package catalog holds the fixed option lists members pick from during
// registration: heritage nations, cultural interests, UK locations and
// community preferences.
package catalog

import "strings"

// Nation is a heritage option.
type Nation struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Interest is a cultural interest grouped by category.
type Interest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// City is a UK location with the areas members usually live in.
type City struct {
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Areas []string `json:"areas"`
}

// Preference is a way of connecting with the community.
type Preference struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Nations = []Nation{
	{Code: "pt", Name: "Portugal"},
	{Code: "br", Name: "Brazil"},
	{Code: "ao", Name: "Angola"},
	{Code: "mz", Name: "Mozambique"},
	{Code: "cv", Name: "Cape Verde"},
	{Code: "gw", Name: "Guinea-Bissau"},
	{Code: "st", Name: "São Tomé & Príncipe"},
	{Code: "tl", Name: "East Timor"},
	{Code: "uk-heritage", Name: "UK-Born Heritage"},
	{Code: "mixed", Name: "Mixed Heritage"},
}

var Interests = []Interest{
	{ID: "fado", Name: "Fado", Category: "music"},
	{ID: "kizomba", Name: "Kizomba", Category: "music"},
	{ID: "samba", Name: "Samba", Category: "music"},
	{ID: "morna", Name: "Morna", Category: "music"},
	{ID: "cuisine", Name: "Portuguese Cuisine", Category: "food"},
	{ID: "wine", Name: "Portuguese Wine", Category: "food"},
	{ID: "festivals", Name: "Cultural Festivals", Category: "culture"},
	{ID: "santos-populares", Name: "Santos Populares", Category: "culture"},
	{ID: "business", Name: "Professional Networking", Category: "business"},
	{ID: "language", Name: "Language Exchange", Category: "education"},
	{ID: "arts", Name: "Portuguese Arts", Category: "culture"},
	{ID: "football", Name: "Football", Category: "sports"},
}

var Cities = []City{
	{Code: "london", Name: "London", Areas: []string{"Stockwell", "Vauxhall", "Bermondsey", "Camden", "Kensington"}},
	{Code: "manchester", Name: "Manchester", Areas: []string{"City Centre", "Rusholme", "Fallowfield"}},
	{Code: "birmingham", Name: "Birmingham", Areas: []string{"City Centre", "Edgbaston", "Moseley"}},
	{Code: "liverpool", Name: "Liverpool", Areas: []string{"City Centre", "Smithdown Road"}},
	{Code: "leeds", Name: "Leeds", Areas: []string{"City Centre", "Headingley"}},
	{Code: "bristol", Name: "Bristol", Areas: []string{"City Centre", "Clifton"}},
	{Code: "edinburgh", Name: "Edinburgh", Areas: []string{"City Centre", "Leith"}},
	{Code: "glasgow", Name: "Glasgow", Areas: []string{"City Centre", "West End"}},
	{Code: "cardiff", Name: "Cardiff", Areas: []string{"City Centre", "Cardiff Bay"}},
	{Code: "other", Name: "Other UK Location", Areas: []string{"Please specify"}},
}

var Preferences = []Preference{
	{ID: "events", Name: "Cultural Events", Description: "Fado nights, festivals, celebrations"},
	{ID: "networking", Name: "Professional Networking", Description: "Business connections, career opportunities"},
	{ID: "dating", Name: "Dating & Romance", Description: "Meaningful relationships with Portuguese speakers"},
	{ID: "friendship", Name: "Friendship & Social", Description: "Making friends, social gatherings"},
	{ID: "family", Name: "Family Activities", Description: "Family events, children activities"},
	{ID: "language", Name: "Language Practice", Description: "Improve Portuguese/English skills"},
}

// IsNation reports whether code is a known heritage option.
func IsNation(code string) bool {
	for _, n := range Nations {
		if n.Code == code {
			return true
		}
	}
	return false
}

// IsInterest reports whether id is a known cultural interest.
func IsInterest(id string) bool {
	for _, i := range Interests {
		if i.ID == id {
			return true
		}
	}
	return false
}

// IsPreference reports whether id is a known community preference.
func IsPreference(id string) bool {
	for _, p := range Preferences {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CityByName finds a city by its display name, case-insensitively. The
// registration draft stores the name, not the code.
func CityByName(name string) (City, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// CityByCode finds a city by code.
func CityByCode(code string) (City, bool) {
	for _, c := range Cities {
		if c.Code == code {
			return c, true
		}
	}
	return City{}, false
}

// HasArea reports whether area belongs to the city. Free text is accepted for "other".
func (c City) HasArea(area string) bool {
	if c.Code == "other" {
		return true
	}
	for _, a := range c.Areas {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}

// InterestsByCategory groups interests in catalog order.
func InterestsByCategory() ([]string, map[string][]Interest) {
	var order []string
	groups := make(map[string][]Interest)
	for _, i := range Interests {
		if _, seen := groups[i.Category]; !seen {
			order = append(order, i.Category)
		}
		groups[i.Category] = append(groups[i.Category], i)
	}
	return order, groups
}
