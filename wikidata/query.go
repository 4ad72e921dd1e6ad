package wikidata

import (
	"fmt"
	"sort"
	"strings"
)

// Roles maps the occupation names we recognize to their Wikidata items. Only
// artists holding one of these occupations are selected. Occupations without
// a settled English name are keyed by their item id.
var Roles = map[string]string{
	"painter":   "Q1028181",
	"writer":    "Q36180",
	"Q15953503": "Q15953503",
	"Q1580177":  "Q1580177",
	"Q3393341":  "Q3393341",

	"sculptor":     "Q1281618",
	"engraver":     "Q329439",
	"draftsperson": "Q15296811",
	"architect":    "Q42973",
}

// DefaultRoles is the role set used when a query names none.
var DefaultRoles = []string{"painter", "Q15953503", "Q1580177", "Q3393341", "writer"}

// DefaultLanguages are the label languages used when a query names none.
var DefaultLanguages = []string{"fr", "en"}

// A Query selects artists born between YearStart and YearEnd inclusive,
// optionally tied to a place whose label matches City.
type Query struct {
	YearStart, YearEnd int

	// A case-insensitive regular expression matched against the labels of
	// the artist's birthplace, place of death and work locations. Blank
	// means no location filter.
	City string

	// Maximum number of result rows.
	Limit int

	// Keys of Roles. Empty means DefaultRoles.
	Roles []string

	// Label languages in order of preference, like ["fr", "en"]. The first
	// one is used to match City.
	Languages []string
}

func (q Query) roleItems() ([]string, error) {
	roles := q.Roles
	if len(roles) == 0 {
		roles = DefaultRoles
	}
	items := make([]string, 0, len(roles))
	for _, role := range roles {
		item, ok := Roles[role]
		if !ok {
			return nil, fmt.Errorf("unknown role '%s'", role)
		}
		items = append(items, "wd:"+item)
	}
	sort.Strings(items)
	return items, nil
}

func (q Query) languages() []string {
	if len(q.Languages) == 0 {
		return DefaultLanguages
	}
	return q.Languages
}

// SPARQL renders the query text sent to the endpoint.
func (q Query) SPARQL() (string, error) {
	items, err := q.roleItems()
	if err != nil {
		return "", err
	}
	langs := q.languages()

	var cityFilter string
	if city := strings.TrimSpace(q.City); city != "" {
		cityFilter = fmt.Sprintf(`
  { ?artist wdt:P937 ?loc. } UNION { ?artist wdt:P19 ?loc. } UNION { ?artist wdt:P20 ?loc. }
  ?loc rdfs:label ?locLabel.
  FILTER(REGEX(?locLabel, "%s", "i") && lang(?locLabel) = "%s")`,
			literal(city), literal(langs[0]))
	}

	return fmt.Sprintf(`SELECT DISTINCT ?artist ?artistLabel ?birthDate ?deathDate ?work ?workLabel ?image ?workDate ?roleLabel ?ulanId ?rkdId ?wgaId ?viafId ?commonsCat
WHERE {
  hint:Query hint:optimizer "None".

  VALUES ?role { %s }
  ?artist wdt:P106 ?role.

  ?artist wdt:P569 ?birthDate.
  FILTER(?birthDate >= "%04d-01-01"^^xsd:dateTime && ?birthDate <= "%04d-12-31"^^xsd:dateTime)
%s
  OPTIONAL { ?artist wdt:P570 ?deathDate. }

  OPTIONAL { ?artist wdt:P245 ?ulanId. }
  OPTIONAL { ?artist wdt:P650 ?rkdId. }
  OPTIONAL { ?artist wdt:P1882 ?wgaId. }
  OPTIONAL { ?artist wdt:P214 ?viafId. }
  OPTIONAL { ?artist wdt:P373 ?commonsCat. }

  OPTIONAL {
    ?work wdt:P170 ?artist.
    OPTIONAL { ?work wdt:P18 ?image. }
    OPTIONAL { ?work wdt:P571 ?workDate. }
  }

  SERVICE wikibase:label { bd:serviceParam wikibase:language "%s". }
}
LIMIT %d
`, strings.Join(items, " "), q.YearStart, q.YearEnd, cityFilter, literal(strings.Join(langs, ",")), q.Limit), nil
}

// literal escapes s for use inside a double-quoted SPARQL string literal.
func literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}
