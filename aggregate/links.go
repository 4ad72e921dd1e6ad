package aggregate

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/amonks/artists/data"
)

// A badge is one link in an artist's link row. Class selects the badge style
// of the source it points to.
type badge struct {
	label, class, href string
}

// badges lists the artist's links: the profile first, then the Commons
// category, then each authority record that the artist has an id for.
func badges(a *data.Artist) []badge {
	bs := []badge{{"Wiki", "wiki", a.URL}}
	if a.CommonsCategory != "" {
		bs = append(bs, badge{"Commons", "commons", "https://commons.wikimedia.org/wiki/Category:" + url.PathEscape(strings.ReplaceAll(a.CommonsCategory, " ", "_"))})
	}
	if a.ULAN != "" {
		bs = append(bs, badge{"Getty", "getty", "https://www.getty.edu/vow/ULANFullDisplay?find=&role=&nation=&subjectid=" + url.QueryEscape(a.ULAN)})
	}
	if a.RKD != "" {
		bs = append(bs, badge{"RKD", "rkd", "https://rkd.nl/en/explore/artists/" + url.PathEscape(a.RKD)})
	}
	if a.WGA != "" {
		bs = append(bs, badge{"WGA", "wga", "https://www.wga.hu/" + a.WGA})
	}
	if a.VIAF != "" {
		bs = append(bs, badge{"VIAF", "viaf", "https://viaf.org/viaf/" + url.PathEscape(a.VIAF)})
	}
	return bs
}

// Links renders the artist's badges as an HTML fragment of anchors.
func Links(a *data.Artist) template.HTML {
	var sb strings.Builder
	for _, b := range badges(a) {
		sb.WriteString(`<a href="`)
		sb.WriteString(template.HTMLEscapeString(b.href))
		sb.WriteString(`" target="_blank" class="btn-source `)
		sb.WriteString(b.class)
		sb.WriteString(`">`)
		sb.WriteString(b.label)
		sb.WriteString(`</a>`)
	}
	return template.HTML(sb.String())
}
