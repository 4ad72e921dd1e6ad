package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amonks/artists/aggregate"
	"github.com/amonks/artists/data"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// searchForm is the query string of a search. Year and count bounds match
// the gallery's form controls.
type searchForm struct {
	From  int      `validate:"min=1300,max=1900"`
	To    int      `validate:"min=1300,max=1900,gtefield=From"`
	City  string   `validate:"max=200"`
	Max   int      `validate:"min=1,max=6"`
	Limit int      `validate:"min=1,max=100000"`
	Roles []string `validate:"dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) defaultForm() searchForm {
	return searchForm{
		From:  s.defaults.YearStart,
		To:    s.defaults.YearEnd,
		City:  s.defaults.City,
		Max:   s.defaults.MaxPerArtist,
		Limit: s.defaults.Limit,
		Roles: s.defaults.Roles,
	}
}

// parseForm reads a search from q on top of the defaults. The returned form
// is usable for redisplay even when err is non-nil.
func (s *Server) parseForm(q url.Values) (searchForm, error) {
	form := s.defaultForm()

	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"from", &form.From},
		{"to", &form.To},
		{"max", &form.Max},
		{"limit", &form.Limit},
	} {
		v := strings.TrimSpace(q.Get(field.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return form, fmt.Errorf("%s must be a number, got '%s'", field.name, v)
		}
		*field.dst = n
	}
	if q.Has("city") {
		form.City = strings.TrimSpace(q.Get("city"))
	}
	if v := q.Get("roles"); v != "" {
		form.Roles = nil
		for _, role := range strings.Split(v, ",") {
			form.Roles = append(form.Roles, strings.TrimSpace(role))
		}
	}

	if err := validate.Struct(form); err != nil {
		return form, err
	}
	if err := form.params(s.defaults).Validate(); err != nil {
		return form, err
	}
	return form, nil
}

func (f searchForm) params(defaults aggregate.Params) aggregate.Params {
	p := defaults
	p.YearStart = f.From
	p.YearEnd = f.To
	p.City = f.City
	p.MaxPerArtist = f.Max
	p.Limit = f.Limit
	p.Roles = f.Roles
	return p
}

type galleryPage struct {
	Form     searchForm
	Error    string
	Searched bool
	Degraded bool
	Artists  int
	Items    []data.DisplayItem
}

// handleGallery shows the search form, and runs a search when the form was
// submitted.
func (s *Server) handleGallery(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page := galleryPage{Form: s.defaultForm()}

	status := http.StatusOK
	if q.Has("from") {
		form, err := s.parseForm(q)
		page.Form = form
		if err != nil {
			page.Error = err.Error()
			status = http.StatusBadRequest
		} else {
			report := s.agg.Run(req.Context(), form.params(s.defaults))
			page.Searched = true
			page.Items = report.Items
			page.Artists = data.CountArtists(report.Items)
			page.Degraded = report.GraphErr != nil || report.ImageFailures > 0
		}
	}

	var buf bytes.Buffer
	if err := gallery.Execute(&buf, page); err != nil {
		log.Error().Err(err).Msg("error rendering gallery")
		http.Error(w, "error rendering gallery", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

type itemsResponse struct {
	Artists  int                `json:"artists"`
	Degraded bool               `json:"degraded"`
	Items    []data.DisplayItem `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleItems(w http.ResponseWriter, req *http.Request) {
	form, err := s.parseForm(req.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	report := s.agg.Run(req.Context(), form.params(s.defaults))
	writeJSON(w, http.StatusOK, itemsResponse{
		Artists:  data.CountArtists(report.Items),
		Degraded: report.GraphErr != nil || report.ImageFailures > 0,
		Items:    report.Items,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	bs, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("error encoding response")
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bs)
}
