// Package catalogtest serves a deterministic fake catalog over HTTP for
// tests.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Catalog shape: ids 1..CanonicalTotal followed by variant forms starting
// at VariantBase, for Total entries in all.
const (
	CanonicalTotal = 1025
	VariantBase    = 10001
	Total          = 1302
)

//nolint:gochecknoglobals // Fixture data.
var knownNames = map[int]string{
	1:     "bulbasaur",
	4:     "charmander",
	7:     "squirtle",
	25:    "pikachu",
	26:    "raichu",
	122:   "mr-mime",
	150:   "mewtwo",
	151:   "mew",
	172:   "pichu",
	386:   "deoxys-normal",
	487:   "giratina-altered",
	1008:  "miraidon",
	1009:  "walking-wake",
	10001: "deoxys-attack",
	10100: "raichu-alola",
}

// Forms whose species name differs from the entry name, and the species
// of the fixture variants.
//
//nolint:gochecknoglobals // Fixture data.
var (
	speciesNames   = map[int]string{386: "deoxys", 487: "giratina"}
	variantSpecies = map[int]int{10001: 386, 10100: 26}
)

// Server is a fake catalog service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fail     map[string]int
	requests map[string]int

	listCalls atomic.Int64
	gate      chan struct{}
}

// NewServer starts a fake catalog. Close it when done.
func NewServer() *Server {
	s := &Server{
		fail:     make(map[string]int),
		requests: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon", s.handleList)
	mux.HandleFunc("/pokemon/", s.handleDetail)
	mux.HandleFunc("/pokemon-species/", s.handleSpecies)
	mux.HandleFunc("/type/", s.handleType)
	s.Server = httptest.NewServer(mux)
	return s
}

// Name returns the fixture name of id.
func Name(id int) string {
	if n, ok := knownNames[id]; ok {
		return n
	}
	if id >= VariantBase {
		return fmt.Sprintf("variant%d-form", id)
	}
	return fmt.Sprintf("entry%d", id)
}

// IDAt returns the identifier listed at zero-based position i.
func IDAt(i int) int {
	if i < CanonicalTotal {
		return i + 1
	}
	return VariantBase + i - CanonicalTotal
}

// RefURL returns the reference URL the server emits for id.
func (s *Server) RefURL(id int) string {
	return fmt.Sprintf("%s/pokemon/%d/", s.URL, id)
}

// FailPath makes requests whose path starts with prefix answer status.
// A zero status clears the failure.
func (s *Server) FailPath(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, prefix)
		return
	}
	s.fail[prefix] = status
}

// Requests returns how many times path (without query) was requested.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// ListCalls returns how many list requests were served.
func (s *Server) ListCalls() int {
	return int(s.listCalls.Load())
}

// Hold blocks list requests until the returned release func is called.
func (s *Server) Hold() (release func()) {
	s.mu.Lock()
	gate := make(chan struct{})
	s.gate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate = nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) track(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	var status int
	for prefix, code := range s.fail {
		if strings.HasPrefix(r.URL.Path, prefix) {
			status = code
		}
	}
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return false
	}
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.listCalls.Add(1)

	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if !s.track(w, r) {
		return
	}

	limit := queryInt(r, "limit", 20) //nolint:mnd // service default page size
	offset := queryInt(r, "offset", 0)

	type ref struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	results := []ref{}
	for i := offset; i < offset+limit && i < Total; i++ {
		id := IDAt(i)
		results = append(results, ref{Name: Name(id), URL: s.RefURL(id)})
	}

	var next, prev *string
	if offset+limit < Total {
		n := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", s.URL, offset+limit, limit)
		next = &n
	}
	if offset > 0 {
		p := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", s.URL, max(offset-limit, 0), limit)
		prev = &p
	}

	writeJSON(w, map[string]any{
		"count":    Total,
		"next":     next,
		"previous": prev,
		"results":  results,
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	if !s.track(w, r) {
		return
	}
	id, ok := lookup(strings.TrimPrefix(r.URL.Path, "/pokemon/"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	artwork := fmt.Sprintf("https://img.example/artwork/%d.png", id)
	writeJSON(w, map[string]any{
		"id":              id,
		"name":            Name(id),
		"height":          4,
		"weight":          60,
		"base_experience": 112,
		"types": []map[string]any{
			{"slot": 1, "type": map[string]string{"name": typeOf(id), "url": ""}},
		},
		"abilities": []map[string]any{
			{"ability": map[string]string{"name": "static"}, "is_hidden": false, "slot": 1},
			{"ability": map[string]string{"name": "lightning-rod"}, "is_hidden": true, "slot": 3},
		},
		"stats": []map[string]any{
			{"base_stat": 35, "stat": map[string]string{"name": "hp"}},
			{"base_stat": 55, "stat": map[string]string{"name": "attack"}},
			{"base_stat": 40, "stat": map[string]string{"name": "defense"}},
			{"base_stat": 50, "stat": map[string]string{"name": "special-attack"}},
			{"base_stat": 50, "stat": map[string]string{"name": "special-defense"}},
			{"base_stat": 90, "stat": map[string]string{"name": "speed"}},
		},
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("https://img.example/sprite/%d.png", id),
			"other": map[string]any{
				"official-artwork": map[string]any{"front_default": artwork},
			},
		},
		"species": map[string]string{
			"name": SpeciesName(SpeciesOf(id)),
			"url":  fmt.Sprintf("%s/pokemon-species/%d/", s.URL, SpeciesOf(id)),
		},
	})
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	if !s.track(w, r) {
		return
	}
	id, ok := lookupSpecies(strings.TrimPrefix(r.URL.Path, "/pokemon-species/"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]any{
		"id":   id,
		"name": SpeciesName(id),
		"flavor_text_entries": []map[string]any{
			{
				"flavor_text": "Une description.",
				"language":    map[string]string{"name": "fr"},
				"version":     map[string]string{"name": "red"},
			},
			{
				"flavor_text": "When several of\fthese gather,\ntheir electricity\fcould build.",
				"language":    map[string]string{"name": "en"},
				"version":     map[string]string{"name": "red"},
			},
		},
		"genera": []map[string]any{
			{"genus": "Mouse Pokémon", "language": map[string]string{"name": "en"}},
		},
	})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	if !s.track(w, r) {
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/type/")
	if name != "electric" && name != "grass" && name != "normal" {
		http.NotFound(w, r)
		return
	}

	// Listed out of id order to exercise sorting.
	members := []map[string]any{}
	for _, id := range []int{10100, 172, 25, 26, 1009} {
		if typeOf(id) == name {
			members = append(members, map[string]any{
				"slot":    1,
				"pokemon": map[string]string{"name": Name(id), "url": s.RefURL(id)},
			})
		}
	}
	writeJSON(w, map[string]any{"id": 13, "name": name, "pokemon": members})
}

// typeOf assigns every fixture a single type.
func typeOf(id int) string {
	switch id {
	case 25, 26, 172, 10100, 1009:
		return "electric"
	case 1:
		return "grass"
	default:
		return "normal"
	}
}

// SpeciesOf returns the species identifier of entry id.
func SpeciesOf(id int) int {
	if id < VariantBase {
		return id
	}
	if sp, ok := variantSpecies[id]; ok {
		return sp
	}
	return id - VariantBase + 1
}

// SpeciesName returns the fixture name of species id.
func SpeciesName(id int) string {
	if n, ok := speciesNames[id]; ok {
		return n
	}
	return Name(id)
}

// lookupSpecies resolves a species id or species name. Entry names of
// forms, such as "giratina-altered", are not species names.
func lookupSpecies(key string) (int, bool) {
	key = strings.Trim(key, "/")
	if id, err := strconv.Atoi(key); err == nil {
		return id, id >= 1 && id <= CanonicalTotal
	}
	id, ok := lookup(key)
	if ok && id <= CanonicalTotal && SpeciesName(id) == key {
		return id, true
	}
	for sp, n := range speciesNames {
		if n == key {
			return sp, true
		}
	}
	return 0, false
}

func lookup(key string) (int, bool) {
	key = strings.Trim(key, "/")
	if id, err := strconv.Atoi(key); err == nil {
		if (id >= 1 && id <= CanonicalTotal) || (id >= VariantBase && id < VariantBase+Total-CanonicalTotal) {
			return id, true
		}
		return 0, false
	}
	for id, n := range knownNames {
		if n == key {
			return id, true
		}
	}
	var id int
	if _, err := fmt.Sscanf(key, "entry%d", &id); err == nil && id >= 1 && id <= CanonicalTotal {
		return id, true
	}
	return 0, false
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
