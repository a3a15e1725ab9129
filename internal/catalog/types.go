package catalog

import (
	"strconv"
	"strings"
)

// maxBaseStat is the highest base stat value any entry can have.
const maxBaseStat = 255

// noDescription is returned when no flavor text exists for a language.
const noDescription = "No description available."

// EntryRef is a lightweight pointer to a full catalog record.
type EntryRef struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url"  yaml:"url"`
}

// ID returns the numeric identifier encoded in the reference URL, or 0.
func (r EntryRef) ID() int {
	return ParseIdentifier(r.URL)
}

// Page is one page of the catalog listing.
type Page struct {
	Count    int        `json:"count"`
	Next     string     `json:"next"`
	Previous string     `json:"previous"`
	Results  []EntryRef `json:"results"`
}

// HasNext reports whether the service returned a continuation cursor.
func (p *Page) HasNext() bool {
	return p != nil && p.Next != ""
}

// Ability is one ability an entry can have.
type Ability struct {
	Name   string `json:"name"   yaml:"name"`
	Hidden bool   `json:"hidden" yaml:"hidden"`
}

// Stat is a base stat value.
type Stat struct {
	Name string `json:"name" yaml:"name"`
	Base int    `json:"base" yaml:"base"`
}

// Percent returns the stat as a fraction of the maximum base stat, capped at 1.
func (s Stat) Percent() float64 {
	p := float64(s.Base) / maxBaseStat
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Sprites holds image URIs.
type Sprites struct {
	FrontDefault    string `json:"front_default"    yaml:"front_default"`
	OfficialArtwork string `json:"official_artwork" yaml:"official_artwork"`
}

// EntryDetail is the full attribute record of one entry.
type EntryDetail struct {
	ID             int       `json:"id"              yaml:"id"`
	Name           string    `json:"name"            yaml:"name"`
	Height         int       `json:"height"          yaml:"height"`
	Weight         int       `json:"weight"          yaml:"weight"`
	BaseExperience int       `json:"base_experience" yaml:"base_experience"`
	Types          []string  `json:"types"           yaml:"types"`
	Abilities      []Ability `json:"abilities"       yaml:"abilities"`
	Stats          []Stat    `json:"stats"           yaml:"stats"`
	Sprites        Sprites   `json:"sprites"         yaml:"sprites"`
	// Species names the species record holding the entry's narrative. It
	// differs from Name for forms such as "giratina-altered".
	Species string `json:"species" yaml:"species"`
}

// HeightMeters converts the catalog's decimetres to metres.
func (d *EntryDetail) HeightMeters() float64 {
	return float64(d.Height) / 10 //nolint:mnd // decimetres per metre
}

// WeightKilograms converts the catalog's hectograms to kilograms.
func (d *EntryDetail) WeightKilograms() float64 {
	return float64(d.Weight) / 10 //nolint:mnd // hectograms per kilogram
}

// PrimaryType returns the first-slot type, or "".
func (d *EntryDetail) PrimaryType() string {
	if len(d.Types) == 0 {
		return ""
	}
	return d.Types[0]
}

// SpeciesKey returns the lookup key of the entry's narrative: the species
// name when known, otherwise the identifier.
func (d *EntryDetail) SpeciesKey() string {
	if d.Species != "" {
		return d.Species
	}
	return strconv.Itoa(d.ID)
}

// ArtworkURL prefers the official artwork and falls back to the default sprite.
func (d *EntryDetail) ArtworkURL() string {
	if d.Sprites.OfficialArtwork != "" {
		return d.Sprites.OfficialArtwork
	}
	return d.Sprites.FrontDefault
}

// Attributes extracts the facts list rows display.
func (d *EntryDetail) Attributes() Attributes {
	types := make([]string, len(d.Types))
	copy(types, d.Types)
	return Attributes{ID: d.ID, Types: types, ArtworkURL: d.ArtworkURL()}
}

// Attributes are per-entry facts cached as details resolve.
type Attributes struct {
	ID         int      `json:"id"                    yaml:"id"`
	Types      []string `json:"types"                 yaml:"types"`
	ArtworkURL string   `json:"artwork_url,omitempty" yaml:"artwork_url,omitempty"`
}

// FlavorText is one localized description.
type FlavorText struct {
	Text     string `json:"text"     yaml:"text"`
	Language string `json:"language" yaml:"language"`
	Version  string `json:"version"  yaml:"version"`
}

// SpeciesNarrative is the descriptive text of an entry's species.
type SpeciesNarrative struct {
	ID          int          `json:"id"           yaml:"id"`
	Name        string       `json:"name"         yaml:"name"`
	Genus       string       `json:"genus"        yaml:"genus"`
	FlavorTexts []FlavorText `json:"flavor_texts" yaml:"flavor_texts"`
}

// Description returns the first flavor text in lang with form feeds and
// line breaks collapsed to spaces.
func (s *SpeciesNarrative) Description(lang string) string {
	if s == nil {
		return noDescription
	}
	for _, ft := range s.FlavorTexts {
		if ft.Language == lang {
			return cleanFlavorText(ft.Text)
		}
	}
	return noDescription
}

var flavorReplacer = strings.NewReplacer("\f", " ", "\n", " ", "\r", " ") //nolint:gochecknoglobals // Immutable.

func cleanFlavorText(s string) string {
	return strings.Join(strings.Fields(flavorReplacer.Replace(s)), " ")
}

// namedResource is the {name, url} pair the service nests everywhere.
type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// apiPage is the raw list response.
type apiPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []namedResource `json:"results"`
}

// apiPokemon is the raw detail response.
type apiPokemon struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Types          []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
		Slot     int           `json:"slot"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
	Species namedResource `json:"species"`
}

// apiSpecies is the raw narrative response.
type apiSpecies struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
		Version    namedResource `json:"version"`
	} `json:"flavor_text_entries"`
	Genera []struct {
		Genus    string        `json:"genus"`
		Language namedResource `json:"language"`
	} `json:"genera"`
}

// apiType is the raw type membership response.
type apiType struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon namedResource `json:"pokemon"`
		Slot    int           `json:"slot"`
	} `json:"pokemon"`
}

func convertPage(ap apiPage) *Page {
	p := &Page{
		Count:   ap.Count,
		Results: make([]EntryRef, 0, len(ap.Results)),
	}
	if ap.Next != nil {
		p.Next = *ap.Next
	}
	if ap.Previous != nil {
		p.Previous = *ap.Previous
	}
	for _, r := range ap.Results {
		p.Results = append(p.Results, EntryRef(r))
	}
	return p
}

func convertPokemon(ap apiPokemon) *EntryDetail {
	d := &EntryDetail{
		ID:             ap.ID,
		Name:           ap.Name,
		Height:         ap.Height,
		Weight:         ap.Weight,
		BaseExperience: ap.BaseExperience,
		Species:        ap.Species.Name,
	}

	// Types arrive slot-ordered; keep that order.
	for _, t := range ap.Types {
		d.Types = append(d.Types, t.Type.Name)
	}
	for _, a := range ap.Abilities {
		d.Abilities = append(d.Abilities, Ability{Name: a.Ability.Name, Hidden: a.IsHidden})
	}
	for _, s := range ap.Stats {
		d.Stats = append(d.Stats, Stat{Name: s.Stat.Name, Base: s.BaseStat})
	}
	if ap.Sprites.FrontDefault != nil {
		d.Sprites.FrontDefault = *ap.Sprites.FrontDefault
	}
	if ap.Sprites.Other.OfficialArtwork.FrontDefault != nil {
		d.Sprites.OfficialArtwork = *ap.Sprites.Other.OfficialArtwork.FrontDefault
	}
	return d
}

func convertSpecies(as apiSpecies, lang string) *SpeciesNarrative {
	s := &SpeciesNarrative{ID: as.ID, Name: as.Name}
	for _, ft := range as.FlavorTextEntries {
		s.FlavorTexts = append(s.FlavorTexts, FlavorText{
			Text:     ft.FlavorText,
			Language: ft.Language.Name,
			Version:  ft.Version.Name,
		})
	}
	for _, g := range as.Genera {
		if g.Language.Name == lang {
			s.Genus = g.Genus
			break
		}
	}
	return s
}
