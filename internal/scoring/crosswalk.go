package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/classification-service/internal/models"
)

// Axis identifies which totals map a resolved reference belongs to.
type Axis int

const (
	AxisFrequency Axis = iota + 1
	AxisProfile
	AxisLayer
)

func (a Axis) String() string {
	switch a {
	case AxisFrequency:
		return "frequency"
	case AxisProfile:
		return "profile"
	case AxisLayer:
		return "layer"
	default:
		return "unknown"
	}
}

// CategoryRef is a reference that has passed through the crosswalk. Only the
// field matching Axis is set.
type CategoryRef struct {
	Axis      Axis
	Frequency models.Frequency
	Profile   models.ProfileCode
	Layer     string
	LayerCode models.LayerCode
}

// Code returns the canonical code as a map key.
func (r CategoryRef) Code() string {
	switch r.Axis {
	case AxisFrequency:
		return string(r.Frequency)
	case AxisProfile:
		return string(r.Profile)
	case AxisLayer:
		return string(r.LayerCode)
	default:
		return ""
	}
}

var (
	shortProfilePattern  = regexp.MustCompile(`^[Pp](\d+)$`)
	prefixProfilePattern = regexp.MustCompile(`(?i)^profile_(\d+)$`)
	digitsPattern        = regexp.MustCompile(`^\d+$`)
)

type layerIndex struct {
	order map[models.LayerCode]int
	names map[string]models.LayerCode
}

// Crosswalk converts loosely spelled category references into the canonical
// codes of one framework. It is read-only after construction and safe for
// concurrent use.
type Crosswalk struct {
	frequencyOrder map[models.Frequency]int
	profileOrder   map[models.ProfileCode]int
	primary        map[models.ProfileCode]models.Frequency
	names          map[string]string
	layers         map[string]*layerIndex
}

func NewCrosswalk(framework *models.Framework) *Crosswalk {
	cfg := framework.Config
	c := &Crosswalk{
		frequencyOrder: make(map[models.Frequency]int, len(cfg.Frequencies)),
		profileOrder:   make(map[models.ProfileCode]int, len(cfg.Profiles)),
		primary:        make(map[models.ProfileCode]models.Frequency, len(cfg.Profiles)),
		names:          make(map[string]string),
		layers:         make(map[string]*layerIndex, len(cfg.Layers)),
	}

	for i, f := range cfg.Frequencies {
		if _, ok := models.ParseFrequency(string(f.Code)); !ok {
			continue
		}
		if _, dup := c.frequencyOrder[f.Code]; !dup {
			c.frequencyOrder[f.Code] = i
		}
		c.addName(f.Name, string(f.Code))
	}
	for i, p := range cfg.Profiles {
		if p.Code == "" {
			continue
		}
		if _, dup := c.profileOrder[p.Code]; !dup {
			c.profileOrder[p.Code] = i
		}
		if _, ok := c.frequencyOrder[p.PrimaryFrequency]; ok {
			c.primary[p.Code] = p.PrimaryFrequency
		}
		c.addName(p.Name, string(p.Code))
	}
	// explicit lookup entries win over definition names
	for name, code := range cfg.NameLookup {
		if key := nameKey(name); key != "" {
			c.names[key] = strings.TrimSpace(code)
		}
	}

	for _, layer := range cfg.Layers {
		idx := &layerIndex{
			order: make(map[models.LayerCode]int, len(layer.Codes)),
			names: make(map[string]models.LayerCode, len(layer.Codes)),
		}
		for i, lc := range layer.Codes {
			if _, dup := idx.order[lc.Code]; !dup {
				idx.order[lc.Code] = i
			}
			if key := nameKey(lc.Name); key != "" {
				idx.names[key] = lc.Code
			}
		}
		c.layers[layer.Key] = idx
	}
	return c
}

func (c *Crosswalk) addName(name, code string) {
	key := nameKey(name)
	if key == "" {
		return
	}
	if _, exists := c.names[key]; !exists {
		c.names[key] = code
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve maps raw to a frequency or profile code using, in order: exact
// canonical match, P<n>/PROFILE_<n> forms, display name, bare digits, and
// the first-letter frequency heuristic.
func (c *Crosswalk) Resolve(raw string) (CategoryRef, bool) {
	if ref, ok := c.exact(raw); ok {
		return ref, true
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return CategoryRef{}, false
	}
	if ref, ok := c.exact(s); ok {
		return ref, true
	}

	if m := shortProfilePattern.FindStringSubmatch(s); m != nil {
		if ref, ok := c.numberedProfile(m[1]); ok {
			return ref, true
		}
	}
	if m := prefixProfilePattern.FindStringSubmatch(s); m != nil {
		if ref, ok := c.numberedProfile(m[1]); ok {
			return ref, true
		}
	}

	if code, ok := c.names[nameKey(s)]; ok {
		if ref, ok := c.exact(code); ok {
			return ref, true
		}
	}

	if digitsPattern.MatchString(s) {
		if ref, ok := c.numberedProfile(s); ok {
			return ref, true
		}
	}

	if f, ok := models.ParseFrequency(s[:1]); ok {
		if _, defined := c.frequencyOrder[f]; defined {
			return CategoryRef{Axis: AxisFrequency, Frequency: f}, true
		}
	}

	return CategoryRef{}, false
}

func (c *Crosswalk) exact(s string) (CategoryRef, bool) {
	if _, ok := c.profileOrder[models.ProfileCode(s)]; ok {
		return CategoryRef{Axis: AxisProfile, Profile: models.ProfileCode(s)}, true
	}
	if _, ok := c.frequencyOrder[models.Frequency(s)]; ok {
		return CategoryRef{Axis: AxisFrequency, Frequency: models.Frequency(s)}, true
	}
	return CategoryRef{}, false
}

func (c *Crosswalk) numberedProfile(digits string) (CategoryRef, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return CategoryRef{}, false
	}
	code := models.ProfileCode("P" + strconv.Itoa(n))
	if _, ok := c.profileOrder[code]; !ok {
		return CategoryRef{}, false
	}
	return CategoryRef{Axis: AxisProfile, Profile: code}, true
}

// ResolveLayer maps raw to a code of the named layer by exact code, the
// layer's own display names, or the framework name lookup.
func (c *Crosswalk) ResolveLayer(layer, raw string) (CategoryRef, bool) {
	idx, ok := c.layers[layer]
	if !ok {
		return CategoryRef{}, false
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return CategoryRef{}, false
	}
	if _, ok := idx.order[models.LayerCode(s)]; ok {
		return CategoryRef{Axis: AxisLayer, Layer: layer, LayerCode: models.LayerCode(s)}, true
	}
	if code, ok := idx.names[nameKey(s)]; ok {
		return CategoryRef{Axis: AxisLayer, Layer: layer, LayerCode: code}, true
	}
	if code, ok := c.names[nameKey(s)]; ok {
		if _, ok := idx.order[models.LayerCode(code)]; ok {
			return CategoryRef{Axis: AxisLayer, Layer: layer, LayerCode: models.LayerCode(code)}, true
		}
	}
	return CategoryRef{}, false
}

// HasLayer reports whether the framework declares the layer key.
func (c *Crosswalk) HasLayer(layer string) bool {
	_, ok := c.layers[layer]
	return ok
}

// PrimaryFrequency returns the frequency that owns profile.
func (c *Crosswalk) PrimaryFrequency(profile models.ProfileCode) (models.Frequency, bool) {
	f, ok := c.primary[profile]
	return f, ok
}

// FrequencyOrdinal is the declared position of a frequency code.
func (c *Crosswalk) FrequencyOrdinal(code string) (int, bool) {
	i, ok := c.frequencyOrder[models.Frequency(code)]
	return i, ok
}

// ProfileOrdinal is the declared position of a profile code.
func (c *Crosswalk) ProfileOrdinal(code string) (int, bool) {
	i, ok := c.profileOrder[models.ProfileCode(code)]
	return i, ok
}

// LayerOrdinal returns an ordinal function for codes of one layer.
func (c *Crosswalk) LayerOrdinal(layer string) func(string) (int, bool) {
	return func(code string) (int, bool) {
		idx, ok := c.layers[layer]
		if !ok {
			return 0, false
		}
		i, ok := idx.order[models.LayerCode(code)]
		return i, ok
	}
}
