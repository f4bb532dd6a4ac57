package usecase

import (
	"regexp"
	"strings"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/utils"
)

type airlineVariant struct {
	base       string
	variations []string
}

// airlineVariants maps a base name to spellings users type for it.
// A base resolves to the known airline whose name contains it.
var airlineVariants = []airlineVariant{
	{"air india", []string{"airindia", "air-india", "air_india"}},
	{"spicejet", []string{"spice jet", "spice-jet", "spice_jet"}},
	{"indigo", []string{"indigo airlines", "indigo air"}},
	{"vistara", []string{"vistara airlines", "vistara air"}},
	{"akasa", []string{"akasa air", "akasa airlines"}},
	{"go first", []string{"gofirst", "go air", "goair"}},
	{"emirates", []string{"emirates airlines", "emirates air"}},
	{"qatar", []string{"qatar airways", "qatar air"}},
	{"etihad", []string{"etihad airways", "etihad air"}},
	{"british", []string{"british airways", "british air"}},
	{"lufthansa", []string{"lufthansa airlines", "lufthansa air"}},
	{"singapore", []string{"singapore airlines", "singapore air"}},
	{"thai", []string{"thai airways", "thai air"}},
	{"malaysia", []string{"malaysia airlines", "malaysia air"}},
	{"cathay", []string{"cathay pacific", "cathay air"}},
	{"japan", []string{"japan airlines", "japan air"}},
	{"ana", []string{"all nippon airways", "all nippon air"}},
	{"united", []string{"united airlines", "united air"}},
	{"american", []string{"american airlines", "american air"}},
	{"delta", []string{"delta air lines", "delta air"}},
	{"air canada", []string{"aircanada", "air-canada"}},
	{"qantas", []string{"qantas airways", "qantas air"}},
	{"virgin atlantic", []string{"virgin atlantic airways", "virgin atlantic air"}},
	{"turkish", []string{"turkish airlines", "turkish air"}},
	{"egyptair", []string{"egypt air", "egypt-air"}},
	{"saudi", []string{"saudi arabian airlines", "saudia"}},
	{"kuwait", []string{"kuwait airways", "kuwait air"}},
	{"oman air", []string{"omanair", "oman-air"}},
	{"gulf air", []string{"gulfair", "gulf-air"}},
	{"flydubai", []string{"fly dubai", "fly-dubai"}},
	{"air arabia", []string{"airarabia", "air-arabia"}},
	{"jazeera", []string{"jazeera airways", "jazeera air"}},
	{"air china", []string{"airchina", "air-china"}},
	{"china southern", []string{"china southern airlines", "china southern air"}},
	{"china eastern", []string{"china eastern airlines", "china eastern air"}},
	{"korean", []string{"korean air", "korean airlines"}},
	{"asiana", []string{"asiana airlines", "asiana air"}},
}

var airlineCodeRe = regexp.MustCompile(`\b[A-Z0-9]{2,3}\b`)

// AirlineDirectory is an immutable snapshot of known airlines used for matching
type AirlineDirectory struct {
	airlines []*entity.Airline
	byCode   map[string]*entity.Airline
}

// NewAirlineDirectory builds a directory from airlines in priority order
func NewAirlineDirectory(airlines []*entity.Airline) *AirlineDirectory {
	d := &AirlineDirectory{
		airlines: airlines,
		byCode:   make(map[string]*entity.Airline, len(airlines)),
	}
	for _, a := range airlines {
		d.byCode[strings.ToUpper(a.Code)] = a
	}
	return d
}

// ByCode looks up an airline by its designator
func (d *AirlineDirectory) ByCode(code string) *entity.Airline {
	if d == nil {
		return nil
	}
	return d.byCode[strings.ToUpper(strings.TrimSpace(code))]
}

// Resolve maps a free-text mention to a known airline: exact code, then
// case-insensitive name or alias, then the variant table. Returns nil when unknown.
func (d *AirlineDirectory) Resolve(mention string) *entity.Airline {
	if d == nil {
		return nil
	}
	m := strings.TrimSpace(mention)
	if m == "" {
		return nil
	}

	if len(m) >= 2 && len(m) <= 3 {
		if a := d.byCode[strings.ToUpper(m)]; a != nil {
			return a
		}
	}

	for _, a := range d.airlines {
		if strings.EqualFold(a.Name, m) || a.HasAlias(m) {
			return a
		}
	}

	return d.fuzzy(utils.NormalizeQuery(m))
}

// fuzzy resolves through the variant table. q must be normalized.
func (d *AirlineDirectory) fuzzy(q string) *entity.Airline {
	for _, v := range airlineVariants {
		if !utils.ContainsPhrase(q, v.base) && !utils.ContainsAnyPhrase(q, v.variations) {
			continue
		}
		if a := d.containingName(v.base); a != nil {
			return a
		}
	}
	return nil
}

func (d *AirlineDirectory) containingName(base string) *entity.Airline {
	compact := strings.ReplaceAll(base, " ", "")
	for _, a := range d.airlines {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, base) || strings.Contains(strings.ReplaceAll(name, " ", ""), compact) {
			return a
		}
	}
	return nil
}

// Scan finds every known airline mentioned in query, in directory order, without duplicates
func (d *AirlineDirectory) Scan(query string) []*entity.Airline {
	if d == nil {
		return nil
	}
	q := utils.NormalizeQuery(query)
	seen := make(map[string]bool)
	var found []*entity.Airline
	add := func(a *entity.Airline) {
		if a != nil && !seen[a.Code] {
			seen[a.Code] = true
			found = append(found, a)
		}
	}

	// Codes only count when typed upper-case, so "ai" or "uk" stay ordinary words
	for _, code := range airlineCodeRe.FindAllString(query, -1) {
		add(d.byCode[code])
	}

	for _, a := range d.airlines {
		if utils.ContainsPhrase(q, strings.ToLower(a.Name)) {
			add(a)
			continue
		}
		for _, alias := range a.Aliases {
			if utils.ContainsPhrase(q, strings.ToLower(alias)) {
				add(a)
				break
			}
		}
	}

	if len(found) == 0 {
		for _, v := range airlineVariants {
			if utils.ContainsPhrase(q, v.base) || utils.ContainsAnyPhrase(q, v.variations) {
				add(d.containingName(v.base))
			}
		}
	}
	return found
}

// Matches reports whether an offer carrier satisfies a mention, by code or by resolved name
func (d *AirlineDirectory) Matches(carrierCode, carrierName, mention string) bool {
	m := strings.TrimSpace(mention)
	if m == "" {
		return false
	}
	if strings.EqualFold(m, carrierCode) || (carrierName != "" && strings.EqualFold(m, carrierName)) {
		return true
	}
	if a := d.Resolve(m); a != nil {
		return strings.EqualFold(a.Code, carrierCode)
	}
	return false
}

// mentionsAirlineVocabulary reports whether q (normalized) names any airline in the variant table
func mentionsAirlineVocabulary(q string) bool {
	for _, v := range airlineVariants {
		if utils.ContainsPhrase(q, v.base) || utils.ContainsAnyPhrase(q, v.variations) {
			return true
		}
	}
	return false
}
