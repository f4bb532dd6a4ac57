package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/pkg/utils"
)

// buildExtractionPrompt constructs the full-pass instructions with dates anchored at reference.
func buildExtractionPrompt(reference time.Time) string {
	parser := utils.NewDateParser()
	day := func(expr string) string {
		d, _ := parser.ParseDate(expr, reference)
		return d.Format(entity.DateLayout)
	}
	augustExample := day("august 18")

	return fmt.Sprintf(`You are a flight search assistant. Extract flight search parameters from user queries.

IMPORTANT: Handle spelling mistakes intelligently. Common misspellings to recognize:
- "tommorow", "tommorrow", "tomorow", "tomorrrow", "tomarow" = "tomorrow"
- "deli", "dehli" = "Delhi"
- "mumbay", "bombay" = "Mumbai"
- "bangalor", "banglore" = "Bangalore"
- "chenai", "channai" = "Chennai"
- "kochi", "cochin" = "Kochi"

Return ONLY valid JSON with these fields:
{
  "origin": "airport_code",
  "destination": "airport_code",
  "departure_date": "YYYY-MM-DD",
  "passengers": 1,
  "cabin_class": "ECONOMY",
  "filters": {
    "direct_only": false,
    "specific_airlines": [],
    "exclude_airlines": [],
    "max_price": null,
    "preferred_times": [],
    "max_stops": null,
    "preferred_airlines": []
  }
}

Airport codes:
Delhi=DEL, Mumbai=BOM, Bangalore=BLR, Chennai=MAA, Kolkata=CCU,
Hyderabad=HYD, Pune=PNQ, Ahmedabad=AMD, Kochi=COK, Goa=GOI, Jaipur=JAI, Lucknow=LKO

For dates (today is %s):
- "tomorrow" or any misspelling = %s
- "today" = %s
- "next week" = %s
- "August 18" = %s
- "next month" = %s

CABIN CLASS DETECTION:
- "business class", "business", "premium" = "BUSINESS"
- "first class", "first", "luxury" = "FIRST"
- "economy class", "economy", "coach" = "ECONOMY"
- Default to "ECONOMY" only if no cabin keyword is present

SPECIAL HANDLING:
- If the query has cities but no date, omit "departure_date"
- If you cannot extract origin and destination, return {"error": "missing_location"}
- preferred_times values are "morning", "afternoon" or "evening"
- Airline names in filters use their common English name, for example "Air India", "IndiGo"

Return ONLY the JSON, no other text.`,
		reference.Format(entity.DateLayout),
		day("tomorrow"),
		reference.Format(entity.DateLayout),
		day("next week"),
		augustExample,
		day("next month"),
	)
}

const filterPrompt = `You are a flight filter extraction assistant. Extract ONLY filters from the user query.

Return ONLY valid JSON with these fields:
{
  "filters": {
    "direct_only": false,
    "specific_airlines": [],
    "max_price": null,
    "preferred_times": [],
    "exclude_airlines": [],
    "max_stops": null,
    "preferred_airlines": []
  },
  "cabin_class": "ECONOMY"
}

FILTER DETECTION:
- "spicejet flights only", "only spicejet", "spice jet flights" = specific_airlines: ["SpiceJet"]
- "air india flights only", "only air india", "airindia flights" = specific_airlines: ["Air India"]
- "qatar airways flights", "qatar flights only" = specific_airlines: ["Qatar Airways"]
- "emirates flights only", "only emirates" = specific_airlines: ["Emirates"]
- "indigo flights only", "only indigo" = specific_airlines: ["IndiGo"]
- "vistara flights", "only vistara" = specific_airlines: ["Vistara"]
- "direct flights only", "direct only", "non-stop only" = direct_only: true
- "under 5000", "less than 5000" = max_price: 5000
- "morning flights", "early morning" = preferred_times: ["morning"]
- "evening flights", "night flights" = preferred_times: ["evening"]
- "no air india", "exclude air india" = exclude_airlines: ["Air India"]
- "maximum 1 stop", "max 1 stop" = max_stops: 1
- "prefer air india", "preferably air india" = preferred_airlines: ["Air India"]

CABIN CLASS DETECTION:
- "business class", "business" = cabin_class: "BUSINESS"
- "economy class", "economy" = cabin_class: "ECONOMY"
- "first class", "first" = cabin_class: "FIRST"
- No cabin keyword = cabin_class: ""

Return ONLY the JSON, no other text.`

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

func decodeParameters(backend, raw string) (*entity.OracleResult, error) {
	cleaned := cleanJSONString(raw)
	var result entity.OracleResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %s returned malformed JSON: %v", entity.ErrExtractionProvider, backend, err)
	}
	return &result, nil
}

func decodeFilters(backend, raw string) (*entity.FilterResult, error) {
	cleaned := cleanJSONString(raw)
	var result entity.FilterResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %s returned malformed filter JSON: %v", entity.ErrExtractionProvider, backend, err)
	}
	return &result, nil
}
