package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flightassist-service/internal/domain/entity"
)

func chatCompletionHandler(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1720000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}
}

func TestOpenAIOracle_ExtractParameters(t *testing.T) {
	content := "```json\n{\"origin\":\"DEL\",\"destination\":\"BOM\",\"departure_date\":\"2025-07-05\",\"passengers\":1,\"cabin_class\":\"ECONOMY\",\"filters\":{\"direct_only\":true}}\n```"
	srv := httptest.NewServer(chatCompletionHandler(t, content))
	defer srv.Close()

	o := NewOpenAIOracle("test-key", "gpt-3.5-turbo", srv.URL+"/v1", 5*time.Second)
	got, err := o.ExtractParameters(context.Background(), "delhi to mumbai tomorrow", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ExtractParameters: %v", err)
	}
	if got.Origin != "DEL" || got.Destination != "BOM" || got.DepartureDate != "2025-07-05" {
		t.Errorf("got %+v", got)
	}
	if got.Filters == nil || !got.Filters.DirectOnly {
		t.Errorf("filters = %+v", got.Filters)
	}
}

func TestOpenAIOracle_ExtractFilters(t *testing.T) {
	content := `{"filters":{"specific_airlines":["SpiceJet"],"max_price":5000},"cabin_class":"BUSINESS"}`
	srv := httptest.NewServer(chatCompletionHandler(t, content))
	defer srv.Close()

	o := NewOpenAIOracle("test-key", "gpt-3.5-turbo", srv.URL+"/v1", 5*time.Second)
	got, err := o.ExtractFilters(context.Background(), "spicejet under 5000 business")
	if err != nil {
		t.Fatalf("ExtractFilters: %v", err)
	}
	if len(got.Filters.SpecificAirlines) != 1 || got.Filters.MaxPrice == nil || *got.Filters.MaxPrice != 5000 {
		t.Errorf("filters = %+v", got.Filters)
	}
	if got.CabinClass != "BUSINESS" {
		t.Errorf("cabin = %q", got.CabinClass)
	}
}

func TestOpenAIOracle_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(chatCompletionHandler(t, "Sure! Here are your flights."))
	defer srv.Close()

	o := NewOpenAIOracle("test-key", "gpt-3.5-turbo", srv.URL+"/v1", 5*time.Second)
	_, err := o.ExtractParameters(context.Background(), "anything", time.Now())
	if !errors.Is(err, entity.ErrExtractionProvider) {
		t.Errorf("err = %v, want ErrExtractionProvider", err)
	}
}

func TestOpenAIOracle_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAIOracle("test-key", "gpt-3.5-turbo", srv.URL+"/v1", 5*time.Second)
	_, err := o.ExtractFilters(context.Background(), "direct only")
	if !errors.Is(err, entity.ErrExtractionProvider) {
		t.Errorf("err = %v, want ErrExtractionProvider", err)
	}
}

func TestDecodeParameters_MissingLocation(t *testing.T) {
	got, err := decodeParameters("test", `{"error": "missing_location"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != entity.OracleErrorMissingLocation {
		t.Errorf("error marker = %q", got.Error)
	}
}

func TestBuildExtractionPrompt_AnchorsDates(t *testing.T) {
	prompt := buildExtractionPrompt(time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC))
	for _, want := range []string{"today is 2025-07-04", "= 2025-07-05", "= 2025-07-11", "= 2025-08-18", "= 2025-08-15"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
