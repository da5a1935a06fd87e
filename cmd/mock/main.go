package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

// envelope shapes the real service has been seen returning
const (
	shapeFullWrapper = iota
	shapeNoResult
	shapeBare
)

func calculateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !strings.Contains(string(body), "<emissionsRequest>") {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	time.Sleep(300 * time.Millisecond)

	km := rand.Float64()*9000 + 500
	tot := rand.Float64()*1500 + 100
	ops := tot * 0.8
	ene := tot - ops
	tkm := km * (rand.Float64()*2 + 0.1)

	shipment := fmt.Sprintf(`<shipment>
	<distanceKm>%.1f</distanceKm>
	<tkm>%.1f</tkm>
	<co2e>
		<tot>%.2f</tot>
		<ops>%.2f</ops>
		<ene>%.2f</ene>
		<totEiGrPerTkm>%.2f</totEiGrPerTkm>
	</co2e>
</shipment>`, km, tkm, tot, ops, ene, tot/tkm*1000)

	// vary the envelope nesting like the real service does
	var response string
	switch rand.Intn(3) {
	case shapeFullWrapper:
		response = "<emissionsResponse><result>" + shipment + "</result></emissionsResponse>"
	case shapeNoResult:
		response = "<emissionsResponse>" + shipment + "</emissionsResponse>"
	case shapeBare:
		response = shipment
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`+response)
}

type locationResult struct {
	Code        string `json:"code,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	City        string `json:"city,omitempty"`
}

func locationsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}

	var result locationResult
	switch r.URL.Query().Get("kind") {
	case "airport":
		result = locationResult{Code: fakeCode(query, 3)}
	case "seaport":
		result = locationResult{Code: strings.ToUpper(firstOr(r.URL.Query().Get("country"), "XX")) + fakeCode(query, 3)}
	case "address":
		result = locationResult{
			PostalCode:  fmt.Sprintf("%05d", rand.Intn(100000)),
			CountryCode: strings.ToUpper(firstOr(r.URL.Query().Get("country"), "DE")),
			City:        query,
		}
	default:
		http.Error(w, "Unknown kind", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": []locationResult{result}})
}

// fakeCode derives a stable pseudo carrier code from the query text
func fakeCode(query string, n int) string {
	letters := make([]byte, 0, n)
	for _, r := range strings.ToUpper(query) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, byte(r))
			if len(letters) == n {
				break
			}
		}
	}
	for len(letters) < n {
		letters = append(letters, byte('A'+rand.Intn(26)))
	}
	return string(letters)
}

func firstOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func main() {
	http.HandleFunc("/v1/calculate", calculateHandler)
	http.HandleFunc("/v1/locations", locationsHandler)
	log.Println("Mock server running on :8081")
	log.Fatal(http.ListenAndServe(":8081", nil))
}
