// Command genfixture writes the built-in sample incidents and the region
// impacts they aggregate to as JSON fixtures. The incidents file doubles as
// the seed for local Kafka runs and the input for cmd/validate.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -incidents-out data/fixtures/incidents.json \
//	  -impacts-out data/fixtures/impacts.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	incidentsOut := flag.String("incidents-out", "", "output path for the incidents JSON fixture")
	impactsOut := flag.String("impacts-out", "", "output path for the aggregated impacts JSON fixture")
	flag.Parse()

	if *incidentsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -incidents-out")
	}

	incidents := domain.SampleIncidents()
	for _, rec := range incidents {
		if err := domain.ValidateIncident(rec); err != nil {
			return fmt.Errorf("sample dataset: %w", err)
		}
	}

	if err := writeJSON(*incidentsOut, incidents); err != nil {
		return fmt.Errorf("writing incidents fixture: %w", err)
	}
	log.Printf("wrote incidents fixture: %s (%d records)", *incidentsOut, len(incidents))

	impacts := domain.Aggregate(incidents, nil)
	if *impactsOut != "" {
		if err := writeJSON(*impactsOut, impacts); err != nil {
			return fmt.Errorf("writing impacts fixture: %w", err)
		}
		log.Printf("wrote impacts fixture: %s (%d regions)", *impactsOut, len(impacts))
	}

	printStats(incidents)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(incidents []domain.IncidentRecord) {
	s := domain.Summarize(incidents)
	log.Printf("incidents=%d affected=%d damage=%.0f avg_response_hours=%.0f",
		s.TotalIncidents, s.TotalAffected, s.TotalDamage, s.AverageResponseHours)

	log.Println("by severity:")
	for _, sc := range domain.SeverityBreakdown(incidents) {
		log.Printf("  %-10s %d", sc.Severity, sc.Count)
	}
	log.Println("by month:")
	for _, m := range domain.MonthlyTrends(incidents) {
		log.Printf("  %-8s incidents=%d affected=%d", m.Month, m.Incidents, m.Affected)
	}
}
