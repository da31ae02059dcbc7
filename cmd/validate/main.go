// Command validate checks an incidents JSON file the way the service would
// ingest it, then aggregates the accepted records and verifies the impact
// invariants. With -impacts it also compares a previously generated impacts
// fixture against a fresh aggregation.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -incidents data/fixtures/incidents.json \
//	  -impacts data/fixtures/impacts.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	incidentsPath := flag.String("incidents", "", "path to incidents JSON fixture")
	impactsPath := flag.String("impacts", "", "optional path to impacts JSON fixture")
	flag.Parse()

	if *incidentsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*incidentsPath, *impactsPath))
}

func run(incidentsPath, impactsPath string) int {
	fmt.Println("=== Incident Impact Validation ===")
	fmt.Println()

	messages, err := loadJSON[json.RawMessage](incidentsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load incidents: %v\n", err)
		return 1
	}

	ingest, records := validateRecords(messages)
	impacts := domain.Aggregate(records, nil)
	phases := []*phase{ingest, validateInvariants(records, impacts)}

	if impactsPath != "" {
		fixture, err := loadJSON[domain.RegionImpact](impactsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load impacts: %v\n", err)
			return 1
		}
		phases = append(phases, validateFixtureParity(fixture, impacts))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d in file, %d accepted, %d regions\n", len(messages), len(records), len(impacts))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// validateRecords parses and validates each message, returning the accepted
// records. Duplicate IDs are reported and only the first is kept.
func validateRecords(messages []json.RawMessage) (*phase, []domain.IncidentRecord) {
	p := &phase{name: "Phase 1: Record validation"}
	records := make([]domain.IncidentRecord, 0, len(messages))
	seen := make(map[string]int, len(messages))

	for i, msg := range messages {
		rec, err := domain.ParseIncident(domain.RawEvent{Value: msg})
		if err != nil {
			p.errorf("record %d: %v", i, err)
			continue
		}
		if err := domain.ValidateIncident(rec); err != nil {
			p.errorf("record %d: %v", i, err)
			continue
		}
		if first, dup := seen[rec.ID]; dup {
			p.errorf("record %d: duplicate id %q (first at %d)", i, rec.ID, first)
			continue
		}
		seen[rec.ID] = i
		records = append(records, rec)
	}
	return p, records
}

func validateInvariants(records []domain.IncidentRecord, impacts []domain.RegionImpact) *phase {
	p := &phase{name: "Phase 2: Aggregation invariants"}

	var incidents, affected int
	var damage float64
	regions := make(map[string]bool)
	for _, rec := range records {
		affected += rec.AffectedCount
		damage += rec.DamageEstimate
		regions[rec.Region] = true
	}

	if len(impacts) != len(regions) {
		p.errorf("impacts: got %d regions, want %d", len(impacts), len(regions))
	}

	var gotAffected int
	var gotDamage float64
	for i, impact := range impacts {
		incidents += impact.TotalIncidents
		gotAffected += impact.TotalAffected
		gotDamage += impact.TotalDamage

		if i > 0 && impacts[i-1].TotalIncidents < impact.TotalIncidents {
			p.errorf("order: %s (%d) follows %s (%d)", impact.Region, impact.TotalIncidents,
				impacts[i-1].Region, impacts[i-1].TotalIncidents)
		}
		if len(impact.RecentIncidents) != impact.TotalIncidents {
			p.errorf("%s: %d recent incidents for total %d", impact.Region, len(impact.RecentIncidents), impact.TotalIncidents)
		}
		var hours float64
		for _, rec := range impact.RecentIncidents {
			if rec.Region != impact.Region {
				p.errorf("%s: holds incident %s from %s", impact.Region, rec.ID, rec.Region)
			}
			hours += rec.ResponseHours
		}
		if impact.TotalIncidents > 0 {
			want := math.Floor(hours/float64(impact.TotalIncidents) + 0.5)
			if impact.AverageResponseHours != want {
				p.errorf("%s: average response %v, want %v", impact.Region, impact.AverageResponseHours, want)
			}
		}
		if c, ok := domain.LookupCoordinates(impact.Region); ok && c != impact.Coordinates {
			p.errorf("%s: coordinates %v differ from region table %v", impact.Region, impact.Coordinates, c)
		}
		if impact.MapURL != domain.MapSearchURL(impact.Coordinates) {
			p.errorf("%s: map url %q does not match coordinates", impact.Region, impact.MapURL)
		}
	}

	if incidents != len(records) {
		p.errorf("total incidents: got %d, want %d", incidents, len(records))
	}
	if gotAffected != affected {
		p.errorf("total affected: got %d, want %d", gotAffected, affected)
	}
	if math.Abs(gotDamage-damage) > 1e-6*math.Max(1, damage) {
		p.errorf("total damage: got %.2f, want %.2f", gotDamage, damage)
	}
	return p
}

func validateFixtureParity(fixture, fresh []domain.RegionImpact) *phase {
	p := &phase{name: "Phase 3: Impacts fixture parity"}
	if diff := cmp.Diff(fresh, fixture, cmpopts.EquateEmpty()); diff != "" {
		p.errorf("impacts fixture differs from fresh aggregation (-fresh +fixture):\n%s", diff)
	}
	return p
}
