package domain

import (
	"math"
	"sort"
)

// RegionImpact is the aggregated view of all incidents in one region.
// Values are recomputed in full by Aggregate and never updated in place.
type RegionImpact struct {
	Region               string           `json:"region"`
	TotalIncidents       int              `json:"total_incidents"`
	TotalAffected        int              `json:"total_affected"`
	TotalDamage          float64          `json:"total_damage"`
	AverageResponseHours float64          `json:"average_response_hours"`
	Coordinates          Coordinates      `json:"coordinates"`
	MapURL               string           `json:"map_url"`
	RecentIncidents      []IncidentRecord `json:"recent_incidents"`
	CurrentConditions    WeatherSnapshot  `json:"current_conditions"`
}

// Aggregate folds records into per-region impacts ordered by incident count,
// highest first. Regions with equal counts keep the order in which they first
// appeared in records. Regions missing from the coordinate table get (0,0);
// regions missing from currentWeatherByRegion get DefaultWeatherSnapshot.
//
// Aggregate never fails: negative or non-finite numbers are summed as-is.
func Aggregate(records []IncidentRecord, currentWeatherByRegion map[string]WeatherSnapshot) []RegionImpact {
	impacts := make([]RegionImpact, 0)
	index := make(map[string]int)
	responseTotals := make([]float64, 0)

	for _, rec := range records {
		i, ok := index[rec.Region]
		if !ok {
			coords, _ := LookupCoordinates(rec.Region)
			conditions, found := currentWeatherByRegion[rec.Region]
			if !found {
				conditions = DefaultWeatherSnapshot()
			}
			impacts = append(impacts, RegionImpact{
				Region:            rec.Region,
				Coordinates:       coords,
				MapURL:            MapSearchURL(coords),
				RecentIncidents:   []IncidentRecord{},
				CurrentConditions: conditions,
			})
			responseTotals = append(responseTotals, 0)
			i = len(impacts) - 1
			index[rec.Region] = i
		}

		p := &impacts[i]
		p.TotalIncidents++
		p.TotalAffected += rec.AffectedCount
		p.TotalDamage += rec.DamageEstimate
		p.RecentIncidents = append(p.RecentIncidents, rec)
		responseTotals[i] += rec.ResponseHours
	}

	for i := range impacts {
		impacts[i].AverageResponseHours = RoundHalfUp(responseTotals[i] / float64(impacts[i].TotalIncidents))
	}

	sort.SliceStable(impacts, func(a, b int) bool {
		return impacts[a].TotalIncidents > impacts[b].TotalIncidents
	})
	return impacts
}

// RoundHalfUp rounds to the nearest integer with halves going toward +Inf,
// so -2.5 becomes -2 and 2.5 becomes 3. NaN and infinities pass through.
func RoundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return f
}
