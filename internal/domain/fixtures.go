package domain

import "time"

// SampleIncidents returns the built-in incident dataset the dashboard starts
// with. Each call returns a fresh slice.
func SampleIncidents() []IncidentRecord {
	return []IncidentRecord{
		{
			ID:             "1",
			Region:         "Western Cape",
			Category:       "Severe Drought",
			Severity:       SeverityCritical,
			OccurredAt:     NewDate(2024, time.December, 15),
			Coordinates:    Coordinates{Lat: -33.2277, Lng: 21.8569},
			AffectedCount:  25000,
			DamageEstimate: 4500000,
			ResponseHours:  6,
			Status:         StatusResponding,
			Description:    "Extended drought affecting agricultural areas after high temperatures and low rainfall",
			ConditionsAtIncident: &IncidentConditions{
				Temperature: 32, Humidity: 25, WindSpeed: 15, Rainfall: 0,
			},
		},
		{
			ID:             "2",
			Region:         "KwaZulu-Natal",
			Category:       "Flash Flooding",
			Severity:       SeverityCritical,
			OccurredAt:     NewDate(2024, time.December, 10),
			Coordinates:    Coordinates{Lat: -29.8587, Lng: 31.0218},
			AffectedCount:  35000,
			DamageEstimate: 8000000,
			ResponseHours:  2,
			Status:         StatusResolved,
			Description:    "Heavy rainfall causing flash floods in coastal areas",
			ConditionsAtIncident: &IncidentConditions{
				Temperature: 26, Humidity: 88, WindSpeed: 22, Rainfall: 15.3,
			},
		},
		{
			ID:             "3",
			Region:         "Free State",
			Category:       "Severe Hail Storm",
			Severity:       SeverityHigh,
			OccurredAt:     NewDate(2024, time.December, 8),
			Coordinates:    Coordinates{Lat: -29.1217, Lng: 26.2041},
			AffectedCount:  12000,
			DamageEstimate: 2800000,
			ResponseHours:  4,
			Status:         StatusResolved,
			Description:    "Destructive hail storm causing crop damage in agricultural regions",
			ConditionsAtIncident: &IncidentConditions{
				Temperature: 24, Humidity: 82, WindSpeed: 18, Rainfall: 8.1,
			},
		},
		{
			ID:             "4",
			Region:         "Gauteng",
			Category:       "Severe Thunderstorm",
			Severity:       SeverityHigh,
			OccurredAt:     NewDate(2024, time.December, 5),
			Coordinates:    Coordinates{Lat: -26.2041, Lng: 28.0473},
			AffectedCount:  18000,
			DamageEstimate: 3200000,
			ResponseHours:  3,
			Status:         StatusResolved,
			Description:    "Thunderstorm with lightning and localized flooding in urban areas",
		},
		{
			ID:             "5",
			Region:         "Eastern Cape",
			Category:       "Wildfire Emergency",
			Severity:       SeverityCritical,
			OccurredAt:     NewDate(2024, time.December, 1),
			Coordinates:    Coordinates{Lat: -33.0117, Lng: 27.9116},
			AffectedCount:  8000,
			DamageEstimate: 5500000,
			ResponseHours:  8,
			Status:         StatusResponding,
			Description:    "Wildfire spreading through grazing land driven by dry winds",
		},
		{
			ID:             "6",
			Region:         "Limpopo",
			Category:       "Heat Wave Alert",
			Severity:       SeverityHigh,
			OccurredAt:     NewDate(2024, time.November, 28),
			Coordinates:    Coordinates{Lat: -23.4013, Lng: 29.4179},
			AffectedCount:  22000,
			DamageEstimate: 1800000,
			ResponseHours:  5,
			Status:         StatusResponding,
			Description:    "Prolonged heat wave stressing livestock and irrigation supply",
		},
		{
			ID:             "7",
			Region:         "Northern Cape",
			Category:       "Dust Storm",
			Severity:       SeverityMedium,
			OccurredAt:     NewDate(2024, time.November, 25),
			Coordinates:    Coordinates{Lat: -29.0467, Lng: 21.8569},
			AffectedCount:  5000,
			DamageEstimate: 800000,
			ResponseHours:  6,
			Status:         StatusResolved,
			Description:    "Dust storm reducing visibility on rural roads",
		},
		{
			ID:             "8",
			Region:         "Mpumalanga",
			Category:       "Dense Fog Emergency",
			Severity:       SeverityMedium,
			OccurredAt:     NewDate(2024, time.November, 20),
			Coordinates:    Coordinates{Lat: -25.5653, Lng: 30.5279},
			AffectedCount:  7000,
			DamageEstimate: 600000,
			ResponseHours:  4,
			Status:         StatusResolved,
			Description:    "Dense fog disrupting transport of produce",
		},
		{
			ID:             "9",
			Region:         "North West",
			Category:       "Wind Storm",
			Severity:       SeverityMedium,
			OccurredAt:     NewDate(2024, time.November, 18),
			Coordinates:    Coordinates{Lat: -26.6638, Lng: 25.2837},
			AffectedCount:  9000,
			DamageEstimate: 1200000,
			ResponseHours:  5,
			Status:         StatusResolved,
			Description:    "Wind storm damaging farm structures and power lines",
		},
	}
}
