// Package domain models agricultural emergency incidents and the per-region
// impact summaries derived from them.
//
// # Incidents
//
// An [IncidentRecord] is one reported emergency in one region. Records arrive
// as JSON on the source topic:
//
//	{"id":"2","region":"KwaZulu-Natal","category":"Flash Flooding",
//	 "severity":"critical","occurred_at":"2024-12-10",
//	 "coordinates":{"lat":-29.8587,"lng":31.0218},
//	 "affected_count":35000,"damage_estimate":8000000,
//	 "response_hours":2,"status":"resolved"}
//
// Severity is one of low, medium, high, critical. Status is one of pending,
// responding, resolved. Any other value fails decoding; the sets are closed.
// Category is free text and is never validated.
//
// # Regions
//
// Regions are the nine South African provinces. The static table in
// regions.go supplies coordinates; names outside the table aggregate normally
// but are placed at (0,0).
//
// # Aggregation
//
// [Aggregate] is a pure fold: it is recomputed from scratch whenever the
// incident set or the weather snapshots change. There is no incremental
// update. Output is ordered by incident count, highest first, with ties kept
// in first-seen order.
//
// Averages round half up (toward +Inf): 2.5h becomes 3h.
//
// # Weather
//
// Current conditions come from a [WeatherProvider]. Regions without an
// observation fall back to [DefaultWeatherSnapshot].
package domain
