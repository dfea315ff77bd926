// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package models

import "time"

// Time-of-day buckets derived from the pickup hour.
const (
	TimeOfDayMorning   = "Morning"   // 05:00-11:59
	TimeOfDayAfternoon = "Afternoon" // 12:00-16:59
	TimeOfDayEvening   = "Evening"   // 17:00-20:59
	TimeOfDayNight     = "Night"     // 21:00-04:59
)

// TimeOfDay returns the bucket for a pickup hour (0-23).
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// Zone is a taxi zone from the zone lookup table.
type Zone struct {
	LocationID  int    `json:"location_id"`
	Borough     string `json:"borough"`
	ZoneName    string `json:"zone_name"`
	ServiceZone string `json:"service_zone"`
}

// Trip is a cleaned trip record with its derived features.
type Trip struct {
	ID                  int64     `json:"id"`
	PickupDatetime      time.Time `json:"pickup_datetime"`
	DropoffDatetime     time.Time `json:"dropoff_datetime"`
	PassengerCount      int       `json:"passenger_count"`
	TripDistance        float64   `json:"trip_distance"`
	PULocationID        int       `json:"pu_location_id"`
	DOLocationID        int       `json:"do_location_id"`
	FareAmount          float64   `json:"fare_amount"`
	TipAmount           *float64  `json:"tip_amount"`
	TotalAmount         *float64  `json:"total_amount"`
	PaymentType         *int      `json:"payment_type"`
	TripDurationMinutes float64   `json:"trip_duration_minutes"`
	SpeedMPH            float64   `json:"speed_mph"`
	FarePerMile         float64   `json:"fare_per_mile"`
	PickupHour          int       `json:"pickup_hour"`
	TimeOfDay           string    `json:"time_of_day"`
	IsWeekend           bool      `json:"is_weekend"`
}

// TripDetail is a trip joined with its pickup and dropoff zone names.
// Zone fields are nil when the location id has no zone row.
type TripDetail struct {
	Trip
	PickupZone     *string `json:"pickup_zone"`
	PickupBorough  *string `json:"pickup_borough"`
	DropoffZone    *string `json:"dropoff_zone"`
	DropoffBorough *string `json:"dropoff_borough"`
}
