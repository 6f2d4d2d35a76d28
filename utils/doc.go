// Package utils provides small shared helpers for the route planner.
//
// It contains:
//   - Great-circle distance in meters and walking time estimates
//   - Distance and travel time formatting
//   - Time-of-day conversion
package utils
