// Package loadgen drives synthetic marketplace traffic: a sinusoidal schedule of
// virtual users, each picking weighted endpoints and pausing for exponentially
// distributed think times between requests.
package loadgen
