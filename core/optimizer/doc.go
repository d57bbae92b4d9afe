// Package optimizer searches team configurations for the one that performs
// best across a battery of seeded scenarios.
//
// Trials (configuration x scenario) are independent and run concurrently on
// a bounded worker pool. Results are aggregated only after every trial has
// joined, and ranking is stable, so identical inputs always produce the same
// report.
package optimizer
