// Package events defines the simulation and optimizer events emitted on the
// event bus.
//
// Available event types:
//   - TickEvent: one live simulation tick of a group
//   - GroupDoneEvent: a live group reached its terminal state
//   - TrialEvent: one optimizer trial finished
//   - RankingEvent: an optimization run was ranked
package events
