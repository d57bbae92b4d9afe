// Package mqtt declares the contract used to stream live simulation
// snapshots to an external renderer.
package mqtt

import "errors"

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt: not connected")

// SnapshotPublisher publishes the state of one simulation group. The payload
// is encoded by the implementation.
type SnapshotPublisher interface {
	PublishSnapshot(group string, snapshot any) error
}

// Topic builds the topic for a group below prefix.
func Topic(prefix, group string) string {
	if prefix == "" {
		prefix = "rescuesim"
	}
	return prefix + "/" + group + "/snapshot"
}
