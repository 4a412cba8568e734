// Package network delivers per-cycle sensor frames to the perception core
// from a live UDP socket or a packet capture.
//
// Each datagram carries one JSON-encoded world.Frame. Decoding failures are
// counted and logged; they never stop the listener.
//
// Dependency rule: network may import world (for the frame type) and
// monitoring. The perception packages never import network.
package network
