//go:build !pcap
// +build !pcap

package network

import "context"

// ReadPCAPFile is a stub that returns an error when pcap support is not compiled in.
func ReadPCAPFile(ctx context.Context, cfg PCAPConfig) (StatsSnapshot, error) {
	return StatsSnapshot{}, ErrPCAPUnsupported
}
