//go:build pcap
// +build pcap

package network

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ReadPCAPFile replays every UDP datagram on cfg.UDPPort in the capture
// into cfg.Sink, in capture order.
func ReadPCAPFile(ctx context.Context, cfg PCAPConfig) (StatsSnapshot, error) {
	var stats Stats

	handle, err := pcap.OpenOffline(cfg.File)
	if err != nil {
		return stats.Snapshot(), fmt.Errorf("failed to open PCAP file %s: %w", cfg.File, err)
	}
	defer handle.Close()

	filterStr := fmt.Sprintf("udp port %d", cfg.UDPPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return stats.Snapshot(), fmt.Errorf("failed to set BPF filter '%s': %w", filterStr, err)
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	startTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return stats.Snapshot(), ctx.Err()
		case packet := <-packetSource.Packets():
			if packet == nil {
				s := stats.Snapshot()
				log.Printf("PCAP replay complete: %d packets, %d frames in %v", s.Packets, s.Frames, time.Since(startTime))
				return s, nil
			}
			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			udp, ok := udpLayer.(*layers.UDP)
			if !ok || len(udp.Payload) == 0 {
				continue
			}
			deliver(udp.Payload, cfg.Sink, &stats)
		}
	}
}
