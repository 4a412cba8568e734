package network

import "errors"

// ErrPCAPUnsupported is returned by ReadPCAPFile when the binary was built
// without the pcap tag.
var ErrPCAPUnsupported = errors.New("PCAP support not compiled in (requires pcap build tag)")

// PCAPConfig selects which datagrams of a capture are replayed.
type PCAPConfig struct {
	File    string
	UDPPort int
	Sink    FrameSink
}
