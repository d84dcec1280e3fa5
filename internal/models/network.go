package models

import "altesse/internal/hydrate"

// NetworkMinimalInfo represents counters combined over all interfaces
type NetworkMinimalInfo struct {
	BytesSent   uint64 `json:"bytesSent"`
	BytesRecv   uint64 `json:"bytesRecv"`
	PacketsSent uint64 `json:"packetsSent"`
	PacketsRecv uint64 `json:"packetsRecv"`
}

func (n *NetworkMinimalInfo) HydrateFields(src hydrate.Source) {
	n.BytesSent = hydrate.Num[uint64](src.Get("bytesSent"))
	n.BytesRecv = hydrate.Num[uint64](src.Get("bytesRecv"))
	n.PacketsSent = hydrate.Num[uint64](src.Get("packetsSent"))
	n.PacketsRecv = hydrate.Num[uint64](src.Get("packetsRecv"))
}

// NewNetworkMinimalInfoFrom hydrates a NetworkMinimalInfo from a decoded value or JSON text
func NewNetworkMinimalInfoFrom(raw any) (*NetworkMinimalInfo, error) {
	return hydrate.Hydrate[NetworkMinimalInfo](raw)
}
