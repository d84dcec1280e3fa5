package models

import "altesse/internal/hydrate"

// MemoryMinimalInfo represents RAM usage in bytes
type MemoryMinimalInfo struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

func (m *MemoryMinimalInfo) HydrateFields(src hydrate.Source) {
	m.Total = hydrate.Num[uint64](src.Get("total"))
	m.Used = hydrate.Num[uint64](src.Get("used"))
	m.Free = hydrate.Num[uint64](src.Get("free"))
	m.Percent = hydrate.Num[float64](src.Get("percent"))
}

// NewMemoryMinimalInfoFrom hydrates a MemoryMinimalInfo from a decoded value or JSON text
func NewMemoryMinimalInfoFrom(raw any) (*MemoryMinimalInfo, error) {
	return hydrate.Hydrate[MemoryMinimalInfo](raw)
}

// SystemMinimalInfo combines the system widget metrics
type SystemMinimalInfo struct {
	CPU    *CPUMinimalInfo    `json:"cpu"`
	Memory *MemoryMinimalInfo `json:"memory"`
	Disk   []*DiskMinimalInfo `json:"disk"`
}

func (s *SystemMinimalInfo) HydrateFields(src hydrate.Source) {
	s.CPU = hydrate.One[CPUMinimalInfo](src.Get("cpu"))
	s.Memory = hydrate.One[MemoryMinimalInfo](src.Get("memory"))
	s.Disk = hydrate.Many[DiskMinimalInfo](src.Get("disk"))
}

// NewSystemMinimalInfoFrom hydrates a SystemMinimalInfo from a decoded value or JSON text
func NewSystemMinimalInfoFrom(raw any) (*SystemMinimalInfo, error) {
	return hydrate.Hydrate[SystemMinimalInfo](raw)
}
