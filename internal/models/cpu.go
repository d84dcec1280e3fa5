package models

import "altesse/internal/hydrate"

// CPUMinimalInfo represents the processor summary shown in the system widget
type CPUMinimalInfo struct {
	Name    string  `json:"name"`
	Cores   int     `json:"cores"`   // physical cores
	Threads int     `json:"threads"` // logical threads
	Mhz     float64 `json:"mhz"`     // average frequency
	Percent float64 `json:"percent"`
}

func (c *CPUMinimalInfo) HydrateFields(src hydrate.Source) {
	c.Name = hydrate.String(src.Get("name"))
	c.Cores = hydrate.Num[int](src.Get("cores"))
	c.Threads = hydrate.Num[int](src.Get("threads"))
	c.Mhz = hydrate.Num[float64](src.Get("mhz"))
	c.Percent = hydrate.Num[float64](src.Get("percent"))
}

// NewCPUMinimalInfoFrom hydrates a CPUMinimalInfo from a decoded value or JSON text
func NewCPUMinimalInfoFrom(raw any) (*CPUMinimalInfo, error) {
	return hydrate.Hydrate[CPUMinimalInfo](raw)
}
