package models

import "altesse/internal/hydrate"

// DiskMinimalInfo represents usage of a single mounted partition
type DiskMinimalInfo struct {
	Mountpoint string  `json:"mountpoint"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Percent    float64 `json:"percent"`
}

func (d *DiskMinimalInfo) HydrateFields(src hydrate.Source) {
	d.Mountpoint = hydrate.String(src.Get("mountpoint"))
	d.Total = hydrate.Num[uint64](src.Get("total"))
	d.Used = hydrate.Num[uint64](src.Get("used"))
	d.Percent = hydrate.Num[float64](src.Get("percent"))
}

// NewDiskMinimalInfoFrom hydrates a DiskMinimalInfo from a decoded value or JSON text
func NewDiskMinimalInfoFrom(raw any) (*DiskMinimalInfo, error) {
	return hydrate.Hydrate[DiskMinimalInfo](raw)
}

// NewDiskMinimalInfoListFrom hydrates a list of partitions
func NewDiskMinimalInfoListFrom(raw any) ([]*DiskMinimalInfo, error) {
	return hydrate.HydrateSlice[DiskMinimalInfo](raw)
}
