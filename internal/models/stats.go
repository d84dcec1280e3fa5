package models

import "altesse/internal/hydrate"

// FormatStats holds the running totals for one output format
type FormatStats struct {
	Count        int   `json:"count"`
	OriginalSize int64 `json:"original_size"` // bytes before conversion
	FinalSize    int64 `json:"final_size"`    // bytes after conversion
}

func (f *FormatStats) HydrateFields(src hydrate.Source) {
	f.Count = hydrate.Num[int](src.Get("count"))
	f.OriginalSize = hydrate.Num[int64](src.Get("original_size"))
	f.FinalSize = hydrate.Num[int64](src.Get("final_size"))
}

// NewFormatStatsFrom hydrates a FormatStats from a decoded value or JSON text
func NewFormatStatsFrom(raw any) (*FormatStats, error) {
	return hydrate.Hydrate[FormatStats](raw)
}

// Stats is the persisted conversion statistics document
type Stats struct {
	TotalConverted   int                     `json:"total_converted"`
	Formats          map[string]*FormatStats `json:"formats"`
	TotalSavedInCD   int64                   `json:"total_saved_cd"`     // 700 MB CDs
	TotalSavedFloppy int64                   `json:"total_saved_floppy"` // 1.44 MB floppies
}

func (s *Stats) HydrateFields(src hydrate.Source) {
	s.TotalConverted = hydrate.Num[int](src.Get("total_converted"))
	s.Formats = hydrate.Keyed[FormatStats](src.Get("formats"))
	s.TotalSavedInCD = hydrate.Num[int64](src.Get("total_saved_cd"))
	s.TotalSavedFloppy = hydrate.Num[int64](src.Get("total_saved_floppy"))
}

// NewStatsFrom hydrates a Stats document. Formats is never nil on success.
func NewStatsFrom(raw any) (*Stats, error) {
	s, err := hydrate.Hydrate[Stats](raw)
	if err != nil {
		return nil, err
	}
	if s.Formats == nil {
		s.Formats = make(map[string]*FormatStats)
	}
	return s, nil
}

// TotalSizes sums original and compressed sizes over every format
func (s *Stats) TotalSizes() (original, compressed int64) {
	for _, f := range s.Formats {
		if f == nil {
			continue
		}
		original += f.OriginalSize
		compressed += f.FinalSize
	}
	return
}

// WidgetStats is the dashboard view of Stats
type WidgetStats struct {
	TotalConverted      int                     `json:"total_converted"`
	Formats             map[string]*FormatStats `json:"formats"`
	TotalSavedInCD      int64                   `json:"total_saved_cd"`
	TotalSavedFloppy    int64                   `json:"total_saved_floppy"`
	TotalOriginalSize   int64                   `json:"total_original_size"`
	TotalCompressedSize int64                   `json:"total_compressed_size"`
}

func (w *WidgetStats) HydrateFields(src hydrate.Source) {
	w.TotalConverted = hydrate.Num[int](src.Get("total_converted"))
	w.Formats = hydrate.Keyed[FormatStats](src.Get("formats"))
	w.TotalSavedInCD = hydrate.Num[int64](src.Get("total_saved_cd"))
	w.TotalSavedFloppy = hydrate.Num[int64](src.Get("total_saved_floppy"))
	w.TotalOriginalSize = hydrate.Num[int64](src.Get("total_original_size"))
	w.TotalCompressedSize = hydrate.Num[int64](src.Get("total_compressed_size"))
}

// NewWidgetStatsFrom hydrates a WidgetStats from a decoded value or JSON text
func NewWidgetStatsFrom(raw any) (*WidgetStats, error) {
	return hydrate.Hydrate[WidgetStats](raw)
}

// ConversionRecord is one finished conversion reported to the stats store
type ConversionRecord struct {
	Format       string `json:"format"`
	OriginalSize int64  `json:"original_size"`
	FinalSize    int64  `json:"final_size"`
}

func (c *ConversionRecord) HydrateFields(src hydrate.Source) {
	c.Format = hydrate.String(src.Get("format"))
	c.OriginalSize = hydrate.Num[int64](src.Get("original_size"))
	c.FinalSize = hydrate.Num[int64](src.Get("final_size"))
}

// NewConversionRecordFrom hydrates a ConversionRecord from a decoded value or JSON text
func NewConversionRecordFrom(raw any) (*ConversionRecord, error) {
	return hydrate.Hydrate[ConversionRecord](raw)
}
