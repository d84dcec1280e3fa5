package models

import "altesse/internal/hydrate"

// Options carries the encoder settings picked in the converter panel.
// Wire keys keep the Go field names.
type Options struct {
	Format       string `json:"Format"`
	Quality      int    `json:"Quality"`      // JPEG, WebP, AVIF
	Lossless     bool   `json:"Lossless"`     // WebP, AVIF
	PNGLevel     int    `json:"PNGLevel"`     // 0-9
	TIFFCompress int    `json:"TIFFCompress"` // Deflate, LZW...
}

func (o *Options) HydrateFields(src hydrate.Source) {
	o.Format = hydrate.String(src.Get("Format"))
	o.Quality = hydrate.Num[int](src.Get("Quality"))
	o.Lossless = hydrate.Bool(src.Get("Lossless"))
	o.PNGLevel = hydrate.Num[int](src.Get("PNGLevel"))
	o.TIFFCompress = hydrate.Num[int](src.Get("TIFFCompress"))
}

// NewOptionsFrom hydrates Options from a decoded value or JSON text
func NewOptionsFrom(raw any) (*Options, error) {
	return hydrate.Hydrate[Options](raw)
}

// ConversionProgress is emitted after each converted file
type ConversionProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Path    string `json:"path"`
	Output  string `json:"output,omitempty"`
}

func (p *ConversionProgress) HydrateFields(src hydrate.Source) {
	p.Current = hydrate.Num[int](src.Get("current"))
	p.Total = hydrate.Num[int](src.Get("total"))
	p.Path = hydrate.String(src.Get("path"))
	p.Output = hydrate.String(src.Get("output"))
}

// NewConversionProgressFrom hydrates a ConversionProgress event payload
func NewConversionProgressFrom(raw any) (*ConversionProgress, error) {
	return hydrate.Hydrate[ConversionProgress](raw)
}
