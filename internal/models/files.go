package models

import "altesse/internal/hydrate"

// FileData is a file dropped onto the window, content included
type FileData struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

func (f *FileData) HydrateFields(src hydrate.Source) {
	f.Name = hydrate.String(src.Get("name"))
	f.Content = hydrate.Bytes(src.Get("content"))
}

// NewFileDataFrom hydrates a FileData from a decoded value or JSON text
func NewFileDataFrom(raw any) (*FileData, error) {
	return hydrate.Hydrate[FileData](raw)
}

// NewFileDataListFrom hydrates the list of dropped files
func NewFileDataListFrom(raw any) ([]*FileData, error) {
	return hydrate.HydrateSlice[FileData](raw)
}

// OptionRename defines a batch rename
type OptionRename struct {
	NewName     string `json:"NewName"`
	Prefix      string `json:"Prefix"`
	Suffix      string `json:"Suffix"`
	Replace     string `json:"Replace"`
	With        string `json:"With"`
	StartNumber int    `json:"StartNumber"`
	Padding     int    `json:"Padding"`
}

func (o *OptionRename) HydrateFields(src hydrate.Source) {
	o.NewName = hydrate.String(src.Get("NewName"))
	o.Prefix = hydrate.String(src.Get("Prefix"))
	o.Suffix = hydrate.String(src.Get("Suffix"))
	o.Replace = hydrate.String(src.Get("Replace"))
	o.With = hydrate.String(src.Get("With"))
	o.StartNumber = hydrate.Num[int](src.Get("StartNumber"))
	o.Padding = hydrate.Num[int](src.Get("Padding"))
}

// RenameRequest pairs the paths to rename with their options
type RenameRequest struct {
	Paths   []string      `json:"paths"`
	Options *OptionRename `json:"options"`
}

func (r *RenameRequest) HydrateFields(src hydrate.Source) {
	r.Paths = hydrate.List(src.Get("paths"), hydrate.String)
	r.Options = hydrate.One[OptionRename](src.Get("options"))
}

// NewRenameRequestFrom hydrates a RenameRequest from a decoded value or JSON text
func NewRenameRequestFrom(raw any) (*RenameRequest, error) {
	return hydrate.Hydrate[RenameRequest](raw)
}

// DuplicateSearch asks for a duplicate scan below Root
type DuplicateSearch struct {
	Root string `json:"root"`
}

func (d *DuplicateSearch) HydrateFields(src hydrate.Source) {
	d.Root = hydrate.String(src.Get("root"))
}

// NewDuplicateSearchFrom hydrates a DuplicateSearch from a decoded value or JSON text
func NewDuplicateSearchFrom(raw any) (*DuplicateSearch, error) {
	return hydrate.Hydrate[DuplicateSearch](raw)
}

// DuplicateGroups maps a content hash to every path sharing it
type DuplicateGroups map[string][]string

// NewDuplicateGroupsFrom hydrates a map-shaped duplicate scan result
func NewDuplicateGroupsFrom(raw any) (DuplicateGroups, error) {
	v, err := hydrate.Decode(raw)
	if err != nil {
		return nil, err
	}
	return hydrate.Dict(v, func(paths any) []string {
		return hydrate.List(paths, hydrate.String)
	}), nil
}
