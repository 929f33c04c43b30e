// Package export turns a full-tree inventory into an encrypted XML file:
// the entries are serialized with encoding/xml and piped through gpg for
// the configured recipient. Plaintext never touches the disk.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

// xmlDocument is the root element of an export file.
type xmlDocument struct {
	XMLName xml.Name   `xml:"passwords"`
	Entries []xmlEntry `xml:"entry"`
}

// xmlEntry is one exported leaf: its tree path plus its field map.
type xmlEntry struct {
	Path   string     `xml:"path,attr"`
	Fields []xmlField `xml:"field"`
}

// xmlField is one name/value pair of a record.
type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// Write serializes the export set as indented XML. Fields are sorted by
// name so the output is deterministic for a given inventory.
func Write(w io.Writer, entries []vault.ExportEntry) error {
	doc := xmlDocument{Entries: make([]xmlEntry, 0, len(entries))}

	for _, entry := range entries {
		fields := make([]xmlField, 0, len(entry.Record))
		for name, value := range entry.Record {
			fields = append(fields, xmlField{Name: name, Value: value})
		}

		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

		doc.Entries = append(doc.Entries, xmlEntry{
			Path:   entry.Path.String(),
			Fields: fields,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: writing header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encoding: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: flushing encoder: %w", err)
	}

	return nil
}
