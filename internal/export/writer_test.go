package export

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

func sampleEntries() []vault.ExportEntry {
	return []vault.ExportEntry{
		{
			Path:   vault.ParsePath("accounts/Email"),
			Record: vault.Record{"Username": "me@example.com", "Password": "s3cret"},
		},
		{
			Path:   vault.ParsePath("misc"),
			Record: vault.Record{"Password": "p3"},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries()))

	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<entry path="accounts/Email">`)
	assert.Contains(t, out, `<entry path="misc">`)
	assert.Contains(t, out, `<field name="Password">s3cret</field>`)
	assert.Contains(t, out, `<field name="Username">me@example.com</field>`)
}

func TestWrite_FieldsSortedByName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries()))

	out := buf.String()

	// "Password" sorts before "Username" regardless of map iteration order.
	assert.Less(t, strings.Index(out, `name="Password"`), strings.Index(out, `name="Username"`))
}

func TestWrite_RoundTripsThroughDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries()))

	var doc struct {
		Entries []struct {
			Path   string `xml:"path,attr"`
			Fields []struct {
				Name  string `xml:"name,attr"`
				Value string `xml:",chardata"`
			} `xml:"field"`
		} `xml:"entry"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Entries, 2)
	assert.Equal(t, "accounts/Email", doc.Entries[0].Path)
	require.Len(t, doc.Entries[0].Fields, 2)
	assert.Equal(t, "s3cret", doc.Entries[0].Fields[0].Value)
}

func TestWrite_EscapesSpecialCharacters(t *testing.T) {
	entries := []vault.ExportEntry{
		{
			Path:   vault.ParsePath("odd"),
			Record: vault.Record{"Password": `a<b&"c"`},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))

	assert.Contains(t, buf.String(), "a&lt;b&amp;")
	assert.NotContains(t, buf.String(), `>a<b&`)
}
