package restclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONGrab(t *testing.T) {
	doc, err := ParseJSON([]byte(`{
		"product_version": "3.2.1",
		"results": [
			{"display_name": "tz-overlay", "transport_type": "OVERLAY"},
			{"display_name": "tz-vlan", "transport_type": "VLAN"}
		]
	}`))
	require.NoError(t, err)

	v, err := doc.GrabString("/product_version")
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", v)

	v, err = doc.GrabString("/results/1/display_name")
	require.NoError(t, err)
	assert.Equal(t, "tz-vlan", v)

	val, err := doc.Grab("/results/0")
	require.NoError(t, err)
	entry, ok := val.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "OVERLAY", entry["transport_type"])
}

func TestParseJSONUnknownPath(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"a":{"b":1}}`))
	require.NoError(t, err)

	_, err = doc.Grab("/a/c")
	assert.Error(t, err)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"unterminated": `))
	assert.Error(t, err)
}

func TestParseJSONNonScalarGrabString(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"results":[1,2]}`))
	require.NoError(t, err)

	_, err = doc.GrabString("/results")
	assert.Error(t, err)
}

func TestDocumentValue(t *testing.T) {
	doc, err := ParseJSON([]byte(`{"result_count": 2}`))
	require.NoError(t, err)

	val, err := doc.Value()
	require.NoError(t, err)
	m, ok := val.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2, m["result_count"])
}

const edgeSummariesXML = `<?xml version="1.0" encoding="UTF-8"?>
<pagedEdgeList>
  <edgePage>
    <edgeSummary>
      <objectId>edge-1</objectId>
      <name>gw-dmz</name>
    </edgeSummary>
    <edgeSummary>
      <objectId>edge-2</objectId>
      <name>gw-prod</name>
    </edgeSummary>
  </edgePage>
</pagedEdgeList>`

func TestParseXMLGrab(t *testing.T) {
	root, err := ParseXML([]byte(edgeSummariesXML))
	require.NoError(t, err)
	assert.Equal(t, "pagedEdgeList", root.Name)

	name, err := root.GrabString("/edgePage/edgeSummary/name")
	require.NoError(t, err)
	assert.Equal(t, "gw-dmz", name)

	page, err := root.Grab("/edgePage")
	require.NoError(t, err)
	summaries := page.All("edgeSummary")
	require.Len(t, summaries, 2)
	id, err := summaries[1].GrabString("/objectId")
	require.NoError(t, err)
	assert.Equal(t, "edge-2", id)
}

func TestParseXMLAttributes(t *testing.T) {
	root, err := ParseXML([]byte(`<vm moref="vm-42"><name>web01</name></vm>`))
	require.NoError(t, err)
	assert.Equal(t, "vm-42", root.Attrs["moref"])

	_, err = root.Grab("/missing")
	assert.Error(t, err)
}

func TestParseXMLMalformed(t *testing.T) {
	_, err := ParseXML([]byte(`<edge><name>broken</edge>`))
	assert.Error(t, err)

	_, err = ParseXML([]byte(``))
	assert.Error(t, err)
}
