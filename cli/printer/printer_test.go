package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("Table")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	// empty means default
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf, FormatJSON)

	err := p.Result(map[string]string{"name": "esx-01"}, nil, nil)
	require.NoError(t, err)

	// buffers never get color codes
	var parsed map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "esx-01", parsed["name"])
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestTableOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf, FormatTable)

	err := p.Result(nil,
		[]string{"Name", "Version"},
		[][]string{
			{"nsx-manager", "3.2.1"},
			{"vcenter", "7.0.3"},
		})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "nsx-manager")
	assert.Contains(t, out, "7.0.3")
}

func TestTableFallsBackToJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf, FormatTable)

	// no header means the object is not tabular
	err := p.Result(map[string]int{"count": 4}, nil, nil)
	require.NoError(t, err)

	var parsed map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, 4, parsed["count"])
}

func TestRawAppendsNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf, FormatJSON)

	p.Raw("plain output")
	assert.Equal(t, "plain output\n", buf.String())

	buf.Reset()
	p.Raw("already terminated\n")
	assert.Equal(t, "already terminated\n", buf.String())
}

func TestMarshalRows(t *testing.T) {
	type vm struct {
		Name  string `json:"name"`
		CPUs  int    `json:"cpus"`
		State string `json:"state"`
	}

	rows, err := MarshalRows([]vm{
		{Name: "web-01", CPUs: 2, State: "poweredOn"},
		{Name: "db-01", CPUs: 8, State: "poweredOff"},
	}, "name", "cpus", "state")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"web-01", "2", "poweredOn"},
		{"db-01", "8", "poweredOff"},
	}, rows)
}
