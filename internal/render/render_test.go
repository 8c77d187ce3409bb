package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileRow struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
}

type fileList []fileRow

func (l fileList) Table() Table {
	t := Table{Header: []string{"ID", "PATH"}}
	for _, r := range l {
		t.Rows = append(t.Rows, []string{r.ID, r.Path})
	}
	return t
}

var sample = fileList{
	{ID: "A1", Path: "$(SOURCE_ROOT)/main.swift"},
	{ID: "B22", Path: "/usr/include/zlib.h"},
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Write(&buf, Text, sample))

	assert.Equal(t, ""+
		"ID   PATH\n"+
		"A1   $(SOURCE_ROOT)/main.swift\n"+
		"B22  /usr/include/zlib.h\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Write(&buf, JSON, sample))

	assert.JSONEq(t, `[{"id":"A1","path":"$(SOURCE_ROOT)/main.swift"},{"id":"B22","path":"/usr/include/zlib.h"}]`, buf.String())
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Write(&buf, YAML, sample))

	assert.YAMLEq(t, "- id: A1\n  path: $(SOURCE_ROOT)/main.swift\n- id: B22\n  path: /usr/include/zlib.h\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
