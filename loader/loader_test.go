package loader

import (
	"os"
	"path/filepath"
	"testing"

	goavro "github.com/linkedin/goavro/v2"
	parquet "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razeghi71/kq/table"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func cell(t *testing.T, tbl *table.Table, row int, col string) table.Value {
	t.Helper()
	require.GreaterOrEqual(t, tbl.ColIndex(col), 0, "column %s", col)
	return tbl.Get(row, col)
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "storm.csv", "State, EventType, DamageProperty, Ratio, Active\n"+
		"WA, Flood, 250000, 0.5, true\n"+
		"TX, Hail, , 1.25, false\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"State", "EventType", "DamageProperty", "Ratio", "Active"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, table.StrVal("WA"), cell(t, tbl, 0, "State"))
	assert.Equal(t, table.IntVal(250000), cell(t, tbl, 0, "DamageProperty"))
	assert.Equal(t, table.FloatVal(0.5), cell(t, tbl, 0, "Ratio"))
	assert.Equal(t, table.BoolVal(true), cell(t, tbl, 0, "Active"))
	assert.True(t, cell(t, tbl, 1, "DamageProperty").IsNull())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "storm.json", `[
		{"State": "WA", "Damage": 10, "Tags": ["a", "b"]},
		{"State": "TX", "Damage": 2.5, "Extra": null}
	]`)

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Damage", "Extra", "State", "Tags"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, table.IntVal(10), cell(t, tbl, 0, "Damage"))
	assert.Equal(t, table.FloatVal(2.5), cell(t, tbl, 1, "Damage"))
	assert.Equal(t, table.ListVal(table.StrVal("a"), table.StrVal("b")), cell(t, tbl, 0, "Tags"))
	assert.True(t, cell(t, tbl, 1, "Tags").IsNull())
	assert.True(t, cell(t, tbl, 1, "Extra").IsNull())
}

func TestLoadJSONL(t *testing.T) {
	path := writeFile(t, "storm.jsonl", "{\"State\": \"WA\", \"Damage\": 1}\n\n{\"State\": \"OR\"}\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, table.StrVal("OR"), cell(t, tbl, 1, "State"))
	assert.True(t, cell(t, tbl, 1, "Damage").IsNull())
}

func TestLoadAvro(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.avro")
	f, err := os.Create(path)
	require.NoError(t, err)

	w, err := goavro.NewOCFWriter(goavro.OCFConfig{W: f, Schema: `{
		"type": "record",
		"name": "StormEvent",
		"fields": [
			{"name": "State", "type": "string"},
			{"name": "DamageProperty", "type": "long"},
			{"name": "Source", "type": ["null", "string"]}
		]
	}`})
	require.NoError(t, err)
	require.NoError(t, w.Append([]map[string]interface{}{
		{"State": "WA", "DamageProperty": int64(250000), "Source": goavro.Union("string", "Public")},
		{"State": "TX", "DamageProperty": int64(0), "Source": nil},
	}))
	require.NoError(t, f.Close())

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"State", "DamageProperty", "Source"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, table.IntVal(250000), cell(t, tbl, 0, "DamageProperty"))
	assert.Equal(t, table.StrVal("Public"), cell(t, tbl, 0, "Source"))
	assert.True(t, cell(t, tbl, 1, "Source").IsNull())
}

type stormEvent struct {
	State          string  `parquet:"State"`
	DamageProperty int64   `parquet:"DamageProperty"`
	Ratio          float64 `parquet:"Ratio"`
	Active         bool    `parquet:"Active"`
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storm.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewWriter(f)
	for _, e := range []stormEvent{
		{"WA", 250000, 0.5, true},
		{"TX", 12, 1.5, false},
	} {
		require.NoError(t, w.Write(e))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"State", "DamageProperty", "Ratio", "Active"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, table.StrVal("WA"), cell(t, tbl, 0, "State"))
	assert.Equal(t, table.IntVal(12), cell(t, tbl, 1, "DamageProperty"))
	assert.Equal(t, table.FloatVal(1.5), cell(t, tbl, 1, "Ratio"))
	assert.Equal(t, table.BoolVal(true), cell(t, tbl, 0, "Active"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("storm.xlsx")
	assert.ErrorContains(t, err, "unsupported file format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"State": "WA"}`))
	assert.ErrorContains(t, err, "expected array of objects")
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want table.Value
	}{
		{"", table.Null()},
		{"NULL", table.Null()},
		{"42", table.IntVal(42)},
		{"-1.5", table.FloatVal(-1.5)},
		{"True", table.BoolVal(true)},
		{"WA", table.StrVal("WA")},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseValue(tc.in), "ParseValue(%q)", tc.in)
	}
}
