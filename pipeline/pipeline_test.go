package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/razeghi71/kq/kql"
)

func render(t *testing.T, doc string) string {
	t.Helper()
	d, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	text, err := d.Render()
	require.NoError(t, err)
	return text
}

func TestFilterDocument(t *testing.T) {
	got := render(t, `
source: {table: StormEvents}
stages:
  - where:
      - {col: State, op: "==", value: WA}
      - {col: DamageProperty, op: ">", value: 100000}
  - project: [State, EventType, DamageProperty]
  - limit: 10
`)
	assert.Equal(t, "StormEvents\n"+
		"| where State == 'WA' and DamageProperty > 100000\n"+
		"| project\n\tState,\n\tEventType,\n\tDamageProperty\n"+
		"| limit 10\n", got)
}

func TestAggregateDocument(t *testing.T) {
	got := render(t, `
source: {table: StormEvents}
stages:
  - project: [State, EventType, DamageProperty]
  - summarize:
      aggregations:
        - {name: sum_damage, expr: {func: sum, args: [DamageProperty]}}
      by: [State, EventType]
  - sort: [sum_damage]
  - limit: 20
`)
	assert.Equal(t, "StormEvents\n"+
		"| project\n\tState,\n\tEventType,\n\tDamageProperty\n"+
		"| summarize\n\tsum_damage=sum(DamageProperty)\n\tby State, EventType\n"+
		"| order by\n\tsum_damage\n"+
		"| limit 20\n", got)
}

func TestQualifiedDocument(t *testing.T) {
	got := render(t, `
source: {cluster: help, database: Samples, table: StormEvents}
stages:
  - where:
      - {col: StartTime, op: ">", right: {func: ago, args: [{timespan: 7d}]}}
      - {col: EventType, op: in, value: [Flood, Hail]}
  - extend:
      - {name: Damage, expr: {op: "+", left: DamageProperty, right: DamageCrops}}
  - summarize:
      aggregations:
        - {name: events, expr: {func: count}}
        - {name: damage, expr: {func: sum, args: [Damage]}}
        - {name: worst, expr: {func: max, args: [Damage]}}
      by: [State]
  - top: {n: 5, column: damage, order: desc}
`)
	want, err := os.ReadFile(filepath.Join("..", "kql", "testdata", "qualified.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), got)
}

func TestOtherStages(t *testing.T) {
	got := render(t, `
source: {database: Samples, table: StormEvents}
stages:
  - where:
      - {op: "not in", col: State, value: [TX]}
      - {op: or, left: {col: Source, op: has, value: Public}, right: {col: Injuries, op: ">=", value: 1.5}}
  - project:
      - State
      - {name: len, expr: {func: strlen, args: [State]}}
      - {expr: {func: tolower, args: [EventType]}}
  - order by: [State, {column: len, order: asc}]
  - distinct: [State, len]
  - take: 3
  - count: true
`)
	assert.Equal(t, "database('Samples').['StormEvents']\n"+
		"| where not(State in (dynamic([\n\t'TX'\n]))) and Source has 'Public' or Injuries >= 1.5\n"+
		"| project\n\tState,\n\tlen=strlen(State),\n\ttolower(EventType)\n"+
		"| order by\n\tState, len asc\n"+
		"| distinct State, len\n"+
		"| take 3\n"+
		"| count\n", got)
}

func TestSetDocument(t *testing.T) {
	got := render(t, `
source: {table: StormEvents}
stages:
  - count: true
set: {table: Counts, folder: Reports, docstring: Event count, replace: true}
`)
	assert.Equal(t, ".set-or-replace Counts\nwith (\nfolder = \"Reports\",\ndocstring = \"Event count\",\n)\n<|\nStormEvents\n| count\n", got)
}

func TestValueLiterals(t *testing.T) {
	got := render(t, `
source: {table: T}
stages:
  - where:
      - {col: Name, op: "==", value: "100"}
      - {col: Flag, op: "!=", value: true}
      - {left: {value: 1}, op: "<", right: Count}
`)
	assert.Equal(t, "T\n| where Name == '100' and Flag != true and 1 < Count\n", got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: {table: T}\nstages:\n  - take: 1\n"), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	text, err := d.Render()
	require.NoError(t, err)
	assert.Equal(t, "T\n| take 1\n", text)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", "source: {table: T}\nquery: x\n"},
		{"two verbs", "source: {table: T}\nstages:\n  - {take: 1, limit: 2}\n"},
		{"unknown verb", "source: {table: T}\nstages:\n  - join: x\n"},
		{"count false", "source: {table: T}\nstages:\n  - count: false\n"},
		{"bad limit", "source: {table: T}\nstages:\n  - limit: many\n"},
		{"misspelled by", "source: {table: T}\nstages:\n  - summarize: {aggregations: [{name: n, expr: {func: count}}], groupby: [State]}\n"},
		{"unknown assignment field", "source: {table: T}\nstages:\n  - extend: [{name: x, expression: {col: a}}]\n"},
		{"unknown expression field", "source: {table: T}\nstages:\n  - where: [{col: a, op: '==', val: 1}]\n"},
		{"nested unknown field", "source: {table: T}\nstages:\n  - where: [{op: and, left: {col: a, op: '>', value: 1}, right: {colum: b}}]\n"},
		{"unknown sort field", "source: {table: T}\nstages:\n  - sort: [{column: a, direction: desc}]\n"},
		{"unknown top field", "source: {table: T}\nstages:\n  - top: {n: 5, by: a}\n"},
		{"unknown projection field", "source: {table: T}\nstages:\n  - project: [{name: x, exp: {col: a}}]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no table", "source: {database: d}\n", ErrInvalidDocument},
		{"cluster without database", "source: {cluster: c, table: T}\n", ErrInvalidDocument},
		{"unknown operator", "source: {table: T}\nstages:\n  - where: [{col: a, op: '=~', value: 1}]\n", ErrInvalidDocument},
		{"in without list", "source: {table: T}\nstages:\n  - where: [{col: a, op: in, value: 1}]\n", ErrInvalidDocument},
		{"missing right", "source: {table: T}\nstages:\n  - where: [{col: a, op: '=='}]\n", ErrInvalidDocument},
		{"empty expression", "source: {table: T}\nstages:\n  - extend: [{name: x, expr: {}}]\n", ErrInvalidDocument},
		{"bad order", "source: {table: T}\nstages:\n  - sort: [{column: a, order: up}]\n", ErrInvalidDocument},
		{"bad timespan", "source: {table: T}\nstages:\n  - where: [{col: a, op: '>', right: {timespan: soon}}]\n", ErrInvalidDocument},
		{"col and value without op", "source: {table: T}\nstages:\n  - where: [{col: a, value: 1}]\n", ErrInvalidDocument},
		{"func with col", "source: {table: T}\nstages:\n  - extend: [{name: x, expr: {func: strlen, col: a}}]\n", ErrInvalidDocument},
		{"args without func", "source: {table: T}\nstages:\n  - extend: [{name: x, expr: {args: [a]}}]\n", ErrInvalidDocument},
		{"left without op", "source: {table: T}\nstages:\n  - where: [{left: a, right: b}]\n", ErrInvalidDocument},
		{"negative limit", "source: {table: T}\nstages:\n  - limit: -1\n", kql.ErrInvalidStageArgument},
		{"empty project", "source: {table: T}\nstages:\n  - project: []\n", kql.ErrInvalidStageArgument},
		{"unsupported value", "source: {table: T}\nstages:\n  - where: [{col: a, op: '==', value: {x: 1}}]\n", kql.ErrUnsupportedLiteralType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Load(strings.NewReader(tc.doc))
			require.NoError(t, err)
			_, err = d.Build()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUnknownFieldNamesLine(t *testing.T) {
	_, err := Load(strings.NewReader("source: {table: T}\nstages:\n  - summarize:\n      aggregations: [{name: n, expr: {func: count}}]\n      groupby: [State]\n"))
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.ErrorContains(t, err, `line 5: unknown field "groupby"`)
}

func TestParseTimespan(t *testing.T) {
	d, err := parseTimespan("7d")
	require.NoError(t, err)
	assert.Equal(t, "168h0m0s", d.String())

	d, err = parseTimespan("90m")
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", d.String())

	_, err = parseTimespan("xd")
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
