// Command gen writes the sample StormEvents data files used with
// "kq datatable".
package main

import (
	"log"
	"os"

	goavro "github.com/linkedin/goavro/v2"
	parquet "github.com/parquet-go/parquet-go"
)

type StormEvent struct {
	State          string `parquet:"State"`
	EventType      string `parquet:"EventType"`
	DamageProperty int64  `parquet:"DamageProperty"`
}

var events = []StormEvent{
	{"WASHINGTON", "Flood", 250000},
	{"WASHINGTON", "High Wind", 12000},
	{"TEXAS", "Hail", 1500000},
	{"TEXAS", "Tornado", 3000000},
	{"OREGON", "Wildfire", 0},
}

const avroSchema = `{
  "type": "record",
  "name": "StormEvent",
  "fields": [
    {"name": "State", "type": "string"},
    {"name": "EventType", "type": "string"},
    {"name": "DamageProperty", "type": "long"}
  ]
}`

func main() {
	writeParquet("testdata/storm.parquet")
	writeAvro("testdata/storm.avro")
}

func writeParquet(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w := parquet.NewWriter(f)
	for _, e := range events {
		if err := w.Write(e); err != nil {
			log.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
}

func writeAvro(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	w, err := goavro.NewOCFWriter(goavro.OCFConfig{W: f, Schema: avroSchema})
	if err != nil {
		log.Fatal(err)
	}
	records := make([]map[string]interface{}, len(events))
	for i, e := range events {
		records[i] = map[string]interface{}{
			"State":          e.State,
			"EventType":      e.EventType,
			"DamageProperty": e.DamageProperty,
		}
	}
	if err := w.Append(records); err != nil {
		log.Fatal(err)
	}
}
