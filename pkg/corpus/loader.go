package corpus

import (
	"fmt"
	"os"

	"github.com/athapong/movie-graphrag/pkg/graph"
	"github.com/tidwall/gjson"
)

// ParseRecords reads raw movie rows from a JSON export: either a top-level
// array of rows or an object with a "movies" array, the shape the metadata
// fetch produces.
func ParseRecords(data []byte) ([]graph.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON corpus")
	}

	parsed := gjson.ParseBytes(data)
	rows := parsed.Array()
	if !parsed.IsArray() {
		rows = parsed.Get("movies").Array()
	}

	records := make([]graph.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, graph.Record{
			Title:     row.Get("title").String(),
			Overview:  row.Get("overview").String(),
			Rating:    row.Get("rating").Float(),
			Genres:    stringList(row.Get("genres")),
			Cast:      stringList(row.Get("cast")),
			Directors: stringList(row.Get("directors")),
		})
	}
	return records, nil
}

// LoadRecords reads and parses a JSON corpus file
func LoadRecords(path string) ([]graph.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %v", err)
	}
	return ParseRecords(data)
}

func stringList(result gjson.Result) []string {
	items := result.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}
