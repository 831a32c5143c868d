// Command genfixture turns a CSV of hand-written field readings into a history
// blob in the exact layout the record store persists. Every row goes through
// the same validation as the entry form, and timestamps come from a fixed
// clock so the output is reproducible.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -csv data/field_readings.csv \
//	  -out data/mock/sensor_data_history.json \
//	  -start 2024-04-26T06:00:00Z -interval 1h
//
// The CSV needs soil_moisture and slope columns. The default delimiter is ';'
// so decimal commas ("60,5") need no quoting.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/couchcryptid/landslide-monitor/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "CSV file with soil_moisture and slope columns")
	out := flag.String("out", "", "output path for the history blob")
	start := flag.String("start", "2024-04-26T06:00:00Z", "timestamp of the first record (RFC 3339)")
	interval := flag.Duration("interval", time.Hour, "time between consecutive records")
	delim := flag.String("delim", ";", "CSV field delimiter")
	flag.Parse()

	if *csvPath == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -out")
	}
	startAt, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}
	sep, size := utf8.DecodeRuneInString(*delim)
	if size == 0 || size != len(*delim) {
		return fmt.Errorf("-delim must be a single character")
	}

	fake := clockwork.NewFakeClockAt(startAt)
	domain.SetClock(fake)
	defer domain.SetClock(nil)

	rows, err := readRows(*csvPath, sep)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *csvPath, err)
	}

	records := make([]domain.SensorRecord, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		reading, err := domain.ParseReading(row.moisture, row.slope)
		if err != nil {
			log.Printf("row %d skipped: %v", i+2, err)
			skipped++
			continue
		}
		rec, err := domain.NewSensorRecord(reading)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
		fake.Advance(*interval)
	}

	log.Printf("total: %d records, %d skipped", len(records), skipped)

	if err := writeJSON(*out, records); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s", *out)

	printStats(records)
	return nil
}

type rawRow struct {
	moisture string
	slope    string
}

func readRows(path string, sep rune) ([]rawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"soil_moisture", "slope"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	out := make([]rawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, rawRow{
			moisture: get(row, colIdx, "soil_moisture"),
			slope:    get(row, colIdx, "slope"),
		})
	}
	return out, nil
}

// get returns the named column, or "" for short rows so validation reports it.
func get(row []string, colIdx map[string]int, col string) string {
	i := colIdx[col]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // fixture files are not secret
}

func printStats(records []domain.SensorRecord) {
	counts := map[domain.RiskLevel]int{}
	for i := range records {
		counts[domain.ClassifyRecord(&records[i]).Level]++
	}
	fmt.Println("\n=== Risk bands ===")
	for _, level := range []domain.RiskLevel{domain.RiskHigh, domain.RiskMedium, domain.RiskLow} {
		fmt.Printf("  %-8s %d\n", level, counts[level])
	}
	if len(records) > 0 {
		latest := domain.ClassifyRecord(&records[len(records)-1])
		fmt.Printf("\nlatest: %s (%s)\n", latest.Level, records[len(records)-1].Timestamp.Format(time.RFC3339))
	}
}
