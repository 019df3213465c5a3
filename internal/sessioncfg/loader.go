// Package sessioncfg parses trading-session configuration rows.
//
// The source is CSV with one row per product:
//
//	product[,exchange],slices...
//
// where slices is either a single JSON-array column as exported from the
// instrument database,
//
//	ag,SHFE,"[{""Begin"":""09:00:00"",""End"":""10:15:00""},...]"
//
// or repeated integer quads start_hour,start_minute,end_hour,end_minute:
//
//	ag,21,0,2,30,9,0,10,15,10,30,11,30,13,30,15,0
//
// An optional header row whose first field is "product" is skipped.
// Input may carry a UTF-8/UTF-16 BOM; without one it is decoded as
// GB18030, which covers both plain ASCII and Chinese database exports.
package sessioncfg

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrSource reports an unreadable or malformed configuration source.
var ErrSource = errors.New("bad session source")

// Slice is one raw trading window in wall-clock terms. Seconds are
// zero in the common case; the JSON form may carry them.
type Slice struct {
	StartHour   int
	StartMinute int
	StartSecond int
	EndHour     int
	EndMinute   int
	EndSecond   int
}

// Row is one parsed configuration row: a product code and its windows.
type Row struct {
	Product  string
	Exchange string
	Slices   []Slice
}

// ParseFile reads and parses a CSV file.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseContent parses in-memory CSV content.
func ParseContent(content string) ([]Row, error) {
	return ParseReader(strings.NewReader(content))
}

// ParseReader parses CSV rows from r, decoding BOM-marked Unicode or
// GB18030 bytes transparently.
func ParseReader(r io.Reader) ([]Row, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(simplifiedchinese.GB18030.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSource, err)
		}
		line++
		if line == 1 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "product") {
			continue
		}
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (Row, error) {
	if len(rec) < 2 {
		return Row{}, fmt.Errorf("%w: expected at least 2 fields, got %d", ErrSource, len(rec))
	}
	row := Row{Product: strings.TrimSpace(rec[0])}
	if row.Product == "" {
		return Row{}, fmt.Errorf("%w: empty product code", ErrSource)
	}
	rest := rec[1:]
	if first := strings.TrimSpace(rest[0]); !strings.HasPrefix(first, "[") && !isInt(first) {
		if len(rest) < 2 {
			return Row{}, fmt.Errorf("%w: product %q has no slices", ErrSource, row.Product)
		}
		row.Exchange = first
		rest = rest[1:]
	}

	if len(rest) == 1 && strings.HasPrefix(strings.TrimSpace(rest[0]), "[") {
		slices, err := ParseJSONSlices(rest[0])
		if err != nil {
			return Row{}, fmt.Errorf("product %q: %w", row.Product, err)
		}
		row.Slices = slices
		return row, nil
	}

	if len(rest) == 0 || len(rest)%4 != 0 {
		return Row{}, fmt.Errorf("%w: product %q: slice fields must come in start_hour,start_minute,end_hour,end_minute quads, got %d fields",
			ErrSource, row.Product, len(rest))
	}
	for i := 0; i < len(rest); i += 4 {
		var vals [4]int
		for j := 0; j < 4; j++ {
			v, err := strconv.Atoi(strings.TrimSpace(rest[i+j]))
			if err != nil {
				return Row{}, fmt.Errorf("%w: product %q: field %q is not an integer", ErrSource, row.Product, rest[i+j])
			}
			vals[j] = v
		}
		row.Slices = append(row.Slices, Slice{
			StartHour: vals[0], StartMinute: vals[1],
			EndHour: vals[2], EndMinute: vals[3],
		})
	}
	return row, nil
}

type jsonSlice struct {
	Begin string `json:"Begin"`
	End   string `json:"End"`
}

// ParseJSONSlices parses the database-export JSON array form,
// [{"Begin":"09:00:00","End":"10:15:00"},...]. Key case is ignored;
// boundaries may carry a seconds field.
func ParseJSONSlices(s string) ([]Slice, error) {
	var raw []jsonSlice
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSource, err)
	}
	slices := make([]Slice, 0, len(raw))
	for _, js := range raw {
		bh, bm, bs, err := parseClock(js.Begin)
		if err != nil {
			return nil, err
		}
		eh, em, es, err := parseClock(js.End)
		if err != nil {
			return nil, err
		}
		slices = append(slices, Slice{
			StartHour: bh, StartMinute: bm, StartSecond: bs,
			EndHour: eh, EndMinute: em, EndSecond: es,
		})
	}
	return slices, nil
}

// MarshalJSONSlices renders slices back into the JSON array form.
func MarshalJSONSlices(slices []Slice) (string, error) {
	raw := make([]jsonSlice, 0, len(slices))
	for _, sl := range slices {
		raw = append(raw, jsonSlice{
			Begin: fmt.Sprintf("%02d:%02d:%02d", sl.StartHour, sl.StartMinute, sl.StartSecond),
			End:   fmt.Sprintf("%02d:%02d:%02d", sl.EndHour, sl.EndMinute, sl.EndSecond),
		})
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parseClock accepts "15:04:05" or "15:04".
func parseClock(s string) (hour, minute, sec int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: bad clock value %q", ErrSource, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: bad clock value %q", ErrSource, s)
		}
		nums[i] = v
	}
	return nums[0], nums[1], nums[2], nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
