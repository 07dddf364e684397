package market

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"
)

// Feed loading accepts plain CSV plus the compressed forms historical
// datasets usually ship in: .csv, .csv.gz, .csv.xz, and .zip archives
// containing a single CSV.
//
// Expected columns: time,open,high,low,close,volume. A header row is
// detected and skipped. Malformed rows are counted, not fatal.

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadCSV reads a bar series for symbol from path.
func LoadCSV(symbol, path string) (*BarSet, error) {
	r, closer, err := openBarFile(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	return ReadBars(symbol, r)
}

// ReadBars parses bar rows from r. Rows that fail to parse are skipped so a
// few bad lines in a large dataset never abort a run.
func ReadBars(symbol string, r io.Reader) (*BarSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var bars []Bar
	bad := 0
	first := true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		b, ok := parseBar(rec)
		if !ok {
			bad++
			continue
		}
		bars = append(bars, b)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable bars for %s (%d bad rows)", symbol, bad)
	}
	return NewBarSet(symbol, bars), nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "time")
}

func parseBar(rec []string) (Bar, bool) {
	if len(rec) < 5 {
		return Bar{}, false
	}

	ts, err := parseTime(strings.TrimSpace(rec[0]))
	if err != nil {
		return Bar{}, false
	}

	vals := make([]float64, 0, 5)
	for _, field := range rec[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			// A missing volume column is tolerable; missing prices are not.
			break
		}
		vals = append(vals, v)
	}
	if len(vals) < 4 {
		return Bar{}, false
	}

	b := Bar{
		Time:  ts,
		Open:  vals[0],
		High:  vals[1],
		Low:   vals[2],
		Close: vals[3],
	}
	if len(vals) > 4 {
		b.Volume = vals[4]
	}
	return b, true
}

func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// openBarFile opens path, transparently decompressing by extension.
func openBarFile(path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZip(path)
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return zr, func() { zr.Close(); f.Close() }, nil
	case ".xz":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return xr, func() { f.Close() }, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
}

// openZip extracts the archive to a temp dir and reads the first CSV found.
func openZip(path string) (io.Reader, func(), error) {
	dir, err := os.MkdirTemp("", "quantsim-zip-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	if err := unzip.Extract(path, dir); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("unzip %s: %w", path, err)
	}

	var csvPath string
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if csvPath == "" && !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".csv") {
			csvPath = p
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if csvPath == "" {
		cleanup()
		return nil, nil, fmt.Errorf("no CSV inside %s", path)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return f, func() { f.Close(); cleanup() }, nil
}
