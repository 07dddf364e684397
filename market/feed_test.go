package market

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `time,open,high,low,close,volume
2024-03-01T10:00:00Z,100,101,99,100.5,1200
2024-03-01T10:05:00Z,100.5,102,100,101.0,900
garbage line that should be skipped
2024-03-01T10:10:00Z,101.0,101.5,100.2,100.8,700
`

func TestReadBars(t *testing.T) {
	t.Parallel()

	set, err := ReadBars("AAPL", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", set.Symbol)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 100.5, set.At(0).Close)
	assert.Equal(t, 1200.0, set.At(0).Volume)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 10, 0, 0, time.UTC), set.At(2).Time)
}

func TestReadBarsNoVolumeColumn(t *testing.T) {
	t.Parallel()

	set, err := ReadBars("TSLA", strings.NewReader("2024-03-01,10,11,9,10.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 0.0, set.At(0).Volume)
}

func TestReadBarsUnixTimestamps(t *testing.T) {
	t.Parallel()

	set, err := ReadBars("AAPL", strings.NewReader("1709287200,10,11,9,10.5,100\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1709287200, 0).UTC(), set.At(0).Time)
}

func TestReadBarsEmpty(t *testing.T) {
	t.Parallel()

	_, err := ReadBars("AAPL", strings.NewReader("time,open,high,low,close\n"))
	assert.Error(t, err)
}

func TestLoadCSVPlain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	set, err := LoadCSV("AAPL", path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestLoadCSVGzip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	set, err := LoadCSV("AAPL", path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestLoadCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadCSV("AAPL", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
