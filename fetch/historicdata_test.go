package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnldd/chartscan/shared"
	"github.com/peterldowns/testy/assert"
)

func writeHistoricDataFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "historicdata.json")
	err := os.WriteFile(path, []byte(contents), 0o644)
	assert.NoError(t, err)

	return path
}

func TestLoadHistoricSeries(t *testing.T) {
	contents := fmt.Sprintf(`{"tickers":[{"ticker":"AAPL","bars":%s},{"ticker":"MSFT","bars":%s}]}`,
		dailyBarsJSON(shared.MinSeriesSize), dailyBarsJSON(shared.MinSeriesSize+5))
	path := writeHistoricDataFile(t, contents)

	series, err := LoadHistoricSeries(path)
	assert.NoError(t, err)
	assert.Equal(t, len(series), 2)

	assert.Equal(t, series[0].Ticker, "AAPL")
	assert.Equal(t, len(series[0].Bars), shared.MinSeriesSize)
	assert.True(t, series[0].Columns.Has(shared.ColumnClose))

	assert.Equal(t, series[1].Ticker, "MSFT")
	assert.Equal(t, len(series[1].Bars), shared.MinSeriesSize+5)
}

func TestLoadHistoricSeriesErrors(t *testing.T) {
	// Ensure a missing file is reported.
	_, err := LoadHistoricSeries(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	// Ensure a file without tickers is rejected.
	path := writeHistoricDataFile(t, `{"tickers":[]}`)
	_, err = LoadHistoricSeries(path)
	if !errors.Is(err, shared.ErrInsufficientData) {
		t.Errorf("expected %v, got %v", shared.ErrInsufficientData, err)
	}

	// Ensure a nameless entry is rejected.
	path = writeHistoricDataFile(t, fmt.Sprintf(`{"tickers":[{"bars":%s}]}`,
		dailyBarsJSON(shared.MinSeriesSize)))
	_, err = LoadHistoricSeries(path)
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected %v, got %v", shared.ErrInvalidInput, err)
	}

	// Ensure a ticker with too little history is rejected.
	path = writeHistoricDataFile(t, fmt.Sprintf(`{"tickers":[{"ticker":"AAPL","bars":%s}]}`,
		dailyBarsJSON(shared.MinSeriesSize-1)))
	_, err = LoadHistoricSeries(path)
	if !errors.Is(err, shared.ErrInsufficientData) {
		t.Errorf("expected %v, got %v", shared.ErrInsufficientData, err)
	}
}
