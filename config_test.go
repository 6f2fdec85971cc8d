package main

import (
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid config with api key",
			cfg: Config{
				Tickers:   []string{"AAPL", "MSFT"},
				FMPAPIKey: "apikey",
			},
			wantErr: nil,
		},
		{
			name: "valid config with historic data file",
			cfg: Config{
				HistoricDataFilepath: "/tmp/historicdata.json",
			},
			wantErr: nil,
		},
		{
			name:    "missing api key and historic data file",
			cfg:     Config{},
			wantErr: []string{"fmp api key cannot be an empty string"},
		},
		{
			name: "database endpoint without user",
			cfg: Config{
				FMPAPIKey:  "apikey",
				DBEndpoint: "http://localhost:4001",
			},
			wantErr: []string{"database user cannot be an empty string"},
		},
		{
			name: "missing api key and database user",
			cfg: Config{
				DBEndpoint: "http://localhost:4001",
			},
			wantErr: []string{
				"fmp api key cannot be an empty string",
				"database user cannot be an empty string",
			},
		},
	}

	for _, test := range tests {
		err := test.cfg.Validate()

		if len(test.wantErr) == 0 {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}

		if err == nil {
			t.Errorf("%s: expected an error", test.name)
			continue
		}
		for _, want := range test.wantErr {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("%s: expected error containing %q, got %v", test.name, want, err)
			}
		}
	}
}
