package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shipquote/internal/carrier"
	"shipquote/internal/quote"
)

func carrierStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getcarrier1quote":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"total": 3000}`))
		case "/getcarrier2quote":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"amount": 11000}`))
		default:
			http.Error(w, "down", http.StatusServiceUnavailable)
		}
	}))
}

func TestRun_PrintsBestDeal(t *testing.T) {
	// Arrange
	srv := carrierStub()
	defer srv.Close()
	var out bytes.Buffer
	opts := options{
		configPath:  filepath.Join(t.TempDir(), "missing.json"),
		baseURL:     srv.URL,
		carriersCSV: "carrier1, carrier2,carrier3",
		budgetMS:    1000,
	}

	// Act
	err := run(t.Context(), opts, &out)

	// Assert
	require.NoError(t, err)
	var deal quote.BestDeal
	require.NoError(t, json.Unmarshal(out.Bytes(), &deal))
	require.Len(t, deal.Carriers, 2)
	require.Equal(t, carrier.Carrier1, deal.BestDeal.Carrier)
	require.Equal(t, float64(3000), deal.BestDeal.Amount)
}

func TestRun_UnknownCarrier(t *testing.T) {
	opts := options{
		configPath:  filepath.Join(t.TempDir(), "missing.json"),
		baseURL:     "http://127.0.0.1:1",
		carriersCSV: "carrier9",
	}

	err := run(t.Context(), opts, &bytes.Buffer{})

	require.ErrorIs(t, err, carrier.ErrUnknownCarrier)
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b,"))
	require.Empty(t, splitCSV(""))
}
