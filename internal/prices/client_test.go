package prices

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

const dayJSON = `[
  {"NOK_per_kWh":0.26673,"EUR_per_kWh":0.02299,"EXR":11.6015,
   "time_start":"2023-09-15T00:00:00+02:00","time_end":"2023-09-15T01:00:00+02:00"},
  {"NOK_per_kWh":0.25011,"EUR_per_kWh":0.02156,"EXR":11.6015,
   "time_start":"2023-09-15T01:00:00+02:00","time_end":"2023-09-15T02:00:00+02:00"}
]`

func TestClientFetchDay(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dayJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	key := Key{Year: 2023, Month: 9, Day: 15, Area: model.NO2}

	hours, raw, err := client.FetchDay(key)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/prices/2023/09-15_NO2.json", gotPath)
	assert.Equal(t, []byte(dayJSON), raw, "raw body must come back verbatim for caching")

	require.Len(t, hours, 2)
	assert.Equal(t, 0.26673, hours[0].NOKPerKWh)
	assert.Equal(t, 0.02299, hours[0].EURPerKWh)
	assert.Equal(t, 11.6015, hours[0].ExchangeRate)
	assert.Equal(t, "2023-09-15T00:00:00+02:00", hours[0].TimeStart.Format("2006-01-02T15:04:05-07:00"))
	assert.True(t, hours[0].TimeStart.Before(hours[0].TimeEnd))
}

func TestClientFetchDayNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, _, err := client.FetchDay(Key{Year: 2030, Month: 1, Day: 1, Area: model.NO1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClientFetchDayBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, _, err := client.FetchDay(Key{Year: 2023, Month: 9, Day: 15, Area: model.NO2})
	assert.Error(t, err)
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, "https://www.hvakosterstrommen.no", client.BaseURL)
}
