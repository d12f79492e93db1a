package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadnk/ZapTechCostCalculator/internal/api/models"
	"github.com/aadnk/ZapTechCostCalculator/internal/config"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
)

var osloLoc, _ = time.LoadLocation("Europe/Oslo")

// flatFetcher serves every requested publication day at a single price.
type flatFetcher struct {
	price float64
}

func (f flatFetcher) FetchDay(key prices.Key) ([]model.HourlyPrice, []byte, error) {
	midnight := time.Date(key.Year, time.Month(key.Month), key.Day, 0, 0, 0, 0, osloLoc)
	hours := make([]model.HourlyPrice, 0, 24)
	for i := 0; i < 24; i++ {
		start := midnight.Add(time.Duration(i) * time.Hour)
		hours = append(hours, model.HourlyPrice{
			NOKPerKWh:    f.price,
			EURPerKWh:    f.price / 11.5,
			ExchangeRate: 11.5,
			TimeStart:    start,
			TimeEnd:      start.Add(time.Hour),
		})
	}
	raw, err := json.Marshal(hours)
	return hours, raw, err
}

func newTestWindow(t *testing.T, price float64) *prices.UTCWindow {
	t.Helper()
	window, err := prices.NewUTCWindow(prices.NewDayCache(flatFetcher{price: price}, nil))
	require.NoError(t, err)
	return window
}

func newTestRouter(reconcile *ReconcileHandler, price *PricesHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/areas", ListAreas)
	if price != nil {
		router.GET("/api/v1/prices/:date", price.DayPrices)
	}
	if reconcile != nil {
		router.POST("/api/v1/reconcile", reconcile.Reconcile)
		router.GET("/api/v1/reports/:id/records", reconcile.GetRecords)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListAreas(t *testing.T) {
	router := newTestRouter(nil, nil)
	w := doJSON(t, router, http.MethodGet, "/api/v1/areas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Areas []models.AreaInfo `json:"areas"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Count)
	assert.Equal(t, "NO1", resp.Areas[0].Code)
	assert.Equal(t, "Oslo / Øst-Norge", resp.Areas[0].Label)
}

func TestDayPrices(t *testing.T) {
	router := newTestRouter(nil, NewPricesHandler(newTestWindow(t, 1.25)))

	w := doJSON(t, router, http.MethodGet, "/api/v1/prices/2023-09-15?area=no2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DayPricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2023-09-15", resp.Date)
	assert.Equal(t, "NO2", resp.PriceArea)
	require.Len(t, resp.Intervals, 24)
	assert.Equal(t, 1.25, resp.Intervals[0].NOKPerKWh)
	assert.True(t, resp.Intervals[0].Start.Equal(time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)))
}

func TestDayPricesValidation(t *testing.T) {
	router := newTestRouter(nil, NewPricesHandler(newTestWindow(t, 1.0)))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"bad date", "/api/v1/prices/15-09-2023?area=NO2", "INVALID_DATE"},
		{"missing area", "/api/v1/prices/2023-09-15", "MISSING_PARAM"},
		{"unknown area", "/api/v1/prices/2023-09-15?area=SE3", "INVALID_AREA"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, tc.path, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

const sessionPage = `{
  "Pages": 1,
  "Data": [
    {
      "Id": "session-1",
      "DeviceId": "dev-1",
      "StartDateTime": "2023-09-15T10:00:00Z",
      "EndDateTime": "2023-09-15T11:00:00Z",
      "Energy": 10,
      "EnergyDetails": [
        {"Timestamp": "2023-09-15T10:30:00Z", "Energy": 10}
      ]
    }
  ]
}`

func newFakeZaptec(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("password") != "hunter2" {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
				return
			}
			fmt.Fprint(w, `{"access_token":"tok-123","token_type":"Bearer"}`)
		case "/api/chargehistory":
			require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			fmt.Fprint(w, sessionPage)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
}

func newReconcileConfig(zaptecURL string) *config.Config {
	return &config.Config{
		PriceArea:    "NO2",
		CacheDir:     "cache",
		ZaptecAPIURL: zaptecURL,
		Tariff:       config.TariffConfig{LowRate: 2.259, HighRate: 3.059},
		Zaptec:       config.Credentials{Username: "user@example.com", Password: "hunter2"},
	}
}

func TestReconcile(t *testing.T) {
	server := newFakeZaptec(t)
	defer server.Close()

	handler := NewReconcileHandler(newReconcileConfig(server.URL), newTestWindow(t, 1.5))
	router := newTestRouter(handler, nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reconcile", models.ReconcileRequest{
		FromDate:       "2023-09-01",
		ToDate:         "2023-10-01",
		IncludeRecords: true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ReconcileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReportID)
	assert.Equal(t, "NO2", resp.PriceArea)
	assert.Equal(t, "NOK", resp.Currency)
	assert.Equal(t, 1, resp.RecordCount)
	require.Len(t, resp.Records, 1)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "session-1", resp.Sessions[0].SessionID)

	// Friday 12:30 Oslo time: high rate on 10 kWh at 1.50 NOK/kWh.
	r := resp.Records[0]
	assert.InDelta(t, 15.0, r.EnergyCost, 1e-9)
	assert.InDelta(t, 30.59, r.NetUsageFee, 1e-9)
	assert.InDelta(t, 56.9875, r.TotalInclVAT, 1e-9)
	assert.InDelta(t, resp.Totals.TotalInclVAT, r.TotalInclVAT, 1e-9)

	// The finished report stays addressable.
	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/"+resp.ReportID+"/records", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Count   int                `json:"count"`
		Records []model.CostRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Count)
}

func TestReconcileValidation(t *testing.T) {
	server := newFakeZaptec(t)
	defer server.Close()

	handler := NewReconcileHandler(newReconcileConfig(server.URL), newTestWindow(t, 1.0))
	router := newTestRouter(handler, nil)

	tests := []struct {
		name   string
		req    models.ReconcileRequest
		status int
		code   string
	}{
		{
			"missing dates",
			models.ReconcileRequest{},
			http.StatusBadRequest, "INVALID_REQUEST",
		},
		{
			"malformed from_date",
			models.ReconcileRequest{FromDate: "01.09.2023", ToDate: "2023-10-01"},
			http.StatusBadRequest, "INVALID_DATE",
		},
		{
			"reversed range",
			models.ReconcileRequest{FromDate: "2023-10-01", ToDate: "2023-09-01"},
			http.StatusBadRequest, "INVALID_DATE",
		},
		{
			"unknown area",
			models.ReconcileRequest{FromDate: "2023-09-01", ToDate: "2023-10-01", PriceArea: "DK1"},
			http.StatusBadRequest, "INVALID_AREA",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/reconcile", tc.req)
			require.Equal(t, tc.status, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestReconcileMissingCredentials(t *testing.T) {
	cfg := newReconcileConfig("http://localhost:0")
	cfg.Zaptec = config.Credentials{}
	router := newTestRouter(NewReconcileHandler(cfg, newTestWindow(t, 1.0)), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reconcile", models.ReconcileRequest{
		FromDate: "2023-09-01",
		ToDate:   "2023-10-01",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_CREDENTIALS", resp.Error.Code)
}

func TestReconcileAuthFailure(t *testing.T) {
	server := newFakeZaptec(t)
	defer server.Close()

	router := newTestRouter(NewReconcileHandler(newReconcileConfig(server.URL), newTestWindow(t, 1.0)), nil)

	w := doJSON(t, router, http.MethodPost, "/api/v1/reconcile", models.ReconcileRequest{
		FromDate: "2023-09-01",
		ToDate:   "2023-10-01",
		Username: "user@example.com",
		Password: "wrong",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTH_FAILED", resp.Error.Code)
}

func TestGetRecordsNotFound(t *testing.T) {
	router := newTestRouter(NewReconcileHandler(newReconcileConfig("http://localhost:0"), newTestWindow(t, 1.0)), nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/nope/records", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REPORT_NOT_FOUND", resp.Error.Code)
}
