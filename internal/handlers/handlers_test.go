package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Net-Advantage/ai-showcase/rental/internal/database"
	apierrors "github.com/Net-Advantage/ai-showcase/rental/internal/errors"
	"github.com/Net-Advantage/ai-showcase/rental/internal/logger"
	"github.com/Net-Advantage/ai-showcase/rental/internal/middleware"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
	"github.com/Net-Advantage/ai-showcase/rental/internal/repository"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

var (
	testDefaults = models.Settings{TaxYear: "2025/2026", InterestDeductibilityRate: 0.80}
	fallbackUser = models.Actor{UserID: "default-user", DisplayName: "Current User"}
)

// testAPI is the full v1 router over an in-memory SQLite store.
type testAPI struct {
	router *gin.Engine
	store  *repository.Store
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	log := logger.New("test")
	store := repository.NewStore(db.Gorm)
	settings := services.NewSettingsService(store.Settings, testDefaults, log)
	workpapers := services.NewWorkpaperService(store, settings, log)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Actor(fallbackUser))

	v1 := router.Group("/api/v1")
	NewSettingsHandler(settings).Register(v1)
	NewPropertyHandler(services.NewPropertyService(store, settings, log)).Register(v1)
	NewWorkpaperHandler(workpapers).Register(v1)
	NewPortfolioHandler(services.NewPortfolioService(store, settings, workpapers, log)).Register(v1)

	return &testAPI{router: router, store: store}
}

// do sends a JSON request and returns the recorded response.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

// errorCode returns the code of an error envelope.
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response apierrors.ErrorResponse
	decode(t, w, &response)
	return response.Error.Code
}

// createProperty creates a property over the API and returns it with its workpaper.
func (a *testAPI) createProperty(t *testing.T, body map[string]interface{}) (*models.Property, *models.Workpaper) {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/properties", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created PropertyResponse
	decode(t, w, &created)

	w = a.do(t, http.MethodGet, "/api/v1/properties/"+created.Property.ID+"/workpaper", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var wp WorkpaperResponse
	decode(t, w, &wp)

	return created.Property, wp.Workpaper
}
