// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nobodylogger/worklog-search/db/history"
	"github.com/nobodylogger/worklog-search/db/store"
	"github.com/nobodylogger/worklog-search/logger"
	"github.com/nobodylogger/worklog-search/services/search"
	"github.com/nobodylogger/worklog-search/validation"
)

// testUserHeader stands in for the auth middleware: handler tests inject the
// verified user id directly. Token verification is covered by the api
// package's tests.
const testUserHeader = "X-Test-User"

type testCase struct {
	name           string
	userID         int64
	requestBody    map[string]any
	queryParams    map[string]string
	expectedStatus int
	expectedCode   string
	checkResponse  func(assert *require.Assertions, data map[string]any)
}

func newTestLogger() logger.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) (*gin.Engine, store.DB, history.DB) {
	t.Helper()

	testLogger := newTestLogger()
	tempDir := t.TempDir()

	recordStore, err := store.New(testLogger, filepath.Join(tempDir, "records.db"))
	assert.NoError(err, "could not create record store")

	historyDB, err := history.New(testLogger, filepath.Join(tempDir, "history.db"))
	assert.NoError(err, "could not create history store")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	service := search.New(testLogger, recordStore, historyDB)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if raw := c.GetHeader(testUserHeader); len(raw) > 0 {
			userID, err := strconv.ParseInt(raw, 10, 64)
			assert.NoError(err)
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	})

	SetupSearch(router, testLogger, service, validator)
	SetupHistory(router, testLogger, service, validator)

	t.Cleanup(func() {
		assert.NoError(recordStore.Close(), "could not close record store")
		assert.NoError(historyDB.Close(), "could not close history store")
	})

	return router, recordStore, historyDB
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, userID int64, requestBodyMap map[string]any, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}

	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(testUserHeader, strconv.FormatInt(userID, 10))
	}

	router.ServeHTTP(w, req)

	return w
}

func runTestCase(t *testing.T, router *gin.Engine, method, endpoint string, tc testCase) {
	t.Run(tc.name, func(t *testing.T) {
		assert := require.New(t)

		w := makeTestHTTPRequest(router, assert, method, endpoint, tc.userID, tc.requestBody, tc.queryParams)
		assert.Equal(tc.expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

		var envelope map[string]any
		assert.NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.NotEmpty(envelope["timestamp"])

		if tc.expectedStatus == http.StatusOK {
			assert.Equal(true, envelope["success"])
		} else {
			assert.Equal(false, envelope["success"])
			errorBody, ok := envelope["error"].(map[string]any)
			assert.True(ok, "error body missing")
			if len(tc.expectedCode) > 0 {
				assert.Equal(tc.expectedCode, errorBody["code"])
			}
		}

		if tc.checkResponse != nil {
			data, _ := envelope["data"].(map[string]any)
			tc.checkResponse(require.New(t), data)
		}
	})
}
