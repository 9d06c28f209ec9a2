package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFacade_Success(t *testing.T) {
	predictor := stubPredictor{fn: func(_ context.Context, args []byte) ([]byte, error) {
		return append([]byte("echo:"), args...), nil
	}}
	facade := NewHTTPFacade(predictor)

	body, _ := json.Marshal(httpPredictRequest{Args: base64.StdEncoding.EncodeToString([]byte("hi"))})
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	facade.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp httpPredictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	decoded, err := base64.StdEncoding.DecodeString(resp.Result)
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", string(decoded))
}

func TestHTTPFacade_PredictorError(t *testing.T) {
	predictor := stubPredictor{fn: func(context.Context, []byte) ([]byte, error) {
		return nil, errors.New("model failure")
	}}
	facade := NewHTTPFacade(predictor)

	body, _ := json.Marshal(httpPredictRequest{Args: base64.StdEncoding.EncodeToString([]byte("x"))})
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	facade.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp httpPredictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "model failure")
}

func TestHTTPFacade_InvalidBase64(t *testing.T) {
	predictor := stubPredictor{fn: func(context.Context, []byte) ([]byte, error) { return nil, nil }}
	facade := NewHTTPFacade(predictor)

	body, _ := json.Marshal(httpPredictRequest{Args: "not-base64!!"})
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	facade.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPFacade_MethodNotAllowed(t *testing.T) {
	predictor := stubPredictor{fn: func(context.Context, []byte) ([]byte, error) { return nil, nil }}
	facade := NewHTTPFacade(predictor)

	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	rec := httptest.NewRecorder()

	facade.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
