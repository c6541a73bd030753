package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinical-scan-support/config"
	"clinical-scan-support/pkg/apperr"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(url string) *HTTPClassifier {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewHTTPClassifier(config.AIConfig{ServiceURL: url, Timeout: 2 * time.Second}, log)
}

func TestPredictDecodesResult(t *testing.T) {
	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/predict", r.URL.Path)
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		gotFilename = header.Filename
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":"Cancerous","confidence":0.93}`))
	}))
	defer srv.Close()

	result, err := newTestClassifier(srv.URL).Predict(context.Background(), []byte("img"), "scan.png")

	require.NoError(t, err)
	assert.Equal(t, "scan.png", gotFilename)
	assert.Equal(t, "Cancerous", result.Label)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
}

func TestPredictZeroConfidenceIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"label":"Normal","confidence":0}`))
	}))
	defer srv.Close()

	result, err := newTestClassifier(srv.URL).Predict(context.Background(), []byte("img"), "scan.png")

	require.NoError(t, err)
	assert.Zero(t, result.Confidence)
}

func TestPredictRejectionIsValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unreadable image", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newTestClassifier(srv.URL).Predict(context.Background(), []byte("img"), "scan.png")

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "unreadable image")
}

func TestPredictServerFaultIsAnalysisFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClassifier(srv.URL).Predict(context.Background(), []byte("img"), "scan.png")

	assert.Equal(t, apperr.KindAnalysisFailed, apperr.KindOf(err))
}

func TestPredictUnreachableServiceIsAnalysisFailed(t *testing.T) {
	_, err := newTestClassifier("http://127.0.0.1:1").Predict(context.Background(), []byte("img"), "scan.png")

	assert.Equal(t, apperr.KindAnalysisFailed, apperr.KindOf(err))
}

func TestPredictMalformedResults(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"label":"Cancerous"}`,
		`{"confidence":0.9}`,
		`{}`,
	}

	for _, payload := range payloads {
		payload := payload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))

		_, err := newTestClassifier(srv.URL).Predict(context.Background(), []byte("img"), "scan.png")
		assert.Equal(t, apperr.KindMalformedResult, apperr.KindOf(err), "payload %q", payload)

		srv.Close()
	}
}
