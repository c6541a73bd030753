package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"clinical-scan-support/config"
	"clinical-scan-support/pkg/apperr"

	"github.com/sirupsen/logrus"
)

// Prediction is the classifier verdict for a scan image.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier is the external AI model, treated as an opaque function from an
// image to a labelled prediction.
type Classifier interface {
	Predict(ctx context.Context, image []byte, filename string) (*Prediction, error)
}

// classifierResult mirrors the wire format. Pointer fields distinguish a
// missing key from a zero value so a malformed result is detectable.
type classifierResult struct {
	Label      *string  `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// HTTPClassifier calls the model service over HTTP: the image is posted as
// multipart form data to {service_url}/predict.
type HTTPClassifier struct {
	serviceURL string
	client     *http.Client
	log        *logrus.Logger
}

func NewHTTPClassifier(cfg config.AIConfig, log *logrus.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		serviceURL: cfg.ServiceURL,
		client:     &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

func (c *HTTPClassifier) Predict(ctx context.Context, image []byte, filename string) (*Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperr.AnalysisFailed("failed to build classifier request", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, apperr.AnalysisFailed("failed to build classifier request", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperr.AnalysisFailed("failed to build classifier request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/predict", &body)
	if err != nil {
		return nil, apperr.AnalysisFailed("failed to build classifier request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warnf("Classifier request failed: %+v", err)
		return nil, apperr.AnalysisFailed("AI prediction failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.AnalysisFailed("failed to read classifier response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The classifier understood the request and rejected the image
		// itself (unreadable, wrong format). User-correctable.
		return nil, apperr.Validation(fmt.Sprintf("classifier rejected image: %s", string(payload)))
	default:
		return nil, apperr.AnalysisFailed(fmt.Sprintf("classifier returned status %d", resp.StatusCode), nil)
	}

	var result classifierResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperr.MalformedResult("AI returned unexpected result format")
	}
	if result.Label == nil || result.Confidence == nil {
		return nil, apperr.MalformedResult("AI returned unexpected result format")
	}

	return &Prediction{Label: *result.Label, Confidence: *result.Confidence}, nil
}
