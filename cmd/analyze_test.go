package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func apiError(code int) *anthropic.Error {
	req, _ := http.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil)
	return &anthropic.Error{StatusCode: code, Request: req, Response: &http.Response{StatusCode: code}}
}

func TestAnalyzeError(t *testing.T) {
	if analyzeError(nil) != nil {
		t.Error("nil error should stay nil")
	}

	auth := fmt.Errorf("stream: %w", apiError(http.StatusUnauthorized))
	if err := analyzeError(auth); err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("401: got %v", err)
	}

	limited := apiError(http.StatusTooManyRequests)
	if err := analyzeError(limited); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("429: got %v", err)
	}

	// A message mentioning 401 is not an auth failure unless the SDK says so.
	plain := errors.New("upstream reset after 401ms")
	err := analyzeError(plain)
	if !errors.Is(err, plain) || strings.Contains(err.Error(), "authentication") {
		t.Errorf("plain error: got %v", err)
	}
}
