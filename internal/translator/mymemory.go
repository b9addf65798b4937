package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultMyMemoryURL = "https://api.mymemory.translated.net"

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

// NewMyMemoryService creates a MyMemory client. The email is optional and
// raises the free daily character limit when provided.
func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:   email,
		baseURL: defaultMyMemoryURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (s *MyMemoryService) SetBaseURL(u string) {
	if u != "" {
		s.baseURL = u
	}
}

func (s *MyMemoryService) Translate(ctx context.Context, req Request) (string, error) {
	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "en"
	}

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, req.TargetLang))
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  json.Number `json:"responseStatus"`
		ResponseDetails string      `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// MyMemory reports some errors as a status field inside a 200 body.
	if status, err := mymemResp.ResponseStatus.Int64(); err == nil && status != 0 && status != 200 {
		return "", fmt.Errorf("API error: %s (%d)", mymemResp.ResponseDetails, status)
	}

	text := mymemResp.ResponseData.TranslatedText
	if text == "" {
		return "", ErrEmptyTranslation
	}
	if IsMyMemoryWarning(text) {
		return "", fmt.Errorf("%w: %s", ErrServiceWarning, text)
	}

	return text, nil
}

// IsMyMemoryWarning reports whether a translated-text field actually carries
// a MyMemory quota warning. The service injects these into 200-OK bodies,
// e.g. "MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY".
func IsMyMemoryWarning(text string) bool {
	return strings.Contains(strings.ToUpper(text), "MYMEMORY WARNING")
}
