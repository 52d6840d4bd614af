package chef

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// maxPageText caps the page text sent to the backend.
const maxPageText = 20000

// Import fetches a recipe page and extracts its recipe.
func (s *Service) Import(ctx context.Context, rawURL string) (Result, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return Result{}, &ImportError{Err: err}
	}

	content, err := s.fetchAndCleanHTML(ctx, target)
	if err != nil {
		s.logger.Error("Failed to fetch recipe page", zap.String("url", target), zap.Error(err))
		return Result{}, &ImportError{Err: fmt.Errorf("failed to fetch content: %w", err)}
	}

	prompt, err := renderPrompt("import.md", struct{ URL, Content string }{target, content})
	if err != nil {
		return Result{}, &ImportError{Err: err}
	}

	res, err := s.run(ctx, AgentImporter, prompt)
	if err != nil {
		s.logger.Error("Error importing recipe with AI", zap.String("url", target), zap.Error(err))
		return Result{}, &ImportError{Err: err}
	}
	return res, nil
}

func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

func (s *Service) fetchAndCleanHTML(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "cozinha-magica/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save tokens
	doc.Find("script, style, nav, footer, iframe, noscript, .ads, #ads").Remove()

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if text == "" {
		return "", fmt.Errorf("page has no text content")
	}
	if len(text) > maxPageText {
		text = truncateUTF8(text, maxPageText)
	}
	return text, nil
}

func truncateUTF8(s string, n int) string {
	for n > 0 && n < len(s) && (s[n]&0xC0) == 0x80 {
		n--
	}
	return s[:n]
}
