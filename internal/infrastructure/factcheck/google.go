package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

const defaultEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"

// remoteConfidence is the confidence attached to a published review.
const remoteConfidence = 0.9

// Client queries the Google Fact Check Tools claim search API.
type Client struct {
	endpoint string
	apiKey   string
	language string
	pageSize int
	http     *http.Client
}

var _ ports.FactChecker = (*Client)(nil)

// NewClient creates a reusable HTTP client. An empty endpoint selects the public API.
func NewClient(endpoint, apiKey, language string, pageSize int) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		language: language,
		pageSize: pageSize,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

type searchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Lookup searches published reviews matching claim.
func (c *Client) Lookup(ctx context.Context, claim string) ([]domain.FactCheck, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return nil, nil
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("fact check client has no api key")
	}

	query := url.Values{}
	query.Set("query", claim)
	query.Set("key", c.apiKey)
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	if c.language != "" {
		query.Set("languageCode", c.language)
	}

	var resp searchResponse
	if err := c.get(ctx, query, &resp); err != nil {
		return nil, err
	}

	var out []domain.FactCheck
	for _, cl := range resp.Claims {
		for _, review := range cl.ClaimReview {
			source := review.Publisher.Name
			if source == "" {
				source = review.Publisher.Site
			}
			out = append(out, domain.FactCheck{
				Claim:      cl.Text,
				Rating:     strings.ToUpper(review.TextualRating),
				Source:     source,
				Confidence: remoteConfidence,
				URL:        review.URL,
			})
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
