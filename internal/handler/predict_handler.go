package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/domain"
)

// PredictRequest is the body accepted by both predict routes.
type PredictRequest struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Subject string `json:"subject"`
	Source  string `json:"source"`
	URL     string `json:"url"`
}

func (r PredictRequest) article() domain.Article {
	return domain.Article{
		Title:   strings.TrimSpace(r.Title),
		Text:    strings.TrimSpace(r.Text),
		Subject: strings.TrimSpace(r.Subject),
		Source:  strings.TrimSpace(r.Source),
		URL:     strings.TrimSpace(r.URL),
	}
}

func (h *Handler) PostPredict(c *gin.Context) {
	h.predict(c, domain.ModeEnhanced)
}

func (h *Handler) PostPredictPureML(c *gin.Context) {
	h.predict(c, domain.ModePureML)
}

func (h *Handler) predict(c *gin.Context, mode domain.Mode) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "decode predict request", fmt.Errorf("%w: %v", domain.ErrInvalidArticle, err))
		return
	}

	article, err := h.resolveArticle(c.Request.Context(), req.article())
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Warn("article extraction failed", "url", req.URL, "error", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, "resolve article", err)
		return
	}

	result, err := h.deps.Predictor.Predict(c.Request.Context(), article, mode)
	if err != nil {
		h.fail(c, "predict", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// resolveArticle fetches the page behind URL when the request carries neither
// a title nor a text. Fields set in the request win over extracted ones.
func (h *Handler) resolveArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.Title != "" || article.Text != "" || article.URL == "" {
		return article, nil
	}
	if h.deps.Extractor == nil {
		return article, fmt.Errorf("%w: url extraction is not enabled, provide title or text", domain.ErrInvalidArticle)
	}

	ctx, cancel := context.WithTimeout(ctx, h.opts.ExtractTimeout)
	defer cancel()

	extracted, err := h.deps.Extractor.Extract(ctx, article.URL)
	if err != nil {
		return article, fmt.Errorf("extract %s: %w", article.URL, err)
	}
	if article.Subject == "" {
		article.Subject = extracted.Subject
	}
	if article.Source == "" {
		article.Source = extracted.Source
	}
	article.Title = extracted.Title
	article.Text = extracted.Text
	return article, nil
}
