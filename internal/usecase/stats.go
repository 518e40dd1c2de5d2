package usecase

import (
	"unicode/utf8"

	"FakeNewsDetector/internal/domain"
)

// ComputeDatasetStats summarizes a labeled corpus.
func ComputeDatasetStats(articles []domain.LabeledArticle) domain.DatasetStats {
	stats := domain.DatasetStats{Subjects: map[string]int{}}
	if len(articles) == 0 {
		return stats
	}

	var textLen, titleLen int
	for _, la := range articles {
		stats.TotalArticles++
		switch la.Label {
		case domain.LabelFake:
			stats.FakeArticles++
		case domain.LabelReal:
			stats.RealArticles++
		}
		if la.Article.Subject != "" {
			stats.Subjects[la.Article.Subject]++
		}
		textLen += utf8.RuneCountInString(la.Article.Text)
		titleLen += utf8.RuneCountInString(la.Article.Title)
	}

	n := float64(stats.TotalArticles)
	stats.AvgTextLength = float64(textLen) / n
	stats.AvgTitleLength = float64(titleLen) / n
	return stats
}
