// Package usecasetest provides a small labeled corpus and a quick trainer
// configuration for tests across packages.
package usecasetest

import (
	"context"
	"fmt"
	"testing"

	"FakeNewsDetector/internal/classifier"
	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
	"FakeNewsDetector/internal/model"
	"FakeNewsDetector/internal/usecase"
)

var fakeTitles = []string{
	"Shocking secret the government hides about vaccines",
	"Scientists silenced after exposing the flat earth cover up",
	"You won't believe what celebrities drink to stay young",
	"Miracle cure doctors hate revealed by insider",
	"Leaked video proves moon landing was staged",
	"Deep state plot uncovered by anonymous patriot",
	"BREAKING: Scientists confirm the shocking claim officials hid",
}

var fakeBodies = []string{
	"Wake up people, the mainstream media will never tell you this shocking truth about the conspiracy.",
	"Anonymous insiders reveal the hidden agenda behind the cover up that they do not want you to know.",
	"This miracle secret destroys big pharma and the elites are furious, share before it gets deleted.",
	"Unbelievable proof exposes the hoax and the corrupt globalists are panicking tonight.",
	"Anonymous sources claim NASA has been lying for decades about what scientists really found.",
}

var realTitles = []string{
	"Senate committee approves annual budget resolution",
	"Central bank holds interest rates steady amid inflation data",
	"Officials confirm trade talks will resume next week",
	"Court upholds ruling on state election district maps",
	"Ministry reports quarterly growth in manufacturing output",
	"Lawmakers debate infrastructure funding bill in session",
}

var realBodies = []string{
	"WASHINGTON (Reuters) - The committee voted on Tuesday after hearing testimony from agency officials, a spokesman said.",
	"The statement, released on Monday, said the ministry expected the figures to be revised in the coming quarter.",
	"According to the official report, the measure passed with a majority and will be reviewed by the full chamber.",
	"Analysts said the decision was in line with expectations, citing data published by the statistics office.",
}

// Corpus returns perClass FAKE and perClass REAL articles built from fixed
// templates. Articles repeat once the template combinations run out.
func Corpus(perClass int) []domain.LabeledArticle {
	out := make([]domain.LabeledArticle, 0, 2*perClass)
	for i := range perClass {
		out = append(out, domain.LabeledArticle{
			Article: domain.Article{
				Title:   fakeTitles[i%len(fakeTitles)],
				Text:    fmt.Sprintf("%s %s", fakeBodies[i%len(fakeBodies)], fakeBodies[(i+1)%len(fakeBodies)]),
				Subject: "News",
			},
			Label: domain.LabelFake,
		})
		out = append(out, domain.LabeledArticle{
			Article: domain.Article{
				Title:   realTitles[i%len(realTitles)],
				Text:    fmt.Sprintf("%s %s", realBodies[i%len(realBodies)], realBodies[(i+1)%len(realBodies)]),
				Subject: "politicsNews",
			},
			Label: domain.LabelReal,
		})
	}
	return out
}

// TrainerConfig is a fast configuration suited to the fixture corpus.
func TrainerConfig() usecase.TrainerConfig {
	cfg := usecase.DefaultTrainerConfig()
	cfg.Vectorizer = features.DefaultConfig()
	cfg.Vectorizer.MinDF = 1
	cfg.Vectorizer.MaxDF = 1
	cfg.Vectorizer.MaxFeatures = 500
	cfg.Tree = classifier.TreeConfig{MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1, MaxFeatures: classifier.MaxFeaturesAll}
	cfg.Forest = classifier.ForestConfig{
		Trees:     15,
		Tree:      classifier.TreeConfig{MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1, MaxFeatures: classifier.MaxFeaturesSqrt},
		Bootstrap: true,
		Workers:   2,
	}
	return cfg
}

// TrainModel trains a model on Corpus(perClass) or fails the test.
func TrainModel(t testing.TB, perClass int) *model.Model {
	t.Helper()

	m, err := usecase.NewTrainer(TrainerConfig(), nil).Train(context.Background(), Corpus(perClass))
	if err != nil {
		t.Fatalf("train fixture model: %v", err)
	}
	return m
}
