// Package classify assigns an alert severity to outgoing reports.
package classify

import (
	"context"

	log "github.com/sirupsen/logrus"

	"go-monsoon/config"
	"go-monsoon/types"
)

// Classifier decides how urgent a report is from its message text and the
// names of its attachments.
type Classifier interface {
	Classify(ctx context.Context, message string, filenames []string) (types.Severity, error)
}

// New builds the configured classifier. Anything fancier than the keyword
// matcher keeps the matcher as its fallback, so classification can never
// block a report.
func New(cfg *config.Config) Classifier {
	keyword := NewKeyword(cfg.RedKeywords)
	switch cfg.Classifier {
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Warn("CLASSIFIER=openai but OPENAI_API_KEY is empty, using keyword matching")
			return keyword
		}
		return WithFallback(NewOpenAI(cfg.OpenAIKey), keyword)
	case "remote":
		if cfg.ClassifierModelURL == "" {
			log.Warn("CLASSIFIER=remote but CLASSIFIER_MODEL_URL is empty, using keyword matching")
			return keyword
		}
		return WithFallback(NewRemote(cfg.ClassifierModelURL), keyword)
	default:
		return keyword
	}
}

type fallback struct {
	primary, backup Classifier
}

// WithFallback answers from primary and switches to backup when primary
// errors out.
func WithFallback(primary, backup Classifier) Classifier {
	return &fallback{primary: primary, backup: backup}
}

func (f *fallback) Classify(ctx context.Context, message string, filenames []string) (types.Severity, error) {
	sev, err := f.primary.Classify(ctx, message, filenames)
	if err != nil {
		log.Warnf("Classifier failed (%v), falling back to keyword matching", err)
		return f.backup.Classify(ctx, message, filenames)
	}
	return sev, nil
}
