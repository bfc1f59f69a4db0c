package classify

import (
	"context"
	"strings"

	"go-monsoon/types"
)

// Keyword flags a report red when its message or any attachment filename
// mentions a configured keyword, yellow otherwise. Matching is
// case-insensitive substring matching: "floodwater" trips "flood".
type Keyword struct {
	words []string
}

func NewKeyword(words []string) *Keyword {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Keyword{words: lowered}
}

func (k *Keyword) Classify(_ context.Context, message string, filenames []string) (types.Severity, error) {
	hay := strings.ToLower(message + " " + strings.Join(filenames, " "))
	for _, w := range k.words {
		if strings.Contains(hay, w) {
			return types.Red, nil
		}
	}
	return types.Yellow, nil
}
