package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"go-monsoon/types"
)

// OpenAI asks a chat model for a one-word severity.
type OpenAI struct {
	client *openai.Client

	// The default openai client has no timeout; a hung model must error
	// out so the fallback can take over.
	timeout time.Duration
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey), timeout: 10 * time.Second}
}

func (o *OpenAI) Classify(ctx context.Context, message string, filenames []string) (types.Severity, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Classify the urgency of the following flood incident report. Reply with exactly one word: green, yellow or red. Red means people or property are in immediate danger, yellow means a developing situation worth watching, green means informational only.\n\nReport: %s\nAttached files: %s\n\nSeverity:", message, strings.Join(filenames, ", "))

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that triages flood incident reports into a single severity word.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   3,
			N:           1,
			Temperature: 0, // the answer is one fixed word
		},
	)
	if err != nil {
		return types.Auto, fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return types.Auto, fmt.Errorf("openai returned empty response or choices")
	}

	word := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case strings.Contains(word, "red"):
		return types.Red, nil
	case strings.Contains(word, "green"):
		return types.Green, nil
	case strings.Contains(word, "yellow"):
		return types.Yellow, nil
	}
	return types.Auto, fmt.Errorf("unrecognized severity %q from model", word)
}
