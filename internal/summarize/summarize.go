package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/querydeck/scribe/internal/llm"
)

// Uses llm.Client provider interface for backend independence.

// ErrEmptyInput indicates there was no extracted text to summarize. It is a
// normal early-exit signal, not a backend failure.
var ErrEmptyInput = errors.New("no text was extracted for summarization")

// ErrNoReport indicates the model returned no usable report text.
var ErrNoReport = errors.New("no report produced")

// Summarizer condenses extracted source text into a structured report via a
// single chat completion call.
type Summarizer struct {
	Client llm.Client
	Model  string
}

// Summarize builds one prompt embedding the verbatim query and the full
// concatenated text, with no truncation or chunking, and returns the model's
// report text. The report shape (title, summary, key findings) is requested
// by the prompt only; the output is unstructured natural language.
func (s *Summarizer) Summarize(ctx context.Context, text string, query string) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer not configured")
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(text, query)},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarization call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoReport
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrNoReport
	}
	return out, nil
}

const systemMessage = "You are a careful research assistant. Use ONLY the provided extracted text for facts. Keep style concise and factual. Do not invent sources or content."

func buildUserMessage(text, query string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following extracted text and the original user query, create a short, structured report.")
	sb.WriteString("\nThe report must include:")
	sb.WriteString("\n1. A clear, relevant title.")
	sb.WriteString("\n2. A brief summary of the main topics.")
	sb.WriteString("\n3. A few key bullet points highlighting the most important findings.")
	sb.WriteString("\n\nOriginal User Query: \"")
	sb.WriteString(query)
	sb.WriteString("\"\n\nExtracted Text:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---")
	return sb.String()
}
