// Package mentor relays conversations to an OpenAI-compatible text
// generation service configured with the fixed CloudMentor system
// instruction, and streams responses back as text fragments.
package mentor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"cloudmentor/backend/apperr"
	"cloudmentor/backend/config"
)

const systemPrompt = `You are CloudMentor AI, an expert AWS (Amazon Web Services) mentor and instructor. Your role is to:

1. Help learners understand AWS services and how to use them effectively
2. Explain AWS architecture patterns and best practices
3. Provide guidance on AWS certification exam preparation
4. Answer technical questions about AWS services, pricing, and configurations
5. Help troubleshoot AWS-related issues
6. Suggest learning paths based on the user's goals and current skill level

Always:
- Be encouraging and supportive
- Explain concepts in clear, simple terms for beginners, but don't oversimplify for advanced users
- Provide practical examples when possible
- Reference AWS best practices and documentation
- Help users think through problems systematically
- Admit when you don't know something and suggest resources`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	rest    *resty.Client
	log     *log.Logger
}

func NewClient(cfg *config.Config, logger *log.Logger) *Client {
	timeout := time.Duration(cfg.OpenAITimeoutSeconds) * time.Second
	return &Client{
		baseURL: strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		http:    &http.Client{Timeout: timeout},
		rest:    resty.New().SetTimeout(timeout),
		log:     logger,
	}
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
		Delta   struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream is a lazy, finite sequence of text fragments from one chat
// completion. Next returns io.EOF when the remote signals completion
// and a TransportError when the connection drops mid-stream; fragments
// already delivered stay delivered either way.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	log     *log.Logger
	done    bool
}

// OpenStream relays the transcript, with the fixed system instruction
// prepended, and returns the fragment stream. Connection failures and
// non-2xx upstream statuses surface as a TransportError before any
// fragment is produced. Nothing is retried.
func (c *Client) OpenStream(ctx context.Context, messages []Message) (*Stream, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: "system", Content: systemPrompt}}, messages...),
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Op: "mentor chat", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &apperr.TransportError{
			Op:  "mentor chat",
			Err: fmt.Errorf("upstream http %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
		}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Stream{body: resp.Body, scanner: scanner, log: c.log}, nil
}

// Next returns the next non-empty text fragment.
func (s *Stream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			s.done = true
			return "", io.EOF
		}
		var chunk chatResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			s.log.Printf("mentor: skipping malformed stream chunk: %v", err)
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				return choice.Delta.Content, nil
			}
		}
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return "", &apperr.TransportError{Op: "mentor chat", Err: err}
	}
	return "", io.EOF
}

func (s *Stream) Close() error { return s.body.Close() }

// StreamChat drains a stream through onDelta and returns the full
// text. On mid-stream failure the partial text is returned alongside
// the TransportError.
func (c *Client) StreamChat(ctx context.Context, messages []Message, onDelta func(string)) (string, error) {
	stream, err := c.OpenStream(ctx, messages)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		delta, err := stream.Next()
		if err == io.EOF {
			return full.String(), nil
		}
		if err != nil {
			return full.String(), err
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
}

// GenerateText is the non-streaming call used by the transcription stub.
func (c *Client) GenerateText(ctx context.Context, system, user string) (string, error) {
	var out chatResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model: c.model,
			Messages: []Message{
				{Role: "system", Content: system},
				{Role: "user", Content: user},
			},
		}).
		SetResult(&out).
		Post(c.baseURL + "/v1/chat/completions")
	if err != nil {
		return "", &apperr.TransportError{Op: "mentor generate", Err: err}
	}
	if !resp.IsSuccess() {
		return "", &apperr.TransportError{
			Op:  "mentor generate",
			Err: fmt.Errorf("upstream http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body()))),
		}
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
