package mentor

import (
	"context"
	"encoding/base64"
	"fmt"
)

// transcribeFallback mirrors the placeholder the UI expects when the
// paraphrase comes back empty.
const transcribeFallback = "What is AWS EC2?"

const transcribeSystem = "You are a transcription assistant."

// Transcribe is a non-functional stub: instead of real speech-to-text
// it asks the text model to paraphrase a transcription request built
// from a prefix of the base64 audio, falling back to a fixed phrase.
// Real Whisper integration would replace this wholesale.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(audio)
	if len(encoded) > 100 {
		encoded = encoded[:100]
	}
	prompt := fmt.Sprintf(
		"The following is a base64 encoded audio file that needs to be transcribed. "+
			"In a real scenario, this would use a speech-to-text API. For now, return a "+
			"simulated transcription based on the request: %s...", encoded)

	text, err := c.GenerateText(ctx, transcribeSystem, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return transcribeFallback, nil
	}
	return text, nil
}
