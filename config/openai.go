package config

import (
	"os"
	"strconv"
	"time"
)

// Settings for the generative-text provider used to synthesize assessment
// feedback into an executive summary. The key being absent is a supported
// configuration: summary generation then fails closed without touching the
// decision record.

func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func OpenAIModel() string {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return model
}

func OpenAITimeout() time.Duration {
	secs, _ := strconv.Atoi(os.Getenv("OPENAI_TIMEOUT_SECONDS"))
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}
