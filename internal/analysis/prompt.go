package analysis

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `
You will receive a text written in any natural language.

Your task is to analyze the text and report its language, its overall sentiment and the frequency of every word in it.

Instructions:

Respond only with a valid JSON object. Do not include any additional text or commentary.

- idiom: The name of the language the text is written in, in English (e.g. "English", "Portuguese").

- sentiment: Exactly one of "positive", "negative" or "neutral", in lowercase.

- words: One entry per distinct word in the text.
    - word: The word exactly as it appears in the text. Keep the original casing and spelling.
      Group only exact duplicates; "House" and "house" are two different entries.
      Do not include punctuation or numbers on their own.
    - count: How many times that exact word appears. Always a positive integer.
    - isStopWord: true when the word is a stopword of the detected language
      (articles, prepositions, conjunctions, pronouns, auxiliary verbs), false otherwise.

Expected JSON response format:
{
  "idiom": "English",
  "sentiment": "positive",
  "words": [
    { "word": "The", "count": 2, "isStopWord": true },
    { "word": "garden", "count": 1, "isStopWord": false }
  ]
}
`

func buildChatMessages(text string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: strings.TrimSpace(systemPrompt),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: text,
		},
	}
}
