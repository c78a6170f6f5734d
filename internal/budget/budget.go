package budget

import (
	"math"
	"strings"
	"unicode/utf8"
)

// EstimateTokensFromChars converts an ASCII character count into tokens at
// roughly four characters per token. Never below 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens estimates the token count of s. ASCII runs are counted at
// four characters per token; every other rune (Hangul, CJK, symbols) counts
// as one token, which overestimates Korean text slightly.
func EstimateTokens(s string) int {
	ascii, other := 0, 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			ascii++
		} else {
			other++
		}
	}
	return EstimateTokensFromChars(ascii) + other
}

// EstimatePromptTokens sums the estimates of every message part.
func EstimatePromptTokens(parts ...string) int {
	total := 0
	for _, p := range parts {
		total += EstimateTokens(p)
	}
	return total
}

// ModelContextTokens returns an estimated context window for modelName.
// Unknown models fall back to 8192.
func ModelContextTokens(modelName string) int {
	name := strings.ToLower(strings.TrimSpace(modelName))
	if name == "" {
		return 8192
	}
	if v, ok := knownModelMax[name]; ok {
		return v
	}
	switch {
	case strings.HasSuffix(name, "1m"):
		return 1_000_000
	case strings.HasSuffix(name, "200k"):
		return 200_000
	case strings.HasSuffix(name, "128k"):
		return 128_000
	case strings.Contains(name, "-mini"):
		return 128_000
	}
	return 8192
}

// HeadroomTokens is the larger of 5% of the model context or 512 tokens.
func HeadroomTokens(modelName string) int {
	dyn := int(math.Ceil(float64(ModelContextTokens(modelName)) * 0.05))
	if dyn < 512 {
		return 512
	}
	return dyn
}

// RemainingContext is the input budget left after reserving output tokens,
// headroom and the prompt itself. Never negative.
func RemainingContext(modelName string, reservedForOutput, promptTokens int) int {
	if reservedForOutput < 0 {
		reservedForOutput = 0
	}
	rem := ModelContextTokens(modelName) - HeadroomTokens(modelName) - reservedForOutput - promptTokens
	if rem < 0 {
		return 0
	}
	return rem
}

// MaxInputRunes converts the remaining context into a rune budget for
// article text, treating each rune as one token.
func MaxInputRunes(modelName string, reservedForOutput int, prompt string) int {
	return RemainingContext(modelName, reservedForOutput, EstimateTokens(prompt))
}

var sentenceEnds = []string{". ", "! ", "? ", "。", "\n"}

// TruncateRunes shortens s to at most max runes. When a sentence boundary
// exists in the last fifth of the kept window the cut happens there.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	floor := len(string(runes[:max-max/5]))
	best := -1
	for _, end := range sentenceEnds {
		if i := strings.LastIndex(cut, end); i >= floor && i+len(end) > best {
			best = i + len(end)
		}
	}
	// a bare trailing period also ends a sentence
	if strings.HasSuffix(cut, ".") && len(cut) > best {
		best = len(cut)
	}
	if best > 0 {
		cut = cut[:best]
	}
	return strings.TrimSpace(cut)
}

var knownModelMax = map[string]int{
	"gpt-4o":        128_000,
	"gpt-4o-mini":   128_000,
	"gpt-4-turbo":   128_000,
	"gpt-4.1":       1_000_000,
	"gpt-4.1-mini":  1_000_000,
	"gpt-3.5-turbo": 16_384,
	"llama-3":       8_192,
	"llama-3.1":     128_000,
	"gpt-oss-20b":   4_096,
}
