package generate

import (
	"strings"
	"unicode"

	"github.com/dgallion1/testgest/internal/model"
)

// perRequirementOverhead covers the JSON keys and punctuation around each
// requirement in the prompt.
const perRequirementOverhead = 12

// EstimateTokens gives a rough token count. Han, kana and hangul characters
// count one token each; the remaining text counts ~1.33 tokens per word.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	cjk := 0
	rest := strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			cjk++
			return ' '
		}
		return r
	}, text)
	tokens := cjk + int(float64(len(strings.Fields(rest)))*1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

func requirementTokens(r model.Requirement) int {
	return EstimateTokens(r.ID) + EstimateTokens(r.Description) + perRequirementOverhead
}

// Batch groups requirements, in order, so each group's estimated size stays
// within budget. A requirement is never split; one that alone exceeds the
// budget gets a batch of its own. budget <= 0 puts everything in one batch.
func Batch(reqs []model.Requirement, budget int) [][]model.Requirement {
	if len(reqs) == 0 {
		return nil
	}
	if budget <= 0 {
		return [][]model.Requirement{reqs}
	}

	var batches [][]model.Requirement
	var current []model.Requirement
	used := 0
	for _, r := range reqs {
		cost := requirementTokens(r)
		if len(current) > 0 && used+cost > budget {
			batches = append(batches, current)
			current, used = nil, 0
		}
		current = append(current, r)
		used += cost
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
