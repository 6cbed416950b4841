package service

import (
	"cquizy_backend/internal/model"
	"sort"
	"strings"
)

// AnswerInput is one (block, text) pair from a student's submit payload.
type AnswerInput struct {
	BlockID uint   `json:"blockId" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

// ScoredAnswer is a normalized answer with the points it earned.
type ScoredAnswer struct {
	BlockID uint
	Text    string
	Points  int
}

// ScoreResult is the full outcome of scoring one submission. Scoring is a
// pure function of the answer key and the submitted texts: the same inputs
// always produce the same result, which is what makes regrades idempotent.
type ScoreResult struct {
	Earned     int
	Max        int
	Percentage float64
	Answers    []ScoredAnswer
}

// NormalizeAnswer canonicalizes a submitted text: trim whitespace, fold case.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GroupAnswers normalizes and deduplicates the submitted texts per block.
// Resubmitting the identical text twice counts once. The per-block slices
// come back sorted so scoring walks them in a stable order.
func GroupAnswers(answers []AnswerInput) map[uint][]string {
	seen := make(map[uint]map[string]struct{})
	for _, a := range answers {
		text := NormalizeAnswer(a.Text)
		if seen[a.BlockID] == nil {
			seen[a.BlockID] = make(map[string]struct{})
		}
		seen[a.BlockID][text] = struct{}{}
	}

	grouped := make(map[uint][]string, len(seen))
	for blockID, texts := range seen {
		list := make([]string, 0, len(texts))
		for t := range texts {
			list = append(list, t)
		}
		sort.Strings(list)
		grouped[blockID] = list
	}
	return grouped
}

// BlockMaxPoints computes the maximum achievable points for one block.
// MULTIPLE sums every correct option with positive points; SINGLE and TEXT
// take the highest-valued correct option, or 0 when none are correct.
func BlockMaxPoints(block *model.Block) int {
	if block.Type == model.BlockMultiple {
		sum := 0
		for _, opt := range block.Options {
			if opt.IsCorrect && opt.Points > 0 {
				sum += opt.Points
			}
		}
		return sum
	}

	best := 0
	found := false
	for _, opt := range block.Options {
		if !opt.IsCorrect {
			continue
		}
		if !found || opt.Points > best {
			best = opt.Points
			found = true
		}
	}
	if !found {
		return 0
	}
	return best
}

// TotalMaxPoints sums BlockMaxPoints over the live answer key.
func TotalMaxPoints(blocks []model.Block) int {
	total := 0
	for i := range blocks {
		total += BlockMaxPoints(&blocks[i])
	}
	return total
}

// buildOptionLookup keys a block's options by normalized text. When two
// options collide under normalization (e.g. differ only by case) the one
// stored later wins; options arrive in primary-key order so the rule is
// deterministic.
func buildOptionLookup(options []model.AnswerOption) map[string]*model.AnswerOption {
	lookup := make(map[string]*model.AnswerOption, len(options))
	for i := range options {
		lookup[NormalizeAnswer(options[i].Text)] = &options[i]
	}
	return lookup
}

// answerPoints awards points for one normalized text against one block.
// TEXT blocks only pay out on a correct match: a wrong free-text answer
// never subtracts. Choice blocks pay the matched option's points regardless
// of correctness, which is how negative scoring for wrong picks works.
func answerPoints(block *model.Block, lookup map[string]*model.AnswerOption, text string) int {
	matched, ok := lookup[text]
	if !ok {
		return 0
	}
	if block.Type == model.BlockText {
		if matched.IsCorrect {
			return matched.Points
		}
		return 0
	}
	return matched.Points
}

// ClampPercentage converts earned/max into a percentage in [0, 100].
// A key with no achievable points grades to 0, not a division error.
func ClampPercentage(earned, max int) float64 {
	if max <= 0 {
		return 0.0
	}
	p := float64(earned) / float64(max) * 100
	if p < 0 {
		return 0.0
	}
	if p > 100 {
		return 100.0
	}
	return p
}

// ScoreSubmission grades a set of submitted answers against the blocks of a
// project. Texts referencing blocks outside the key are ignored.
func ScoreSubmission(blocks []model.Block, answers []AnswerInput) ScoreResult {
	grouped := GroupAnswers(answers)

	result := ScoreResult{}
	for i := range blocks {
		block := &blocks[i]
		result.Max += BlockMaxPoints(block)

		texts := grouped[block.ID]
		if len(texts) == 0 {
			continue
		}

		lookup := buildOptionLookup(block.Options)
		for _, text := range texts {
			points := answerPoints(block, lookup, text)
			result.Earned += points
			result.Answers = append(result.Answers, ScoredAnswer{
				BlockID: block.ID,
				Text:    text,
				Points:  points,
			})
		}
	}

	result.Percentage = ClampPercentage(result.Earned, result.Max)
	return result
}
