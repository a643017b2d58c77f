package scoring

import (
	"sort"
)

const keywordMinLength = 3

// KeywordScorer 纯集合覆盖度打分，不依赖任何模型调用。
// 作为词面与语义两个打分器都被同义改写或堆砌关键词骗过时的兜底。
type KeywordScorer struct{}

func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

type KeywordScore struct {
	Score   float64
	Matched []string
	Missed  []string
}

func (s *KeywordScorer) Score(submitted, reference string) KeywordScore {
	if submitted == "" || reference == "" {
		return KeywordScore{}
	}

	expected := toSet(ExtractKeywords(reference, keywordMinLength))
	got := toSet(ExtractKeywords(submitted, keywordMinLength))

	// 参考答案本身提取不出关键词时无从扣分
	if len(expected) == 0 {
		return KeywordScore{Score: 1.0}
	}

	var matched, missed []string
	extra := 0
	for word := range expected {
		if _, ok := got[word]; ok {
			matched = append(matched, word)
		} else {
			missed = append(missed, word)
		}
	}
	for word := range got {
		if _, ok := expected[word]; !ok {
			extra++
		}
	}
	sort.Strings(matched)
	sort.Strings(missed)

	coverage := float64(len(matched)) / float64(len(expected))
	// 额外相关词给少量加分，封顶 0.1，防止堆砌刷分
	bonus := float64(extra) * 0.02
	if bonus > 0.1 {
		bonus = 0.1
	}

	score := coverage + bonus
	if score > 1.0 {
		score = 1.0
	}

	return KeywordScore{
		Score:   score,
		Matched: matched,
		Missed:  missed,
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
