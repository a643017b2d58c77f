package scoring

import (
	"math"
	"strings"
)

// LexicalScorer 基于 TF-IDF 向量余弦相似度的词面匹配打分。
// 语料仅由参考答案与学生答案两篇文档构成，特征为去停用词后的一元与二元词组。
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Score(submitted, reference string) float64 {
	subTerms := ngrams(submitted)
	refTerms := ngrams(reference)
	if len(subTerms) == 0 || len(refTerms) == 0 {
		return 0
	}

	subTF := termFrequency(subTerms)
	refTF := termFrequency(refTerms)

	// smooth idf: ln((1+n)/(1+df)) + 1，n 为语料文档数，这里恒为 2
	vocab := make(map[string]float64)
	for term := range subTF {
		vocab[term] = 0
	}
	for term := range refTF {
		vocab[term] = 0
	}
	for term := range vocab {
		df := 0
		if _, ok := subTF[term]; ok {
			df++
		}
		if _, ok := refTF[term]; ok {
			df++
		}
		vocab[term] = math.Log(3.0/float64(1+df)) + 1
	}

	var dot, subNorm, refNorm float64
	for term, idf := range vocab {
		a := float64(subTF[term]) * idf
		b := float64(refTF[term]) * idf
		dot += a * b
		subNorm += a * a
		refNorm += b * b
	}
	if subNorm == 0 || refNorm == 0 {
		return 0
	}

	return dot / (math.Sqrt(subNorm) * math.Sqrt(refNorm))
}

// ngrams 返回去停用词后的一元与二元词组。
func ngrams(text string) []string {
	words := Tokenize(text)

	var filtered []string
	for _, w := range words {
		if IsStopWord(w) {
			continue
		}
		filtered = append(filtered, w)
	}

	terms := make([]string, 0, len(filtered)*2)
	terms = append(terms, filtered...)
	for i := 0; i+1 < len(filtered); i++ {
		terms = append(terms, filtered[i]+" "+filtered[i+1])
	}
	return terms
}

func termFrequency(terms []string) map[string]int {
	tf := make(map[string]int, len(terms))
	for _, t := range terms {
		tf[strings.ToLower(t)]++
	}
	return tf
}
