package scoring

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// stopWords 英文常见停用词，分词与关键词提取共用。
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an is are was were be been
		being have has had do does did will would could should may might
		must shall can need to of in for on with at by from as into
		through during before after above below between under again
		further then once here there when where why how all each few
		more most other some such no nor not only own same so than too
		very just and but if or because until while this that these
		those it its they them their what which who`) {
		stopWords[w] = struct{}{}
	}
}

func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// Tokenize 提取小写英文单词，丢弃数字与标点。
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// ExtractKeywords 提取去停用词后长度不小于 minLength 的关键词，保留出现顺序。
func ExtractKeywords(text string, minLength int) []string {
	var keywords []string
	for _, word := range Tokenize(text) {
		if len(word) < minLength {
			continue
		}
		if IsStopWord(word) {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
