package types

// EvaluationRequest 短问答评分请求，不落库。
type EvaluationRequest struct {
	Question        string  `json:"question"`
	SubmittedAnswer string  `json:"submitted_answer"`
	ReferenceAnswer string  `json:"reference_answer"`
	MaxPoints       float64 `json:"max_points"`
	UseFeedback     bool    `json:"use_feedback"`
}

// ComponentScores 三路评分信号，均在 [0,1]。
type ComponentScores struct {
	Lexical  float64 `json:"lexical"`
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
}

type EvaluationResult struct {
	ComponentScores ComponentScores `json:"component_scores"`
	FinalScore      float64         `json:"final_score"` // 加权得分，范围 [0, max_points]
	MaxPoints       float64         `json:"max_points"`
	Percentage      float64         `json:"percentage"`
	Feedback        string          `json:"feedback,omitempty"` // 可选的 LLM 点评，生成失败时为空
	MatchedKeywords []string        `json:"matched_keywords,omitempty"`
	MissedKeywords  []string        `json:"missed_keywords,omitempty"`
}

// ChoiceResult 选择题/判断题走精确匹配，无梯度给分。
type ChoiceResult struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}
