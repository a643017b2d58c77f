package types

type QuestionType string

const (
	QUESTION_TYPE_MCQ          QuestionType = "mcq"
	QUESTION_TYPE_TRUE_FALSE   QuestionType = "true_false"
	QUESTION_TYPE_SHORT_ANSWER QuestionType = "short_answer"
)

// QuizQuestion 由模型生成的题目。模型输出按不可信文本处理，
// 解析失败时调用方拿到 ParseFailure 而不是半截数据。
type QuizQuestion struct {
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        float64      `json:"points"`
}

type QuizGenerateResult struct {
	Questions    []QuizQuestion `json:"questions"`
	Source       string         `json:"source"` // topic | content | rag
	ChunksUsed   int            `json:"chunks_used,omitempty"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	ParseFailure string         `json:"parse_failure,omitempty"` // 模型输出无法解析时的原因说明
}
