package ai

import (
	"strings"
)

const (
	PROMPT_VAR_RELEVANT_PASSAGE = "${relevant_passage}"
	PROMPT_VAR_QUERY            = "${query}"
	PROMPT_VAR_LANG             = "${lang}"
)

// PROMPT_TUTOR_DEFAULT_EN 严格限定在课程材料内作答的导师提示词，
// 知识库可用自定义人设覆盖头部，但参考内容的插槽始终保留。
const PROMPT_TUTOR_DEFAULT_EN = `You are a helpful AI tutor. Answer the student's question based STRICTLY on the provided course materials.

CRITICAL RULES:
- Use ONLY information from the provided context below
- NEVER use your general knowledge or training data
- If the answer is not clearly stated in the context, say "This information is not covered in the course materials"
- Do not make assumptions or inferences beyond what's explicitly in the context
- Be clear, concise, and educational
- Use examples from the course materials when helpful
- Respond in Markdown; wrap math in $...$ or $$...$$ delimiters`

const PROMPT_TUTOR_DEFAULT_CN = `你是一位课程辅导老师，必须严格依据下方提供的课程材料回答学生的问题。

规则：
- 只能使用下方“参考内容”中的信息
- 禁止使用你的通用知识或训练数据
- 如果参考内容中没有明确答案，回复“课程材料中未覆盖该内容”
- 不做超出参考内容的推断
- 用 Markdown 格式回复，数学公式使用 $...$ 或 $$...$$ 包裹`

const PROMPT_TUTOR_CONTEXT_TPL = `

Context from course materials:
--------------------------------------
${relevant_passage}
--------------------------------------

Answer based ONLY on the above context.`

// DECLINE_MESSAGE 检索不到相关内容时的固定拒答，此时不会调用模型。
const DECLINE_MESSAGE_EN = `I'm sorry, but I can only answer questions related to the course materials that have been uploaded.

**Your question doesn't seem to match any content in the current course documents.**

Please try:
- Asking a question related to the topics covered in this course
- Rephrasing your question using terms from the course materials
- Checking if the correct course is selected

If you believe this topic should be covered, please contact your teacher to upload relevant materials.`

const DECLINE_MESSAGE_CN = `抱歉，我只能回答与已上传课程资料相关的问题。

**你的问题似乎不在当前课程文档覆盖的内容范围内。**

可以尝试：
- 提问本课程涉及的主题
- 换用课程资料中的术语重新提问
- 确认选择了正确的课程

如果你认为课程应当覆盖该主题，请联系老师上传相关资料。`

// DEGRADED_MESSAGE 模型后端持续失败时的降级回复，必须与拒答可区分。
const DEGRADED_MESSAGE_EN = `The tutoring service is temporarily unavailable. Your question was related to the course materials, please try again in a moment.`

const DEGRADED_MESSAGE_CN = `辅导服务暂时不可用。你的问题与课程资料相关，请稍后重试。`

// PROMPT_GRADING_FEEDBACK_EN 低分答案的点评提示词，自由生成，不走 RAG。
const PROMPT_GRADING_FEEDBACK_EN = `A student answered this question:
Question: ${question}

Expected answer: ${reference}

Student's answer: ${submitted}

Score: ${percentage}%

Provide brief, constructive feedback (2-3 sentences) on how the student can improve.
Focus on what's missing or incorrect. Be encouraging but specific.`

const PROMPT_QUIZ_FROM_CONTENT_EN = `Based STRICTLY on the following course content, generate ${num_questions} quiz questions.

Course Content:
${content}

Requirements:
- Question types: ${question_types}
- ALL questions MUST be directly answerable from the provided content
- Do NOT use any external knowledge
- Provide clear explanations that reference the content

Return ONLY a JSON array of questions, nothing else. Example format:
[
  {
    "question_text": "What is the capital of France?",
    "question_type": "mcq",
    "options": ["London", "Berlin", "Paris", "Madrid"],
    "correct_answer": "Paris",
    "explanation": "Paris is the capital and largest city of France.",
    "points": 1.0
  }
]`

const PROMPT_QUIZ_FROM_TOPIC_EN = `Generate ${num_questions} ${difficulty} difficulty quiz questions about: ${topic}

Question types to include: ${question_types}

For each question, provide question_text, question_type, options (for mcq and
true_false), correct_answer, explanation and points (1.0 easy, 2.0 medium, 3.0 hard).

Return ONLY a JSON array of questions, nothing else.`

// Docs 检索结果到提示词文本的转换，保持检索顺序。
type Docs interface {
	ConvertPassageToPromptText() string
}

type docs struct {
	passages []string
}

func NewDocs(passages []string) Docs {
	return &docs{passages: passages}
}

func (d *docs) ConvertPassageToPromptText() string {
	s := strings.Builder{}
	for i, v := range d.passages {
		if v == "" {
			continue
		}
		if i != 0 {
			s.WriteString("\n------\n")
		}
		s.WriteString(v)
	}

	return s.String()
}

// BuildTutorPrompt 组装落地提示词：人设 + 参考内容插槽。tpl 为空时按驱动语言取默认。
func BuildTutorPrompt(tpl string, docs Docs, driver ChatAI) string {
	if tpl == "" {
		switch driver.Lang() {
		case MODEL_BASE_LANGUAGE_CN:
			tpl = PROMPT_TUTOR_DEFAULT_CN
		default:
			tpl = PROMPT_TUTOR_DEFAULT_EN
		}
	}

	tpl += PROMPT_TUTOR_CONTEXT_TPL

	d := docs.ConvertPassageToPromptText()
	if d == "" {
		d = "null"
	}
	return strings.ReplaceAll(tpl, PROMPT_VAR_RELEVANT_PASSAGE, d)
}

func DeclineMessage(driver ChatAI) string {
	if driver.Lang() == MODEL_BASE_LANGUAGE_CN {
		return DECLINE_MESSAGE_CN
	}
	return DECLINE_MESSAGE_EN
}

func DegradedMessage(driver ChatAI) string {
	if driver.Lang() == MODEL_BASE_LANGUAGE_CN {
		return DEGRADED_MESSAGE_CN
	}
	return DEGRADED_MESSAGE_EN
}
