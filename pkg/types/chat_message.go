package types

import "github.com/sashabaranov/go-openai"

// ChatMessage 表的结构体。对话历史按 (knowledge_base_id, user_id) 维度
// 只追加存储，按 send_time 升序读取。
type ChatMessage struct {
	ID              string          `json:"id" db:"id"`
	KnowledgeBaseID string          `json:"knowledge_base_id" db:"knowledge_base_id"`
	UserID          string          `json:"user_id" db:"user_id"`
	Role            MessageUserRole `json:"role" db:"role"`
	Message         string          `json:"message" db:"message"`
	Grounded        bool            `json:"grounded" db:"grounded"` // 本条回复是否命中了知识库内容
	SendTime        int64           `json:"send_time" db:"send_time"`
}

type MessageUserRole int8

const (
	USER_ROLE_UNKNOWN   MessageUserRole = 0
	USER_ROLE_USER      MessageUserRole = 1
	USER_ROLE_ASSISTANT MessageUserRole = 2
	USER_ROLE_SYSTEM    MessageUserRole = 3
)

func (s MessageUserRole) String() string {
	switch s {
	case USER_ROLE_ASSISTANT:
		return "assistant"
	case USER_ROLE_USER:
		return "user"
	case USER_ROLE_SYSTEM:
		return "system"
	default:
		return "unknown"
	}
}

func GetMessageUserRole(r string) MessageUserRole {
	switch r {
	case "assistant":
		return USER_ROLE_ASSISTANT
	case "user":
		return USER_ROLE_USER
	case "system":
		return USER_ROLE_SYSTEM
	default:
		return USER_ROLE_UNKNOWN
	}
}

type MessageContext = openai.ChatCompletionMessage
