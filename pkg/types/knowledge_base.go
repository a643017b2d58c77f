package types

import "fmt"

// KnowledgeBase 表的结构体。每个课程机器人对应一个知识库，
// 向量集合按知识库隔离，检索永远不会跨知识库。
type KnowledgeBase struct {
	ID           string `json:"id" db:"id"`                       // 主键
	Name         string `json:"name" db:"name"`                   // 知识库名称
	Description  string `json:"description" db:"description"`     // 描述
	SystemPrompt string `json:"system_prompt" db:"system_prompt"` // 导师人设，空则用默认
	Provider     string `json:"provider" db:"provider"`           // 模型提供商 gemini | mistral
	ChatModel    string `json:"chat_model" db:"chat_model"`       // 指定聊天模型，空则用提供商默认
	CreatedAt    int64  `json:"created_at" db:"created_at"`
	UpdatedAt    int64  `json:"updated_at" db:"updated_at"`
}

type UpdateKnowledgeBaseArgs struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Provider     string `json:"provider"`
	ChatModel    string `json:"chat_model"`
}

// CollectionID 由知识库ID确定性生成，外部协作方可据此定位向量集合。
func (k KnowledgeBase) CollectionID() string {
	return CollectionIDFor(k.ID)
}

func CollectionIDFor(knowledgeBaseID string) string {
	return fmt.Sprintf("kb_%s", knowledgeBaseID)
}
