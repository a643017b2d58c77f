package types

type DocumentStatus string

const (
	DOCUMENT_STATUS_PENDING   DocumentStatus = "pending"
	DOCUMENT_STATUS_PROCESSED DocumentStatus = "processed"
	DOCUMENT_STATUS_FAILED    DocumentStatus = "failed"
)

// Document 表的结构体。每次上传对应一条记录，
// 删除时级联清理其全部分块与向量。
type Document struct {
	ID              string         `json:"id" db:"id"`                               // 主键
	KnowledgeBaseID string         `json:"knowledge_base_id" db:"knowledge_base_id"` // 所属知识库
	FileName        string         `json:"file_name" db:"file_name"`                 // 原始文件名
	TextLength      int            `json:"text_length" db:"text_length"`             // 提取文本长度
	ChunkCount      int            `json:"chunk_count" db:"chunk_count"`             // 分块数量
	Status          DocumentStatus `json:"status" db:"status"`                       // pending | processed | failed
	CreatedAt       int64          `json:"created_at" db:"created_at"`
	UpdatedAt       int64          `json:"updated_at" db:"updated_at"`
}

// DocumentChunk 表的结构体。分块一经生成不可变，随文档删除。
type DocumentChunk struct {
	ID              string `json:"id" db:"id"`                               // 主键，document_id + seq 确定性生成
	DocumentID      string `json:"document_id" db:"document_id"`             // 所属文档
	KnowledgeBaseID string `json:"knowledge_base_id" db:"knowledge_base_id"` // 所属知识库
	Seq             int    `json:"seq" db:"seq"`                             // 文档内顺序
	Content         string `json:"content" db:"content"`                     // 分块文本
	CreatedAt       int64  `json:"created_at" db:"created_at"`
}
