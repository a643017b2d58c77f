package types

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"
)

type Vector struct {
	ID           string          `json:"id" db:"id"`                       // 主键，与 chunk_id 一致
	ChunkID      string          `json:"chunk_id" db:"chunk_id"`           // 关联 document_chunk
	DocumentID   string          `json:"document_id" db:"document_id"`     // 关联 document
	CollectionID string          `json:"collection_id" db:"collection_id"` // 向量集合（知识库）隔离键
	Content      string          `json:"content" db:"content"`             // 分块原文，检索后直接拼接进提示词
	Embedding    pgvector.Vector `json:"embedding" db:"embedding"`         // 文本向量
	CreatedAt    int64           `json:"created_at" db:"created_at"`
	UpdatedAt    int64           `json:"updated_at" db:"updated_at"`
}

// VectorQueryResult 最近邻检索结果，Distance 为余弦距离，越小越相近。
type VectorQueryResult struct {
	ChunkID    string  `json:"chunk_id" db:"chunk_id"`
	DocumentID string  `json:"document_id" db:"document_id"`
	Content    string  `json:"content" db:"content"`
	Distance   float64 `json:"distance" db:"distance"`
}

type GetVectorsOptions struct {
	ID           string
	ChunkID      string
	DocumentID   string
	CollectionID string
}

func (opts GetVectorsOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if opts.ChunkID != "" {
		*query = query.Where(sq.Eq{"chunk_id": opts.ChunkID})
	}
	if opts.DocumentID != "" {
		*query = query.Where(sq.Eq{"document_id": opts.DocumentID})
	}
	if opts.CollectionID != "" {
		*query = query.Where(sq.Eq{"collection_id": opts.CollectionID})
	}
}
