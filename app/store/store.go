package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/tutornest-ai/tutornest/pkg/sqlstore"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

// KnowledgeBaseStore 定义知识库记录的存取方法
type KnowledgeBaseStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.KnowledgeBase) error
	GetKnowledgeBase(ctx context.Context, id string) (*types.KnowledgeBase, error)
	Update(ctx context.Context, id string, data types.UpdateKnowledgeBaseArgs) error
	Delete(ctx context.Context, id string) error
	ListKnowledgeBases(ctx context.Context, page, pageSize uint64) ([]types.KnowledgeBase, error)
	Total(ctx context.Context) (int64, error)
}

// DocumentStore 定义文档记录的存取方法
type DocumentStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Document) error
	GetDocument(ctx context.Context, knowledgeBaseID, id string) (*types.Document, error)
	GetByFileName(ctx context.Context, knowledgeBaseID, fileName string) (*types.Document, error)
	UpdateIngestResult(ctx context.Context, id string, status types.DocumentStatus, textLength, chunkCount int) error
	Delete(ctx context.Context, knowledgeBaseID, id string) error
	DeleteAll(ctx context.Context, knowledgeBaseID string) error
	ListDocuments(ctx context.Context, knowledgeBaseID string, page, pageSize uint64) ([]types.Document, error)
	Total(ctx context.Context, knowledgeBaseID string) (int64, error)
}

// DocumentChunkStore 定义文档分块的存取方法，分块只随文档整体增删
type DocumentChunkStore interface {
	sqlstore.SqlCommons
	BatchUpsert(ctx context.Context, datas []types.DocumentChunk) error
	List(ctx context.Context, documentID string) ([]types.DocumentChunk, error)
	BatchDelete(ctx context.Context, documentID string) error
	DeleteAll(ctx context.Context, knowledgeBaseID string) error
}

// VectorStore 向量存取，目前只有 pgvector 实现
type VectorStore interface {
	sqlstore.SqlCommons
	BatchUpsert(ctx context.Context, datas []types.Vector) error
	Query(ctx context.Context, collectionID string, vector pgvector.Vector, limit int) ([]types.VectorQueryResult, error)
	Delete(ctx context.Context, collectionID, chunkID string) error
	DeleteByDocument(ctx context.Context, documentID string) error
	DeleteCollection(ctx context.Context, collectionID string) error
	ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error)
}

// ChatMessageStore 对话历史按 (knowledge_base_id, user_id) 只追加存储
type ChatMessageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ChatMessage) error
	ListChatMessages(ctx context.Context, knowledgeBaseID, userID string, limit uint64) ([]types.ChatMessage, error)
	Clear(ctx context.Context, knowledgeBaseID, userID string) error
	DeleteAll(ctx context.Context, knowledgeBaseID string) error
}
