package v1

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pgvector/pgvector-go"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/extract"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/rag"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

// ingestLocks 同一份文档同时只允许一次摄取，并发请求直接拒绝，
// 避免重复的向量化开销。不同文档可以并发摄取，分块ID按文档隔离。
var ingestLocks = cmap.New[*sync.Mutex]()

const embeddingBatchSize = 16

type DocumentLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewDocumentLogic(ctx context.Context, core *core.Core) *DocumentLogic {
	return &DocumentLogic{
		ctx:  ctx,
		core: core,
	}
}

type IngestResult struct {
	DocumentID string               `json:"document_id"`
	Status     types.DocumentStatus `json:"status"`
	ChunkCount int                  `json:"chunk_count"`
}

// IngestDocument 摄取一份上传文件：提取文本、分块、向量化、写入向量库。
// 分块ID由文档ID与序号确定性生成，重复摄取相同内容是幂等的。
func (l *DocumentLogic) IngestDocument(knowledgeBaseID, fileName string, raw []byte) (*IngestResult, error) {
	lockKey := knowledgeBaseID + "/" + fileName
	mu := ingestLocks.Upsert(lockKey, nil, func(exist bool, valueInMap, _ *sync.Mutex) *sync.Mutex {
		if exist {
			return valueInMap
		}
		return &sync.Mutex{}
	})
	if !mu.TryLock() {
		return nil, errors.New("DocumentLogic.IngestDocument.TryLock", i18n.ERROR_INGEST_IN_PROGRESS, nil).Code(http.StatusConflict)
	}
	defer mu.Unlock()

	kb, err := NewKnowledgeBaseLogic(l.ctx, l.core).GetKnowledgeBase(knowledgeBaseID)
	if err != nil {
		return nil, errors.Trace("DocumentLogic.IngestDocument", err)
	}

	text, err := extract.Text(fileName, raw)
	if err != nil {
		return nil, errors.Trace("DocumentLogic.IngestDocument", err)
	}

	cfg := l.core.Cfg().RAG
	chunker, err := rag.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, errors.Trace("DocumentLogic.IngestDocument", err)
	}
	chunks := chunker.Split(text)

	doc, err := l.getOrCreateDocument(kb.ID, fileName)
	if err != nil {
		return nil, err
	}

	embeddings, err := l.embedChunks(fileName, chunks)
	if err != nil {
		// 半途失败：已写入的分块保留，文档置为 failed，重跑摄取即可恢复
		if serr := l.core.Store().DocumentStore().UpdateIngestResult(l.ctx, doc.ID, types.DOCUMENT_STATUS_FAILED, len(text), 0); serr != nil {
			slog.Error("Failed to mark document failed", slog.String("document_id", doc.ID), slog.Any("error", serr))
		}
		l.core.Metrics().DocumentIngestInc(string(types.DOCUMENT_STATUS_FAILED))
		return &IngestResult{DocumentID: doc.ID, Status: types.DOCUMENT_STATUS_FAILED}, errors.Trace("DocumentLogic.IngestDocument.embedChunks", err)
	}

	now := time.Now().Unix()
	chunkRecords := make([]types.DocumentChunk, 0, len(chunks))
	vectorRecords := make([]types.Vector, 0, len(chunks))
	for i, content := range chunks {
		chunkID := chunkIDFor(doc.ID, i)
		chunkRecords = append(chunkRecords, types.DocumentChunk{
			ID:              chunkID,
			DocumentID:      doc.ID,
			KnowledgeBaseID: kb.ID,
			Seq:             i,
			Content:         content,
			CreatedAt:       now,
		})
		vectorRecords = append(vectorRecords, types.Vector{
			ID:           chunkID,
			ChunkID:      chunkID,
			DocumentID:   doc.ID,
			CollectionID: kb.CollectionID(),
			Content:      content,
			Embedding:    pgvector.NewVector(embeddings[i]),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	store := l.core.Store()
	err = store.Transaction(l.ctx, func(ctx context.Context) error {
		// 旧分块先清掉，重新摄取内容变短时不会留下悬挂向量
		if err := store.VectorStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := store.DocumentChunkStore().BatchDelete(ctx, doc.ID); err != nil {
			return err
		}
		if err := store.DocumentChunkStore().BatchUpsert(ctx, chunkRecords); err != nil {
			return err
		}
		if err := store.VectorStore().BatchUpsert(ctx, vectorRecords); err != nil {
			return err
		}
		return store.DocumentStore().UpdateIngestResult(ctx, doc.ID, types.DOCUMENT_STATUS_PROCESSED, len(text), len(chunks))
	})
	if err != nil {
		return nil, errors.New("DocumentLogic.IngestDocument.Transaction", i18n.ERROR_INTERNAL, err)
	}

	l.core.Metrics().DocumentIngestInc(string(types.DOCUMENT_STATUS_PROCESSED))
	slog.Info("Document ingested",
		slog.String("knowledge_base_id", kb.ID),
		slog.String("document_id", doc.ID),
		slog.Int("chunks", len(chunks)))

	return &IngestResult{
		DocumentID: doc.ID,
		Status:     types.DOCUMENT_STATUS_PROCESSED,
		ChunkCount: len(chunks),
	}, nil
}

func (l *DocumentLogic) getOrCreateDocument(knowledgeBaseID, fileName string) (*types.Document, error) {
	doc, err := l.core.Store().DocumentStore().GetByFileName(l.ctx, knowledgeBaseID, fileName)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.getOrCreateDocument.DocumentStore.GetByFileName", i18n.ERROR_INTERNAL, err)
	}
	if doc != nil {
		return doc, nil
	}

	doc = &types.Document{
		ID:              utils.GenUniqIDStr(),
		KnowledgeBaseID: knowledgeBaseID,
		FileName:        fileName,
		Status:          types.DOCUMENT_STATUS_PENDING,
	}
	if err = l.core.Store().DocumentStore().Create(l.ctx, *doc); err != nil {
		return nil, errors.New("DocumentLogic.getOrCreateDocument.DocumentStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return doc, nil
}

// embedChunks 分批向量化，单批失败退避后重试一次，仍失败则整体报错。
func (l *DocumentLogic) embedChunks(fileName string, chunks []string) ([][]float32, error) {
	embedder := l.core.Srv().AI().Embedding()

	result := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embeddingBatchSize {
		end := start + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		resp, err := embedder.EmbeddingForDocument(l.ctx, fileName, batch)
		if err != nil {
			slog.Warn("Embedding batch failed, retrying once",
				slog.String("file_name", fileName), slog.Any("error", err))
			select {
			case <-l.ctx.Done():
				return nil, l.ctx.Err()
			case <-time.After(time.Second):
			}
			if resp, err = embedder.EmbeddingForDocument(l.ctx, fileName, batch); err != nil {
				return nil, err
			}
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding result size mismatch, want %d got %d", len(batch), len(resp.Data))
		}
		result = append(result, resp.Data...)
	}
	return result, nil
}

func chunkIDFor(documentID string, seq int) string {
	return fmt.Sprintf("%s-%04d", documentID, seq)
}

// DeleteDocument 删除文档并级联清理分块与向量
func (l *DocumentLogic) DeleteDocument(knowledgeBaseID, id string) error {
	doc, err := l.core.Store().DocumentStore().GetDocument(l.ctx, knowledgeBaseID, id)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("DocumentLogic.DeleteDocument.DocumentStore.GetDocument", i18n.ERROR_INTERNAL, err)
	}
	if doc == nil {
		return errors.New("DocumentLogic.DeleteDocument.nil", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
	}

	store := l.core.Store()
	err = store.Transaction(l.ctx, func(ctx context.Context) error {
		if err := store.VectorStore().DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := store.DocumentChunkStore().BatchDelete(ctx, doc.ID); err != nil {
			return err
		}
		return store.DocumentStore().Delete(ctx, knowledgeBaseID, doc.ID)
	})
	if err != nil {
		return errors.New("DocumentLogic.DeleteDocument.Transaction", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *DocumentLogic) GetDocument(knowledgeBaseID, id string) (*types.Document, error) {
	doc, err := l.core.Store().DocumentStore().GetDocument(l.ctx, knowledgeBaseID, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("DocumentLogic.GetDocument.DocumentStore.GetDocument", i18n.ERROR_INTERNAL, err)
	}
	if doc == nil {
		return nil, errors.New("DocumentLogic.GetDocument.nil", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
	}
	return doc, nil
}

func (l *DocumentLogic) ListDocuments(knowledgeBaseID string, page, pageSize uint64) ([]types.Document, int64, error) {
	list, err := l.core.Store().DocumentStore().ListDocuments(l.ctx, knowledgeBaseID, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("DocumentLogic.ListDocuments.DocumentStore.ListDocuments", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().DocumentStore().Total(l.ctx, knowledgeBaseID)
	if err != nil {
		return nil, 0, errors.New("DocumentLogic.ListDocuments.DocumentStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}
