package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tutornest-ai/tutornest/pkg/register"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.DocumentChunkStore = NewDocumentChunkStore(provider)
	})
}

type DocumentChunkStore struct {
	CommonFields
}

func NewDocumentChunkStore(provider SqlProviderAchieve) *DocumentChunkStore {
	repo := &DocumentChunkStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_DOCUMENT_CHUNK)
	repo.SetAllColumns("id", "document_id", "knowledge_base_id", "seq", "content", "created_at")
	return repo
}

// BatchUpsert 分块ID由 document_id 和 seq 确定性生成，重复摄取覆盖而不是重复插入
func (s *DocumentChunkStore) BatchUpsert(ctx context.Context, datas []types.DocumentChunk) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)
	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.DocumentID, data.KnowledgeBaseID, data.Seq, data.Content, data.CreatedAt)
	}
	query = query.Suffix("ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DocumentChunkStore) List(ctx context.Context, documentID string) ([]types.DocumentChunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"document_id": documentID}).OrderBy("seq ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.DocumentChunk
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DocumentChunkStore) BatchDelete(ctx context.Context, documentID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"document_id": documentID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *DocumentChunkStore) DeleteAll(ctx context.Context, knowledgeBaseID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"knowledge_base_id": knowledgeBaseID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
