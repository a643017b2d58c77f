package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

type KnowledgeBaseLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewKnowledgeBaseLogic(ctx context.Context, core *core.Core) *KnowledgeBaseLogic {
	return &KnowledgeBaseLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *KnowledgeBaseLogic) CreateKnowledgeBase(name, description, systemPrompt, provider, chatModel string) (*types.KnowledgeBase, error) {
	if provider != "" {
		if _, err := l.core.Srv().AI().ChatDriver(provider); err != nil {
			return nil, errors.Trace("KnowledgeBaseLogic.CreateKnowledgeBase", err)
		}
	}

	data := types.KnowledgeBase{
		ID:           utils.GenUniqIDStr(),
		Name:         name,
		Description:  description,
		SystemPrompt: systemPrompt,
		Provider:     provider,
		ChatModel:    chatModel,
	}

	if err := l.core.Store().KnowledgeBaseStore().Create(l.ctx, data); err != nil {
		return nil, errors.New("KnowledgeBaseLogic.CreateKnowledgeBase.KnowledgeBaseStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &data, nil
}

func (l *KnowledgeBaseLogic) GetKnowledgeBase(id string) (*types.KnowledgeBase, error) {
	data, err := l.core.Store().KnowledgeBaseStore().GetKnowledgeBase(l.ctx, id)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("KnowledgeBaseLogic.GetKnowledgeBase.KnowledgeBaseStore.GetKnowledgeBase", i18n.ERROR_INTERNAL, err)
	}
	if data == nil {
		return nil, errors.New("KnowledgeBaseLogic.GetKnowledgeBase.nil", i18n.ERROR_NOT_FOUND, err).Code(http.StatusNotFound)
	}
	return data, nil
}

func (l *KnowledgeBaseLogic) UpdateKnowledgeBase(id string, args types.UpdateKnowledgeBaseArgs) error {
	if _, err := l.GetKnowledgeBase(id); err != nil {
		return err
	}
	if args.Provider != "" {
		if _, err := l.core.Srv().AI().ChatDriver(args.Provider); err != nil {
			return errors.Trace("KnowledgeBaseLogic.UpdateKnowledgeBase", err)
		}
	}

	if err := l.core.Store().KnowledgeBaseStore().Update(l.ctx, id, args); err != nil {
		return errors.New("KnowledgeBaseLogic.UpdateKnowledgeBase.KnowledgeBaseStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// DeleteKnowledgeBase 删除知识库并级联清理文档、分块、向量与对话历史
func (l *KnowledgeBaseLogic) DeleteKnowledgeBase(id string) error {
	kb, err := l.GetKnowledgeBase(id)
	if err != nil {
		return err
	}

	store := l.core.Store()
	err = store.Transaction(l.ctx, func(ctx context.Context) error {
		if err := store.VectorStore().DeleteCollection(ctx, kb.CollectionID()); err != nil {
			return err
		}
		if err := store.DocumentChunkStore().DeleteAll(ctx, id); err != nil {
			return err
		}
		if err := store.DocumentStore().DeleteAll(ctx, id); err != nil {
			return err
		}
		if err := store.ChatMessageStore().DeleteAll(ctx, id); err != nil {
			return err
		}
		return store.KnowledgeBaseStore().Delete(ctx, id)
	})
	if err != nil {
		return errors.New("KnowledgeBaseLogic.DeleteKnowledgeBase.Transaction", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *KnowledgeBaseLogic) ListKnowledgeBases(page, pageSize uint64) ([]types.KnowledgeBase, int64, error) {
	list, err := l.core.Store().KnowledgeBaseStore().ListKnowledgeBases(l.ctx, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("KnowledgeBaseLogic.ListKnowledgeBases.KnowledgeBaseStore.ListKnowledgeBases", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().KnowledgeBaseStore().Total(l.ctx)
	if err != nil {
		return nil, 0, errors.New("KnowledgeBaseLogic.ListKnowledgeBases.KnowledgeBaseStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}
