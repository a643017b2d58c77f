package v1_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutornest-ai/tutornest/app/core"
	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/pkg/testutils"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

var ctx = context.Background()

func NewCore(t *testing.T) *core.Core {
	testutils.LoadEnv()
	path := os.Getenv("TEST_CONFIG_PATH")
	if path == "" {
		t.Skip("TEST_CONFIG_PATH not set")
	}
	return core.MustSetupCore(core.MustLoadBaseConfig(path))
}

func Test_KnowledgeBaseLifecycle(t *testing.T) {
	core := NewCore(t)
	logic := v1.NewKnowledgeBaseLogic(ctx, core)

	kb, err := logic.CreateKnowledgeBase("physics-101", "intro physics", "", "", "")
	require.NoError(t, err)

	got, err := logic.GetKnowledgeBase(kb.ID)
	require.NoError(t, err)
	assert.Equal(t, "physics-101", got.Name)

	err = logic.UpdateKnowledgeBase(kb.ID, types.UpdateKnowledgeBaseArgs{
		Name:        "physics-101",
		Description: "classical mechanics",
	})
	require.NoError(t, err)

	require.NoError(t, logic.DeleteKnowledgeBase(kb.ID))

	_, err = logic.GetKnowledgeBase(kb.ID)
	assert.Error(t, err)
}

func Test_IngestAndQueryTutor(t *testing.T) {
	core := NewCore(t)
	kbLogic := v1.NewKnowledgeBaseLogic(ctx, core)

	kb, err := kbLogic.CreateKnowledgeBase("gravity-notes", "", "", "", "")
	require.NoError(t, err)
	defer kbLogic.DeleteKnowledgeBase(kb.ID)

	content := []byte("Gravity is a force that attracts objects with mass toward each other. " +
		"On Earth the gravitational acceleration is approximately 9.8 meters per second squared.")
	result, err := v1.NewDocumentLogic(ctx, core).IngestDocument(kb.ID, "gravity.txt", content)
	require.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_PROCESSED, result.Status)
	assert.NotZero(t, result.ChunkCount)

	// 重复摄取相同内容是幂等的：分块数不变，向量不会翻倍
	again, err := v1.NewDocumentLogic(ctx, core).IngestDocument(kb.ID, "gravity.txt", content)
	require.NoError(t, err)
	assert.Equal(t, result.DocumentID, again.DocumentID)
	assert.Equal(t, result.ChunkCount, again.ChunkCount)

	vectors, err := core.Store().VectorStore().ListVectors(ctx, types.GetVectorsOptions{
		DocumentID: result.DocumentID,
	}, 1, 100)
	require.NoError(t, err)
	assert.Len(t, vectors, result.ChunkCount)

	resp, err := v1.NewTutorLogic(ctx, core).QueryTutor(kb.ID, "test-user", "What is gravity?")
	require.NoError(t, err)
	t.Log(resp.Answer)
	assert.True(t, resp.Grounded)
}

func Test_QueryTutorDeclinesOffTopic(t *testing.T) {
	core := NewCore(t)
	kbLogic := v1.NewKnowledgeBaseLogic(ctx, core)

	kb, err := kbLogic.CreateKnowledgeBase("empty-kb", "", "", "", "")
	require.NoError(t, err)
	defer kbLogic.DeleteKnowledgeBase(kb.ID)

	// 空知识库必然检索不到内容，应当直接拒答而不编造。
	resp, err := v1.NewTutorLogic(ctx, core).QueryTutor(kb.ID, "test-user", "Who won the 2022 world cup?")
	require.NoError(t, err)
	assert.False(t, resp.Grounded)
	assert.False(t, resp.Degraded)
	t.Log(resp.Answer)
}

func Test_ChatHistory(t *testing.T) {
	core := NewCore(t)
	kbLogic := v1.NewKnowledgeBaseLogic(ctx, core)

	kb, err := kbLogic.CreateKnowledgeBase("history-kb", "", "", "", "")
	require.NoError(t, err)
	defer kbLogic.DeleteKnowledgeBase(kb.ID)

	tutor := v1.NewTutorLogic(ctx, core)
	_, err = tutor.QueryTutor(kb.ID, "test-user", "hello")
	require.NoError(t, err)

	list, err := tutor.ListHistory(kb.ID, "test-user", 20)
	require.NoError(t, err)
	// 问题与回答成对落库
	require.Len(t, list, 2)
	assert.Equal(t, types.USER_ROLE_USER, list[0].Role)
	assert.Equal(t, types.USER_ROLE_ASSISTANT, list[1].Role)

	require.NoError(t, tutor.ClearHistory(kb.ID, "test-user"))
	list, err = tutor.ListHistory(kb.ID, "test-user", 20)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func Test_EvaluateScoresWithoutResolvableFeedbackDriver(t *testing.T) {
	core := NewCore(t)

	// 点评驱动无法解析时评分照常完成，只是没有点评
	result, err := v1.NewEvaluateLogic(ctx, core).EvaluateAnswer(types.EvaluationRequest{
		Question:        "What is gravity?",
		SubmittedAnswer: "a force pulling masses together",
		ReferenceAnswer: "Gravity is a force that attracts objects with mass.",
		MaxPoints:       2,
		UseFeedback:     true,
	}, "no-such-provider")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Feedback)
	assert.GreaterOrEqual(t, result.FinalScore, 0.0)
}
