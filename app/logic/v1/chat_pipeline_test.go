package v1

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

type countingChat struct {
	calls   int
	failAll bool
	message string
}

func (f *countingChat) Query(ctx context.Context, query []*types.MessageContext) (ai.GenerateResponse, error) {
	f.calls++
	if f.failAll {
		return ai.GenerateResponse{}, fmt.Errorf("%w: backend down", ai.ErrModelBackend)
	}
	return ai.GenerateResponse{Received: []string{f.message}}, nil
}

func (f *countingChat) Lang() string { return ai.MODEL_BASE_LANGUAGE_EN }
func (f *countingChat) Name() string { return "counting" }

func Test_AnswerDeclinesWithoutModelCall(t *testing.T) {
	driver := &countingChat{message: "should never be seen"}

	resp := answerFromPassages(context.Background(), driver, "", nil, nil, "What is gravity?", time.Second)

	assert.False(t, resp.Grounded)
	assert.False(t, resp.Degraded)
	assert.Equal(t, ai.DeclineMessage(driver), resp.Answer)
	assert.Zero(t, driver.calls)
}

func Test_AnswerGroundedWhenPassagesHit(t *testing.T) {
	driver := &countingChat{message: "gravity pulls things down"}

	resp := answerFromPassages(context.Background(), driver, "", []string{"Gravity is a force."}, nil, "What is gravity?", time.Second)

	assert.True(t, resp.Grounded)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "gravity pulls things down", resp.Answer)
	assert.Equal(t, 1, driver.calls)
}

func Test_AnswerDegradesAfterRetry(t *testing.T) {
	driver := &countingChat{failAll: true}

	resp := answerFromPassages(context.Background(), driver, "", []string{"Gravity is a force."}, nil, "What is gravity?", time.Second)

	assert.False(t, resp.Grounded)
	assert.True(t, resp.Degraded)
	assert.Equal(t, ai.DegradedMessage(driver), resp.Answer)
	// 重试一次后放弃
	assert.Equal(t, 2, driver.calls)
}

func Test_ConcurrentIngestRejected(t *testing.T) {
	lockKey := "kb-busy/notes.txt"
	mu := &sync.Mutex{}
	mu.Lock()
	defer mu.Unlock()
	ingestLocks.Set(lockKey, mu)
	defer ingestLocks.Remove(lockKey)

	logic := NewDocumentLogic(context.Background(), nil)
	_, err := logic.IngestDocument("kb-busy", "notes.txt", []byte("content"))
	require.Error(t, err)

	cerr, ok := err.(*errors.CustomizedError)
	require.True(t, ok)
	assert.Equal(t, i18n.ERROR_INGEST_IN_PROGRESS, cerr.Message())
}
