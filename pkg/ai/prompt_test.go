package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutornest-ai/tutornest/pkg/types"
)

type fakeChat struct {
	lang     string
	received []*types.MessageContext
}

func (f *fakeChat) Query(ctx context.Context, query []*types.MessageContext) (GenerateResponse, error) {
	f.received = query
	return GenerateResponse{Received: []string{"ok"}}, nil
}

func (f *fakeChat) Lang() string { return f.lang }
func (f *fakeChat) Name() string { return "fake" }

func TestBuildTutorPrompt(t *testing.T) {
	driver := &fakeChat{lang: MODEL_BASE_LANGUAGE_EN}
	prompt := BuildTutorPrompt("", NewDocs([]string{"passage one", "passage two"}), driver)

	assert.Contains(t, prompt, "passage one")
	assert.Contains(t, prompt, "passage two")
	assert.Contains(t, prompt, "ONLY")
	assert.NotContains(t, prompt, PROMPT_VAR_RELEVANT_PASSAGE)
}

func TestBuildTutorPromptCustomPersona(t *testing.T) {
	driver := &fakeChat{lang: MODEL_BASE_LANGUAGE_EN}
	prompt := BuildTutorPrompt("You are a pirate tutor.", NewDocs([]string{"doubloons"}), driver)

	assert.True(t, strings.HasPrefix(prompt, "You are a pirate tutor."))
	assert.Contains(t, prompt, "doubloons")
}

func TestQueryOptionsInjectsSystemPrompt(t *testing.T) {
	driver := &fakeChat{lang: MODEL_BASE_LANGUAGE_EN}
	opts := NewQueryOptions(context.Background(), driver, []*types.MessageContext{
		{Role: types.USER_ROLE_USER.String(), Content: "what is ${thing}?"},
	})

	_, err := opts.WithPrompt("Explain ${thing} simply.").WithVar("${thing}", "recursion").Query()
	assert.NoError(t, err)
	assert.Len(t, driver.received, 2)
	assert.Equal(t, types.USER_ROLE_SYSTEM.String(), driver.received[0].Role)
	assert.Equal(t, "Explain recursion simply.", driver.received[0].Content)
}

func TestDeclineAndDegradedDiffer(t *testing.T) {
	driver := &fakeChat{lang: MODEL_BASE_LANGUAGE_EN}
	assert.NotEqual(t, DeclineMessage(driver), DegradedMessage(driver))
}

type blockingChat struct {
	lang string
}

func (f *blockingChat) Query(ctx context.Context, query []*types.MessageContext) (GenerateResponse, error) {
	<-ctx.Done()
	return GenerateResponse{}, ctx.Err()
}

func (f *blockingChat) Lang() string { return f.lang }
func (f *blockingChat) Name() string { return "blocking" }

func TestQueryBoundedWhenBackendHangs(t *testing.T) {
	driver := &blockingChat{lang: MODEL_BASE_LANGUAGE_EN}
	opts := NewQueryOptions(context.Background(), driver, []*types.MessageContext{
		{Role: types.USER_ROLE_USER.String(), Content: "hello"},
	}).WithTimeout(50 * time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := opts.Query()
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("query was not bounded by the timeout")
	}
}

func TestQueryAppliesDefaultDeadline(t *testing.T) {
	var sawDeadline bool
	driver := &deadlineChat{onQuery: func(ctx context.Context) {
		_, sawDeadline = ctx.Deadline()
	}}

	_, err := NewQueryOptions(context.Background(), driver, []*types.MessageContext{
		{Role: types.USER_ROLE_USER.String(), Content: "hello"},
	}).Query()
	assert.NoError(t, err)
	assert.True(t, sawDeadline)
}

type deadlineChat struct {
	onQuery func(ctx context.Context)
}

func (f *deadlineChat) Query(ctx context.Context, query []*types.MessageContext) (GenerateResponse, error) {
	f.onQuery(ctx)
	return GenerateResponse{Received: []string{"ok"}}, nil
}

func (f *deadlineChat) Lang() string { return MODEL_BASE_LANGUAGE_EN }
func (f *deadlineChat) Name() string { return "deadline" }

func TestDeclineAndDegradedLocalized(t *testing.T) {
	en := &fakeChat{lang: MODEL_BASE_LANGUAGE_EN}
	cn := &fakeChat{lang: MODEL_BASE_LANGUAGE_CN}

	assert.Equal(t, DECLINE_MESSAGE_EN, DeclineMessage(en))
	assert.Equal(t, DECLINE_MESSAGE_CN, DeclineMessage(cn))
	assert.Equal(t, DEGRADED_MESSAGE_EN, DegradedMessage(en))
	assert.Equal(t, DEGRADED_MESSAGE_CN, DegradedMessage(cn))
	assert.NotEqual(t, DeclineMessage(cn), DegradedMessage(cn))
}
