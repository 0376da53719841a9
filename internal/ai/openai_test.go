package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	errs  []error
	calls int
	last  []*schema.Message
}

func (f *fakeChat) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	f.last = in
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &schema.Message{Role: schema.Assistant, Content: `{"title":"ok"}`}, nil
}

func fastClient(chat chatGenerator) *OpenAIClient {
	c := newOpenAIClient(chat, 60000, time.Second)
	c.baseDelay = time.Millisecond
	return c
}

func TestOpenAIClient_RetriesRateLimit(t *testing.T) {
	chat := &fakeChat{errs: []error{errors.New("status 429: Too Many Requests")}}
	c := fastClient(chat)

	out, err := c.GenerateCompletion(context.Background(), "prompt", true)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"ok"}`, out)
	assert.Equal(t, 2, chat.calls)
	require.Len(t, chat.last, 2)
	assert.Equal(t, schema.System, chat.last[0].Role)
	assert.Equal(t, "prompt", chat.last[1].Content)
}

func TestOpenAIClient_OtherErrorsFailFast(t *testing.T) {
	chat := &fakeChat{errs: []error{errors.New("401 unauthorized")}}
	c := fastClient(chat)

	_, err := c.GenerateCompletion(context.Background(), "prompt", false)
	require.Error(t, err)
	assert.Equal(t, 1, chat.calls)
}

func TestOpenAIClient_GivesUp(t *testing.T) {
	limited := errors.New("429")
	chat := &fakeChat{errs: []error{limited, limited, limited, limited, limited}}
	c := fastClient(chat)

	_, err := c.GenerateCompletion(context.Background(), "prompt", false)
	require.ErrorIs(t, err, limited)
	assert.Equal(t, openAIMaxRetries+1, chat.calls)
}
