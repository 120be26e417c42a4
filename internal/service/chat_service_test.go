package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdyhasan/augmind/internal/backend/backendtest"
	"github.com/mahdyhasan/augmind/internal/dto"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/internal/service"
	"github.com/mahdyhasan/augmind/pkg/assistant"
)

func TestSendMessageLeavesSharedProfileUntouched(t *testing.T) {
	fake := backendtest.New()
	svc := service.NewChatService(fake, assistant.NewCanned(), nil, testLogger(t))

	caller := userWithRole(entity.RoleBusinessDev)
	caller.Profile.TokenLimit = 100000
	caller.Profile.WordLimit = 100000
	caller.Profile.TokensUsed = 10
	caller.Profile.WordsUsed = 5

	// The caller is shared by every request of the browser session, so
	// parallel sends must never write to it.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SendMessage(context.Background(), caller, &dto.SendMessageRequest{
				Content: "hello there",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, caller.Profile.TokensUsed)
	assert.Equal(t, 5, caller.Profile.WordsUsed)
	assert.Zero(t, caller.Profile.DailyRequests)
	assert.Nil(t, caller.Profile.LastRequestDate)
}

func TestSendMessageTitleTruncatesOnRuneBoundary(t *testing.T) {
	fake := backendtest.New()
	var title string
	fake.InsertFn = func(ctx context.Context, q *backendtest.Query, record, dest interface{}) error {
		if conv, ok := record.(*entity.Conversation); ok {
			title = conv.Title
		}
		return nil
	}
	svc := service.NewChatService(fake, assistant.NewCanned(), nil, testLogger(t))

	content := "x" + strings.Repeat("ö", 61)
	_, err := svc.SendMessage(context.Background(), userWithRole(entity.RoleBusinessDev), &dto.SendMessageRequest{
		Content: content,
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(title), "title must never split a multi-byte character")
	assert.Equal(t, 61, utf8.RuneCountInString(title))
	assert.True(t, strings.HasSuffix(title, "…"))
}
