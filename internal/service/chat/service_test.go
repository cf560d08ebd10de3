package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatmodel "github.com/zhouzirui/po-simulator/backend/internal/model/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	chat "github.com/zhouzirui/po-simulator/backend/internal/service/chat"
)

func fixedClock() func() time.Time {
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestPairHistoryKeepsBothDirections(t *testing.T) {
	svc := chat.NewService(chat.WithClock(fixedClock()))
	ctx := context.Background()

	_, err := svc.AddPrivateMessage(ctx, "po", persona.Dev, "Wie steht die API?", "evt-1")
	require.NoError(t, err)
	_, err = svc.AddPrivateReply(ctx, persona.Dev, "po", "Fast fertig.", "evt-1")
	require.NoError(t, err)
	_, err = svc.AddPrivateMessage(ctx, "po", persona.UX, "Wireframes?", "")
	require.NoError(t, err)

	dev := svc.PairHistory(ctx, "po", persona.Dev)
	require.Len(t, dev, 2)
	assert.Equal(t, "po", dev[0].SenderID)
	assert.Equal(t, "dev", dev[0].ReceiverID)
	assert.Equal(t, "dev", dev[1].SenderID)
	assert.Equal(t, "po", dev[1].ReceiverID)
	assert.True(t, dev[0].Timestamp.Before(dev[1].Timestamp))
	assert.NotEqual(t, dev[0].ID, dev[1].ID)

	all := svc.AllMessages(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "Wireframes?", all[2].Content)
}

func TestAppendInfersDirection(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	msg, err := svc.Append(ctx, "stake", "po", "Zahlen bitte.", "")
	require.NoError(t, err)
	assert.Equal(t, "stake", msg.SenderID)
	assert.Len(t, svc.PairHistory(ctx, "po", persona.Stake), 1)

	_, err = svc.Append(ctx, "po", "player2", "hi", "")
	assert.ErrorIs(t, err, chat.ErrUnknownRole)

	_, err = svc.Append(ctx, "dev", "ux", "hi", "")
	assert.ErrorIs(t, err, chat.ErrUnknownRole)
}

func TestAppendValidation(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	_, err := svc.AddPrivateMessage(ctx, "", persona.Coach, "hi", "")
	assert.ErrorIs(t, err, chat.ErrPlayerRequired)

	_, err = svc.AddPrivateMessage(ctx, "po", persona.Coach, "", "")
	assert.ErrorIs(t, err, chat.ErrContentRequired)

	_, err = svc.AddPrivateMessage(ctx, "po", persona.RoleID("cto"), "hi", "")
	assert.ErrorIs(t, err, chat.ErrUnknownRole)

	assert.Empty(t, svc.AllMessages(ctx))
}

func TestNotifierAndCopies(t *testing.T) {
	var seen []chatmodel.Message
	svc := chat.NewService(chat.WithNotifier(func(m chatmodel.Message) { seen = append(seen, m) }))
	ctx := context.Background()

	_, err := svc.AddPrivateMessage(ctx, "po", persona.Coach, "Sprint Review?", "")
	require.NoError(t, err)
	require.Len(t, seen, 1)

	history := svc.PairHistory(ctx, "po", persona.Coach)
	history[0].Content = "mutated"
	assert.Equal(t, "Sprint Review?", svc.PairHistory(ctx, "po", persona.Coach)[0].Content)
	assert.Equal(t, "po-coach", chat.PairKey("po", persona.Coach))
}
