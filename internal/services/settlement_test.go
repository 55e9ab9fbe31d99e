package services

import (
	"context"
	"testing"
	"time"

	model "github.com/glkeru/rewear/internal/models"
	uuid "github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestServiceCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	item := availableItem(itemI, userY, 20)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 50}, nil)
	storage.EXPECT().SwapCreate(gomock.Any(), gomock.Any()).Return(nil)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	swap, err := serv.Create(context.Background(), userX, CreateParams{
		Item:          itemI,
		SwapType:      model.SwapForPoints,
		OfferedPoints: 20,
	})
	require.NoError(t, err)
	require.Equal(t, model.SwapPending, swap.Status)
	require.Equal(t, userX, swap.Requester)
	require.Equal(t, userY, swap.ItemOwner)
}

func TestServiceCreateDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	item := availableItem(itemI, userY, 20)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 50}, nil)
	storage.EXPECT().SwapCreate(gomock.Any(), gomock.Any()).Return(model.ErrDuplicateRequest)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	_, err := serv.Create(context.Background(), userX, CreateParams{
		Item:          itemI,
		SwapType:      model.SwapForPoints,
		OfferedPoints: 20,
	})
	require.ErrorIs(t, err, model.ErrDuplicateRequest)
}

func TestServiceCreateItemNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(model.Item{}, model.ErrNotFound)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX}, nil).AnyTimes()

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	_, err := serv.Create(context.Background(), userX, CreateParams{
		Item:          itemI,
		SwapType:      model.SwapForPoints,
		OfferedPoints: 20,
	})
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestServiceAccept(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	item := availableItem(itemI, userY, 20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 50}, nil)
	storage.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, settle model.Settlement) error {
			require.Equal(t, model.SwapPending, settle.FromStatus)
			require.Equal(t, model.SwapAccepted, settle.Swap.Status)
			require.Len(t, settle.Entries, 3)
			return nil
		})

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	got, err := serv.Accept(context.Background(), userY, swap.UUID, "ok")
	require.NoError(t, err)
	require.Equal(t, model.SwapAccepted, got.Status)
	require.True(t, got.PointsTransferred)
}

func TestServiceAcceptNotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	item := availableItem(itemI, userY, 20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 50}, nil)
	// Apply не вызывается

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	_, err := serv.Accept(context.Background(), userZ, swap.UUID, "")
	require.ErrorIs(t, err, model.ErrNotAuthorized)
}

func TestServiceAcceptLostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	// хранилище отклоняет CAS по статусу - заявка уже переведена конкурентом
	swap := pendingPointsSwap(20)
	item := availableItem(itemI, userY, 20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 50}, nil)
	storage.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(model.ErrInvalidTransition)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	_, err := serv.Accept(context.Background(), userY, swap.UUID, "")
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestServiceReject(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	got, err := serv.Reject(context.Background(), userY, swap.UUID, "no")
	require.NoError(t, err)
	require.Equal(t, model.SwapRejected, got.Status)
}

func TestServiceCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	got, err := serv.Cancel(context.Background(), userX, swap.UUID, "later")
	require.NoError(t, err)
	require.Equal(t, model.SwapCancelled, got.Status)
	require.Equal(t, userX, got.CancelledBy)
}

func TestServiceMarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil).Times(2)
	storage.EXPECT().SwapMarkRead(gomock.Any(), swap.UUID, gomock.Any()).Return(nil)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	require.NoError(t, serv.MarkRead(context.Background(), userY, swap.UUID))

	// не участник
	err := serv.MarkRead(context.Background(), userZ, swap.UUID)
	require.ErrorIs(t, err, model.ErrNotAuthorized)
}

func TestServiceGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingPointsSwap(20)
	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil).Times(3)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	for _, caller := range []uuid.UUID{userX, userY} {
		got, err := serv.Get(context.Background(), caller, swap.UUID)
		require.NoError(t, err)
		require.Equal(t, swap.UUID, got.UUID)
	}
	_, err := serv.Get(context.Background(), userZ, swap.UUID)
	require.ErrorIs(t, err, model.ErrNotAuthorized)
}

func TestServiceGetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	storage.EXPECT().UserGet(gomock.Any(), userX).Return(model.User{UUID: userX, Points: 42}, nil)

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	points, err := serv.GetBalance(context.Background(), userX)
	require.NoError(t, err)
	require.Equal(t, 42, points)
}

func TestServiceCompleteIdempotentItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	swap := pendingDirectSwap()
	swap.Status = model.SwapAccepted
	item := model.Item{UUID: itemI, Uploader: userY, Points: 20, Status: model.ItemSwapped, CreatedAt: time.Now()}
	offered := model.Item{UUID: itemJ, Uploader: userX, Points: 10, Status: model.ItemSwapped, CreatedAt: time.Now()}

	storage.EXPECT().SwapGet(gomock.Any(), swap.UUID).Return(swap, nil)
	storage.EXPECT().ItemGet(gomock.Any(), itemI).Return(item, nil)
	storage.EXPECT().ItemGet(gomock.Any(), itemJ).Return(offered, nil)
	storage.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, settle model.Settlement) error {
			require.Empty(t, settle.Items)
			require.ElementsMatch(t, []uuid.UUID{userX, userY}, settle.Completed)
			return nil
		})

	serv := NewSettlementService(zap.NewNop(), storage, nil, nil)
	got, err := serv.Complete(context.Background(), userX, swap.UUID)
	require.NoError(t, err)
	require.Equal(t, model.SwapCompleted, got.Status)
}
