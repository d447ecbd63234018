package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"inn/config"
	"inn/infras/otel/mocks"
	roomMocks "inn/internal/domains/room/mocks"
	"inn/internal/domains/room/model"
	"inn/internal/domains/room/model/dto"
	"inn/internal/domains/room/repository"
	"inn/internal/domains/room/service"
	cacheMocks "inn/shared/cache/mocks"
	gDto "inn/shared/dto"
	"inn/shared/failure"
)

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	// Invalidation and save run in goroutines, so they may or may not land
	// before the test finishes.
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	return svc, mockRepo, mockCache
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(repo *roomMocks.MockRoom)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "room created with explicit category",
			req:  dto.CreateRoomRequest{RoomNumber: "101", Category: "AC"},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "category defaults when omitted",
			req:  dto.CreateRoomRequest{RoomNumber: "102"},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "duplicate room number",
			req:  dto.CreateRoomRequest{RoomNumber: "101"},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23505"})
			},
			wantErr:  true,
			wantKind: failure.KindDuplicate,
		},
		{
			name: "repository failure",
			req:  dto.CreateRoomRequest{RoomNumber: "101"},
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			res, err := svc.Create(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.RoomNumber, res.RoomNumber)

			if tt.req.Category == "" {
				assert.Equal(t, model.CategoryNonAC, res.Category)
			} else {
				assert.Equal(t, tt.req.Category, res.Category)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	req := gDto.QueryParams{Page: 1, Limit: 10}
	filter := gDto.FilterGroup{}

	t.Run("cache miss falls through to repository", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		rooms := []model.Room{
			{RoomNumber: "101", Category: "AC"},
			{RoomNumber: "102", Category: "Non-AC"},
		}

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(2, nil)

		mockRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(rooms, nil)

		res, err := svc.GetAll(context.Background(), req, filter)

		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		svc, _, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				cached, _ := value.(*dto.GetRoomsResponse)
				cached.Rooms = []dto.RoomResponse{{RoomNumber: "101", Category: "AC"}}
				cached.TotalData = 1
				cached.TotalPage = 1

				return nil
			})

		res, err := svc.GetAll(context.Background(), req, filter)

		assert.NoError(t, err)
		assert.Len(t, res.Rooms, 1)
		assert.Equal(t, "101", res.Rooms[0].RoomNumber)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		mockRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(0, errors.New("connection refused"))

		_, err := svc.GetAll(context.Background(), req, filter)

		assert.Error(t, err)
	})
}

func TestRoomService_Remove(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom)
		wantErr   bool
		wantKind  string
	}{
		{
			name: "room removed",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Remove(gomock.Any(), "101").
					Return(nil)
			},
		},
		{
			name: "room not found",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Remove(gomock.Any(), "101").
					Return(repository.ErrRoomNotFound)
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "room has active bookings",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Remove(gomock.Any(), "101").
					Return(repository.ErrHasActiveBookings)
			},
			wantErr:  true,
			wantKind: failure.KindActiveBookings,
		},
		{
			name: "repository failure",
			setupMock: func(repo *roomMocks.MockRoom) {
				repo.EXPECT().
					Remove(gomock.Any(), "101").
					Return(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			err := svc.Remove(context.Background(), "101")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, failure.GetKind(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}
