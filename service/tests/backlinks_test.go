package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/blogverse/models"
	"github.com/zlnvch/blogverse/service"
	"github.com/zlnvch/blogverse/store"
	"github.com/zlnvch/blogverse/worker"
)

func TestRepairBacklink_AppendIsIdempotent(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1", UserId: "u1"}, nil)
	mockStore.On("AppendUserBlogIfAbsent", ctx, "u1", "b1").Return(store.ErrConditionFailed)

	err := svc.RepairBacklink(ctx, worker.BacklinkRepairMessage{Op: worker.RepairAppend, UserId: "u1", BlogId: "b1"})
	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "AppendUserBlog", mock.Anything, mock.Anything, mock.Anything)
}

func TestRepairBacklink_AppendSkipsDeletedBlog(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{}, store.ErrItemNotFound)

	err := svc.RepairBacklink(ctx, worker.BacklinkRepairMessage{Op: worker.RepairAppend, UserId: "u1", BlogId: "b1"})
	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "AppendUserBlogIfAbsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRepairBacklink_AppendStoreFailure(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1"}, nil)
	mockStore.On("AppendUserBlogIfAbsent", ctx, "u1", "b1").Return(assert.AnError)

	err := svc.RepairBacklink(ctx, worker.BacklinkRepairMessage{Op: worker.RepairAppend, UserId: "u1", BlogId: "b1"})
	assert.ErrorIs(t, err, service.ErrStoreFailure)
}

func TestRepairBacklink_Remove(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "u1").Return(models.User{UserId: "u1", Blogs: []string{"b1", "b2"}}, nil)
	mockStore.On("SetUserBlogs", ctx, "u1", []string{"b2"}, []string{"b1", "b2"}).Return(nil)

	err := svc.RepairBacklink(ctx, worker.BacklinkRepairMessage{Op: worker.RepairRemove, UserId: "u1", BlogId: "b1"})
	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestRepairBacklink_RemoveOwnerGone(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "u1").Return(models.User{}, store.ErrItemNotFound)

	err := svc.RepairBacklink(ctx, worker.BacklinkRepairMessage{Op: worker.RepairRemove, UserId: "u1", BlogId: "b1"})
	assert.NoError(t, err)
}

func TestRepairBacklink_UnknownOp(t *testing.T) {
	svc, _, _, _ := setupService(t)

	err := svc.RepairBacklink(context.Background(), worker.BacklinkRepairMessage{Op: "rename", BlogId: "b1"})
	assert.Error(t, err)
}

func TestRepairQueueFailureDoesNotFailCreate(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	expectCreateBlog(mockStore, ctx)
	mockStore.On("AppendUserBlog", ctx, "u1", "b1").Return(assert.AnError)
	mockMQ.On("Send", ctx, mock.Anything).Return(assert.AnError)

	_, err := svc.CreateBlog(ctx, newBlogInput())
	assert.NoError(t, err)
}
