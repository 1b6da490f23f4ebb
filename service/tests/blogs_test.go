package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zlnvch/blogverse/models"
	pubsubmocks "github.com/zlnvch/blogverse/pubsub/mocks"
	"github.com/zlnvch/blogverse/service"
	"github.com/zlnvch/blogverse/store"
	storemocks "github.com/zlnvch/blogverse/store/mocks"
	"github.com/zlnvch/blogverse/worker"
)

var owner = models.User{
	UserId: "u1",
	Name:   "Alice",
	Email:  "alice@example.com",
	Blogs:  []string{},
}

func newBlogInput() service.BlogInput {
	return service.BlogInput{
		Title:     "Hello",
		Desc:      "First post",
		Img:       "https://img.example.com/1.png",
		UserEmail: "Alice@Example.com",
	}
}

func expectCreateBlog(mockStore *storemocks.MockStore, ctx context.Context) {
	mockStore.On("CreateBlog", ctx, mock.MatchedBy(func(blog models.Blog) bool {
		return blog.BlogId != "" &&
			blog.UserId == "u1" &&
			blog.UserEmail == "alice@example.com" &&
			blog.Title == "Hello" &&
			!blog.Date.IsZero()
	})).Return(models.Blog{
		BlogId:    "b1",
		UserId:    "u1",
		UserEmail: "alice@example.com",
		Title:     "Hello",
		Desc:      "First post",
	}, nil)
}

func TestCreateBlog_Success(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	expectCreateBlog(mockStore, ctx)
	mockStore.On("AppendUserBlog", ctx, "u1", "b1").Return(nil).Once()

	blog, err := svc.CreateBlog(ctx, newBlogInput())
	require.NoError(t, err)
	assert.Equal(t, "b1", blog.BlogId)
	assert.Equal(t, "u1", blog.UserId)

	mockStore.AssertNumberOfCalls(t, "AppendUserBlog", 1)
	mockMQ.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCreateBlog_ByUserId(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "u1").Return(owner, nil)
	expectCreateBlog(mockStore, ctx)
	mockStore.On("AppendUserBlog", ctx, "u1", "b1").Return(nil)

	input := newBlogInput()
	input.UserEmail = ""
	input.UserId = "u1"

	_, err := svc.CreateBlog(ctx, input)
	require.NoError(t, err)
	mockStore.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestCreateBlog_UnknownOwner(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(models.User{}, store.ErrItemNotFound)

	_, err := svc.CreateBlog(ctx, newBlogInput())
	assert.ErrorIs(t, err, service.ErrUnauthorizedUser)
	mockStore.AssertNotCalled(t, "CreateBlog", mock.Anything, mock.Anything)
}

func TestCreateBlog_MissingTitle(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)

	input := newBlogInput()
	input.Title = "  "

	_, err := svc.CreateBlog(context.Background(), input)
	assert.ErrorIs(t, err, service.ErrValidation)
	mockStore.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestCreateBlog_BacklinkFailureQueuesRepair(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	expectCreateBlog(mockStore, ctx)
	mockStore.On("AppendUserBlog", ctx, "u1", "b1").Return(assert.AnError)
	mockMQ.On("Send", ctx, repairMessage(worker.RepairAppend, "b1")).Return(nil).Once()

	blog, err := svc.CreateBlog(ctx, newBlogInput())
	require.NoError(t, err)
	assert.Equal(t, "b1", blog.BlogId)
	mockMQ.AssertExpectations(t)
}

func TestCreateBlog_StoreFailure(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	mockStore.On("CreateBlog", ctx, mock.Anything).Return(models.Blog{}, assert.AnError)

	_, err := svc.CreateBlog(ctx, newBlogInput())
	assert.ErrorIs(t, err, service.ErrStoreFailure)
	mockStore.AssertNotCalled(t, "AppendUserBlog", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBlog_PublishesEvent(t *testing.T) {
	mockStore := new(storemocks.MockStore)
	mockPubSub := new(pubsubmocks.MockPubSub)
	svc, err := service.NewService(mockStore, mockPubSub, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	expectCreateBlog(mockStore, ctx)
	mockStore.On("AppendUserBlog", ctx, "u1", "b1").Return(nil)

	var payload []byte
	publishCall := mockPubSub.On("Publish", mock.Anything, "blog-events", mock.Anything).Return(nil)
	done := make(chan struct{})
	publishCall.Run(func(args mock.Arguments) {
		payload = args.Get(2).([]byte)
		close(done)
	})

	_, err = svc.CreateBlog(ctx, newBlogInput())
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blog event was not published")
	}

	var event service.BlogEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, service.BlogCreatedEvent, event.Type)
	assert.Equal(t, "b1", event.Data.BlogId)
}

func TestGetBlog_NotFound(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "missing").Return(models.Blog{}, store.ErrItemNotFound)

	_, err := svc.GetBlog(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateBlog_OnlySuppliedFields(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	updated := models.Blog{BlogId: "b1", Title: "New", Desc: "First post"}
	mockStore.On("UpdateBlog", ctx, "b1", mock.MatchedBy(func(u models.BlogUpdate) bool {
		return u.Title != nil && *u.Title == "New" && u.Desc == nil && u.Img == nil
	})).Return(updated, nil)

	blog, err := svc.UpdateBlog(ctx, "b1", models.BlogUpdate{Title: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, updated, blog)
}

func TestUpdateBlog_EmptyUpdateReturnsCurrent(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	current := models.Blog{BlogId: "b1", Title: "Hello"}
	mockStore.On("GetBlog", ctx, "b1").Return(current, nil)

	blog, err := svc.UpdateBlog(ctx, "b1", models.BlogUpdate{})
	require.NoError(t, err)
	assert.Equal(t, current, blog)
	mockStore.AssertNotCalled(t, "UpdateBlog", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBlog_NotFound(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("UpdateBlog", ctx, "missing", mock.Anything).Return(models.Blog{}, store.ErrItemNotFound)

	_, err := svc.UpdateBlog(ctx, "missing", models.BlogUpdate{Desc: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateBlog_BlankTitleRejected(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)

	_, err := svc.UpdateBlog(context.Background(), "b1", models.BlogUpdate{Title: strPtr(" ")})
	assert.ErrorIs(t, err, service.ErrValidation)
	mockStore.AssertNotCalled(t, "UpdateBlog", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBlog_NotFound(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "missing").Return(models.Blog{}, store.ErrItemNotFound)

	err := svc.DeleteBlog(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
	mockStore.AssertNotCalled(t, "DeleteBlog", mock.Anything, mock.Anything)
}

func TestDeleteBlog_RemovesBacklink(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1", UserId: "u1"}, nil)
	mockStore.On("DeleteBlog", ctx, "b1").Return(nil)
	mockStore.On("GetUser", ctx, "u1").Return(models.User{UserId: "u1", Blogs: []string{"b0", "b1"}}, nil)
	mockStore.On("SetUserBlogs", ctx, "u1", []string{"b0"}, []string{"b0", "b1"}).Return(nil).Once()

	require.NoError(t, svc.DeleteBlog(ctx, "b1"))
	mockStore.AssertExpectations(t)
	mockMQ.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDeleteBlog_SwapRetriesThenFallsBack(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1", UserId: "u1"}, nil)
	mockStore.On("DeleteBlog", ctx, "b1").Return(nil)
	mockStore.On("GetUser", ctx, "u1").Return(models.User{UserId: "u1", Blogs: []string{"b1"}}, nil)
	mockStore.On("SetUserBlogs", ctx, "u1", []string{}, []string{"b1"}).Return(store.ErrConditionFailed).Times(3)
	mockStore.On("SetUserBlogs", ctx, "u1", []string{}, []string(nil)).Return(nil).Once()

	require.NoError(t, svc.DeleteBlog(ctx, "b1"))
	mockStore.AssertExpectations(t)
	mockStore.AssertNumberOfCalls(t, "GetUser", 4)
}

func TestDeleteBlog_BacklinkFailureQueuesRepair(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1", UserId: "u1"}, nil)
	mockStore.On("DeleteBlog", ctx, "b1").Return(nil)
	mockStore.On("GetUser", ctx, "u1").Return(models.User{}, assert.AnError)
	mockMQ.On("Send", ctx, repairMessage(worker.RepairRemove, "b1")).Return(nil).Once()

	require.NoError(t, svc.DeleteBlog(ctx, "b1"))
	mockMQ.AssertExpectations(t)
}

func TestDeleteBlog_OwnerGoneNoRepair(t *testing.T) {
	svc, mockStore, _, mockMQ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetBlog", ctx, "b1").Return(models.Blog{BlogId: "b1", UserId: "u1"}, nil)
	mockStore.On("DeleteBlog", ctx, "b1").Return(nil)
	mockStore.On("GetUser", ctx, "u1").Return(models.User{}, store.ErrItemNotFound)

	require.NoError(t, svc.DeleteBlog(ctx, "b1"))
	mockMQ.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestListBlogsByOwner_ByEmail(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	blogs := []models.Blog{{BlogId: "b1", UserId: "u1"}}
	mockStore.On("GetUserByEmail", ctx, "alice@example.com").Return(owner, nil)
	mockStore.On("ListBlogsByUser", ctx, "u1").Return(blogs, nil)

	profile, got, err := svc.ListBlogsByOwner(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserProfile{UserId: "u1", Name: "Alice", Email: "alice@example.com"}, profile)
	assert.Equal(t, blogs, got)
}

func TestListBlogsByOwner_ByIdEmpty(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "u1").Return(owner, nil)
	mockStore.On("ListBlogsByUser", ctx, "u1").Return([]models.Blog(nil), nil)

	_, got, err := svc.ListBlogsByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListBlogsByOwner_UnknownOwner(t *testing.T) {
	svc, mockStore, _, _ := setupService(t)
	ctx := context.Background()

	mockStore.On("GetUser", ctx, "missing").Return(models.User{}, store.ErrItemNotFound)

	_, _, err := svc.ListBlogsByOwner(ctx, "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
