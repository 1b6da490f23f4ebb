package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zlnvch/blogverse/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, userId string) (models.User, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStore) AppendUserBlog(ctx context.Context, userId string, blogId string) error {
	args := m.Called(ctx, userId, blogId)
	return args.Error(0)
}

func (m *MockStore) AppendUserBlogIfAbsent(ctx context.Context, userId string, blogId string) error {
	args := m.Called(ctx, userId, blogId)
	return args.Error(0)
}

func (m *MockStore) SetUserBlogs(ctx context.Context, userId string, blogs []string, prior []string) error {
	args := m.Called(ctx, userId, blogs, prior)
	return args.Error(0)
}

func (m *MockStore) CreateBlog(ctx context.Context, blog models.Blog) (models.Blog, error) {
	args := m.Called(ctx, blog)
	return args.Get(0).(models.Blog), args.Error(1)
}

func (m *MockStore) GetBlog(ctx context.Context, blogId string) (models.Blog, error) {
	args := m.Called(ctx, blogId)
	return args.Get(0).(models.Blog), args.Error(1)
}

func (m *MockStore) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Blog), args.Error(1)
}

func (m *MockStore) UpdateBlog(ctx context.Context, blogId string, update models.BlogUpdate) (models.Blog, error) {
	args := m.Called(ctx, blogId, update)
	return args.Get(0).(models.Blog), args.Error(1)
}

func (m *MockStore) DeleteBlog(ctx context.Context, blogId string) error {
	args := m.Called(ctx, blogId)
	return args.Error(0)
}

func (m *MockStore) ListBlogsByUser(ctx context.Context, userId string) ([]models.Blog, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).([]models.Blog), args.Error(1)
}
