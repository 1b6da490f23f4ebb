package store

import (
	"context"
	"errors"

	"github.com/zlnvch/blogverse/models"
)

type BlogverseStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, userId string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AppendUserBlog(ctx context.Context, userId string, blogId string) error
	AppendUserBlogIfAbsent(ctx context.Context, userId string, blogId string) error
	SetUserBlogs(ctx context.Context, userId string, blogs []string, prior []string) error

	CreateBlog(ctx context.Context, blog models.Blog) (models.Blog, error)
	GetBlog(ctx context.Context, blogId string) (models.Blog, error)
	ListBlogs(ctx context.Context) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, blogId string, update models.BlogUpdate) (models.Blog, error)
	DeleteBlog(ctx context.Context, blogId string) error
	ListBlogsByUser(ctx context.Context, userId string) ([]models.Blog, error)
}

// Custom error types for clarity
var (
	ErrItemNotFound    = errors.New("item does not exist")
	ErrConditionFailed = errors.New("condition not met")
)
