package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/blogverse/models"
	"github.com/zlnvch/blogverse/worker"
)

// BlogInput is a new blog. The owner is named by UserEmail or, if that is empty, by UserId.
type BlogInput struct {
	Title     string
	Desc      string
	Img       string
	UserEmail string
	UserId    string
}

// ListBlogs reads the whole Blogs collection in no particular order.
func (s *Service) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	blogs, err := s.Store.ListBlogs(ctx)
	if err != nil {
		return nil, storeError("list blogs", err)
	}
	return blogs, nil
}

func (s *Service) GetBlog(ctx context.Context, blogId string) (models.Blog, error) {
	blog, err := s.Store.GetBlog(ctx, blogId)
	if err != nil {
		return models.Blog{}, storeError("get blog", err)
	}
	return blog, nil
}

// resolveOwner looks a user up by email, or by user id when no email is given.
func (s *Service) resolveOwner(ctx context.Context, email string, userId string) (models.User, error) {
	if strings.TrimSpace(email) != "" {
		return s.FindUserByEmail(ctx, email)
	}
	return s.FindUserById(ctx, userId)
}

// CreateBlog writes the blog and then appends its id to the owner's backlinks.
// The two writes are not atomic. If the append fails the blog still counts as
// created and the append is queued for repair.
func (s *Service) CreateBlog(ctx context.Context, input BlogInput) (models.Blog, error) {
	if err := ValidateBlogInput(input); err != nil {
		return models.Blog{}, err
	}

	owner, err := s.resolveOwner(ctx, input.UserEmail, input.UserId)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Blog{}, ErrUnauthorizedUser
		}
		return models.Blog{}, err
	}

	blogId, err := uuid.NewV7()
	if err != nil {
		return models.Blog{}, fmt.Errorf("generate blog id: %w", err)
	}

	blog := models.Blog{
		BlogId:    blogId.String(),
		UserId:    owner.UserId,
		UserEmail: owner.Email,
		Title:     input.Title,
		Desc:      input.Desc,
		Img:       input.Img,
		Date:      time.Now().UTC().Truncate(time.Millisecond),
	}

	created, err := s.Store.CreateBlog(ctx, blog)
	if err != nil {
		return models.Blog{}, storeError("create blog", err)
	}

	if err := s.Store.AppendUserBlog(ctx, owner.UserId, created.BlogId); err != nil {
		log.Printf("Blog %s created but backlink append for user %s failed: %v", created.BlogId, owner.UserId, err)
		s.enqueueBacklinkRepair(ctx, worker.BacklinkRepairMessage{
			Op:        worker.RepairAppend,
			UserId:    owner.UserId,
			UserEmail: owner.Email,
			BlogId:    created.BlogId,
		})
	}

	s.publishBlogEvent(BlogCreatedEvent, created)
	return created, nil
}

// UpdateBlog changes only the supplied fields. An update with nothing
// supplied returns the stored blog unchanged.
func (s *Service) UpdateBlog(ctx context.Context, blogId string, update models.BlogUpdate) (models.Blog, error) {
	if err := ValidateBlogUpdate(update); err != nil {
		return models.Blog{}, err
	}

	if update.IsEmpty() {
		return s.GetBlog(ctx, blogId)
	}

	updated, err := s.Store.UpdateBlog(ctx, blogId, update)
	if err != nil {
		return models.Blog{}, storeError("update blog", err)
	}

	s.publishBlogEvent(BlogUpdatedEvent, updated)
	return updated, nil
}

// DeleteBlog removes the blog and then its id from the owner's backlinks.
// Once the blog record is gone the delete has succeeded; a failed backlink
// cleanup is logged and queued for repair.
func (s *Service) DeleteBlog(ctx context.Context, blogId string) error {
	blog, err := s.GetBlog(ctx, blogId)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteBlog(ctx, blogId); err != nil {
		return storeError("delete blog", err)
	}

	if err := s.removeBlogBacklink(ctx, blog.UserId, blogId); err != nil {
		log.Printf("Blog %s deleted but backlink removal for user %s failed: %v", blogId, blog.UserId, err)
		if !errors.Is(err, ErrNotFound) {
			s.enqueueBacklinkRepair(ctx, worker.BacklinkRepairMessage{
				Op:        worker.RepairRemove,
				UserId:    blog.UserId,
				UserEmail: blog.UserEmail,
				BlogId:    blogId,
			})
		}
	}

	s.publishBlogEvent(BlogDeletedEvent, blog)
	return nil
}

// ListBlogsByOwner returns the owner's profile and blogs. ownerRef is an
// email if it contains "@", otherwise a user id. An owner without blogs
// yields an empty slice.
func (s *Service) ListBlogsByOwner(ctx context.Context, ownerRef string) (models.UserProfile, []models.Blog, error) {
	var owner models.User
	var err error
	if strings.Contains(ownerRef, "@") {
		owner, err = s.FindUserByEmail(ctx, ownerRef)
	} else {
		owner, err = s.FindUserById(ctx, ownerRef)
	}
	if err != nil {
		return models.UserProfile{}, nil, err
	}

	blogs, err := s.Store.ListBlogsByUser(ctx, owner.UserId)
	if err != nil {
		return models.UserProfile{}, nil, storeError("list blogs by user", err)
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}

	return owner.Profile(), blogs, nil
}
