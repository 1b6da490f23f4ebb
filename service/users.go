package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/blogverse/models"
)

// withoutCredentials strips the password hash before a user leaves the service.
func withoutCredentials(user models.User) models.User {
	user.PasswordHash = ""
	return user
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.Store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return models.User{}, storeError("find user by email", err)
	}
	return user, nil
}

func (s *Service) FindUserById(ctx context.Context, userId string) (models.User, error) {
	user, err := s.Store.GetUser(ctx, strings.TrimSpace(userId))
	if err != nil {
		return models.User{}, storeError("find user by id", err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	for i := range users {
		users[i] = withoutCredentials(users[i])
	}
	return users, nil
}

// SignUp creates a user if no user with the same email is on record.
// The existence check and the write are separate round trips, so two
// concurrent sign-ups for one email can both succeed.
func (s *Service) SignUp(ctx context.Context, name string, email string, password string) (models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := ValidateSignUp(name, email, password); err != nil {
		return models.User{}, err
	}

	_, err := s.FindUserByEmail(ctx, email)
	if err == nil {
		return models.User{}, ErrAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	userId, err := uuid.NewV4()
	if err != nil {
		return models.User{}, fmt.Errorf("generate user id: %w", err)
	}

	user := models.User{
		UserId:       userId.String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Blogs:        []string{},
	}

	created, err := s.Store.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, storeError("create user", err)
	}

	return withoutCredentials(created), nil
}

// Login confirms the credentials and returns the user. No session is issued.
func (s *Service) Login(ctx context.Context, email string, password string) (models.User, error) {
	if err := ValidateLogin(email, password); err != nil {
		return models.User{}, err
	}

	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	if !s.Hasher.Verify(user.PasswordHash, password) {
		return models.User{}, ErrBadCredentials
	}

	return withoutCredentials(user), nil
}

// AppendBlog appends blogId to the user's backlinks unconditionally.
// Calling it twice with the same id records the id twice.
func (s *Service) AppendBlog(ctx context.Context, email string, blogId string) error {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.Store.AppendUserBlog(ctx, user.UserId, blogId); err != nil {
		return storeError("append blog backlink", err)
	}
	return nil
}

// RemoveBlog drops blogId from the user's backlinks.
func (s *Service) RemoveBlog(ctx context.Context, email string, blogId string) error {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.removeBlogBacklink(ctx, user.UserId, blogId)
}
