package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/zlnvch/blogverse/store"
	"github.com/zlnvch/blogverse/worker"
)

const maxBacklinkSwapAttempts = 3

func withoutBlog(blogs []string, blogId string) ([]string, bool) {
	filtered := make([]string, 0, len(blogs))
	removed := false
	for _, id := range blogs {
		if id == blogId {
			removed = true
			continue
		}
		filtered = append(filtered, id)
	}
	return filtered, removed
}

// removeBlogBacklink rewrites the user's backlinks without blogId.
// Each write is a compare-and-swap against the sequence that was read, so a
// concurrent append or removal is not silently undone. After
// maxBacklinkSwapAttempts lost races it falls back to an unconditional
// write, where the last writer wins.
func (s *Service) removeBlogBacklink(ctx context.Context, userId string, blogId string) error {
	for attempt := 1; attempt <= maxBacklinkSwapAttempts; attempt++ {
		user, err := s.Store.GetUser(ctx, userId)
		if err != nil {
			return storeError("get user for backlink removal", err)
		}

		filtered, removed := withoutBlog(user.Blogs, blogId)
		if !removed {
			return nil
		}

		err = s.Store.SetUserBlogs(ctx, userId, filtered, user.Blogs)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConditionFailed) {
			return storeError("remove blog backlink", err)
		}
		log.Printf("Backlinks of user %s changed while removing blog %s (attempt %d)", userId, blogId, attempt)
	}

	user, err := s.Store.GetUser(ctx, userId)
	if err != nil {
		return storeError("get user for backlink removal", err)
	}
	filtered, removed := withoutBlog(user.Blogs, blogId)
	if !removed {
		return nil
	}
	log.Printf("Falling back to unconditional backlink write for user %s", userId)
	if err := s.Store.SetUserBlogs(ctx, userId, filtered, nil); err != nil {
		return storeError("remove blog backlink", err)
	}
	return nil
}

// enqueueBacklinkRepair hands a failed backlink step to the repair worker.
// A failure to enqueue is only logged: the primary write already succeeded.
func (s *Service) enqueueBacklinkRepair(ctx context.Context, msg worker.BacklinkRepairMessage) {
	if s.RepairQueue == nil {
		log.Printf("No repair queue configured, backlink %s of blog %s for user %s left inconsistent", msg.Op, msg.BlogId, msg.UserId)
		return
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal backlink repair message: %v", err)
		return
	}

	if err := s.RepairQueue.Send(ctx, string(body)); err != nil {
		log.Printf("Failed to enqueue backlink %s repair of blog %s for user %s: %v", msg.Op, msg.BlogId, msg.UserId, err)
	}
}

// RepairBacklink retries a backlink step that failed during a blog create or delete.
// Repairs are idempotent: appends skip ids already present and blogs that no
// longer exist, removals skip ids already gone.
func (s *Service) RepairBacklink(ctx context.Context, msg worker.BacklinkRepairMessage) error {
	switch msg.Op {
	case worker.RepairAppend:
		if _, err := s.GetBlog(ctx, msg.BlogId); err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Printf("Skipping backlink append, blog %s no longer exists", msg.BlogId)
				return nil
			}
			return err
		}

		err := s.Store.AppendUserBlogIfAbsent(ctx, msg.UserId, msg.BlogId)
		if err != nil && !errors.Is(err, store.ErrConditionFailed) {
			return storeError("repair blog backlink", err)
		}
		return nil

	case worker.RepairRemove:
		err := s.removeBlogBacklink(ctx, msg.UserId, msg.BlogId)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err

	default:
		return fmt.Errorf("unknown backlink repair op: %q", msg.Op)
	}
}
