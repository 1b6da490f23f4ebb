package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/zlnvch/blogverse/mq"
)

type RepairOp string

const (
	RepairAppend RepairOp = "append"
	RepairRemove RepairOp = "remove"
)

// BacklinkRepairMessage describes a backlink step that failed after the blog
// write it belongs to had already succeeded.
type BacklinkRepairMessage struct {
	Op        RepairOp `json:"op"`
	UserId    string   `json:"userId"`
	UserEmail string   `json:"userEmail"`
	BlogId    string   `json:"blogId"`
}

type BacklinkFixer interface {
	RepairBacklink(ctx context.Context, msg BacklinkRepairMessage) error
}

type BacklinkRepairer struct {
	repairQueue mq.MessageQueue
	fixer       BacklinkFixer
}

func NewBacklinkRepairer(repairQueue mq.MessageQueue, fixer BacklinkFixer) *BacklinkRepairer {
	return &BacklinkRepairer{
		repairQueue: repairQueue,
		fixer:       fixer,
	}
}

const (
	visibilityTimeout = 60
	// Messages that keep failing are dropped after this many deliveries
	maxReceives = 5
)

func (r *BacklinkRepairer) Run(shutdownCtx context.Context) {
	for {
		msg, err := r.repairQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("Backlink repairer receive error: %v", err)
			continue
		}

		if msg == nil {
			continue
		}

		if r.handle(msg) {
			if err := r.repairQueue.Delete(context.Background(), msg); err != nil {
				log.Printf("Backlink repairer delete error: %v", err)
			}
		}
	}
}

// handle processes one message and reports whether it should be deleted from the queue.
func (r *BacklinkRepairer) handle(msg *mq.Message) bool {
	var repairMsg BacklinkRepairMessage
	if err := json.Unmarshal([]byte(msg.Body), &repairMsg); err != nil {
		log.Printf("Dropping malformed backlink repair message: %v", err)
		return true
	}

	// timeout should be a little less than queue visibility timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(visibilityTimeout-1)*time.Second)
	defer cancel()

	if err := r.fixer.RepairBacklink(ctx, repairMsg); err != nil {
		if msg.ReceiveCount >= maxReceives {
			log.Printf("Giving up on backlink %s of blog %s for user %s after %d attempts: %v",
				repairMsg.Op, repairMsg.BlogId, repairMsg.UserId, msg.ReceiveCount, err)
			return true
		}
		log.Printf("Backlink %s of blog %s for user %s failed, will retry: %v", repairMsg.Op, repairMsg.BlogId, repairMsg.UserId, err)
		return false
	}

	return true
}
