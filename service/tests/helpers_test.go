package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	mqmocks "github.com/zlnvch/blogverse/mq/mocks"
	pubsubmocks "github.com/zlnvch/blogverse/pubsub/mocks"
	"github.com/zlnvch/blogverse/service"
	storemocks "github.com/zlnvch/blogverse/store/mocks"
	"github.com/zlnvch/blogverse/worker"
	"golang.org/x/crypto/bcrypt"
)

func setupService(t *testing.T) (*service.Service, *storemocks.MockStore, *pubsubmocks.MockPubSub, *mqmocks.MockMQ) {
	mockStore := new(storemocks.MockStore)
	mockPubSub := new(pubsubmocks.MockPubSub)
	mockMQ := new(mqmocks.MockMQ)

	// Events are published from a goroutine; tests that care install their own expectation first
	mockPubSub.On("Publish", mock.Anything, "blog-events", mock.Anything).Return(nil).Maybe()

	svc, err := service.NewService(
		mockStore,
		mockPubSub,
		mockMQ,
		service.NewBcryptHasher(bcrypt.MinCost),
	)
	assert.NoError(t, err)

	return svc, mockStore, mockPubSub, mockMQ
}

func hashPassword(t *testing.T, password string) string {
	hash, err := service.NewBcryptHasher(bcrypt.MinCost).Hash(password)
	assert.NoError(t, err)
	return hash
}

// repairMessage matches a queued repair message by op and blog id.
func repairMessage(op worker.RepairOp, blogId string) any {
	return mock.MatchedBy(func(body string) bool {
		var msg worker.BacklinkRepairMessage
		if err := json.Unmarshal([]byte(body), &msg); err != nil {
			return false
		}
		return msg.Op == op && msg.BlogId == blogId
	})
}

func strPtr(s string) *string {
	return &s
}
