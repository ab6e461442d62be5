// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/image-proxy/internal/service"
)

type MockImageProcessor struct {
	mock.Mock
}

// NewMockImageProcessor creates a mock that asserts its expectations when the test ends.
func NewMockImageProcessor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageProcessor {
	m := &MockImageProcessor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockImageProcessor) Process(ctx context.Context, specToken, encodedURL string) (*service.ImageResult, error) {
	args := m.Called(ctx, specToken, encodedURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImageResult), args.Error(1)
}
