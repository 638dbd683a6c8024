package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kagi-go/kagi"
)

// MockAPI is a mock implementation of API using testify/mock.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) FastGPT(ctx context.Context, req kagi.FastGPTRequest) (*kagi.FastGPTResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kagi.FastGPTResponse), args.Error(1)
}

func (m *MockAPI) EnrichWeb(ctx context.Context, query string) (*kagi.EnrichResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kagi.EnrichResponse), args.Error(1)
}

func (m *MockAPI) EnrichNews(ctx context.Context, query string) (*kagi.EnrichResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kagi.EnrichResponse), args.Error(1)
}

func (m *MockAPI) Summarize(ctx context.Context, req kagi.SummarizeRequest) (*kagi.SummarizeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kagi.SummarizeResponse), args.Error(1)
}
