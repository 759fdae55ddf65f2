package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockChatClient is a mock type for the ChatClient type
type MockChatClient struct {
	mock.Mock
}

type MockChatClient_Expecter struct {
	mock *mock.Mock
}

func (_m *MockChatClient) EXPECT() *MockChatClient_Expecter {
	return &MockChatClient_Expecter{mock: &_m.Mock}
}

// Complete provides a mock function with given fields: ctx, cred, req
func (_m *MockChatClient) Complete(ctx context.Context, cred domain.Credential, req domain.ChatRequest) (string, error) {
	ret := _m.Called(ctx, cred, req)
	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.Credential, domain.ChatRequest) (string, error)); ok {
		return rf(ctx, cred, req)
	}
	return ret.String(0), ret.Error(1)
}

// MockChatClient_Complete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Complete'
type MockChatClient_Complete_Call struct {
	*mock.Call
}

// Complete is a helper method to define mock.On call
func (_e *MockChatClient_Expecter) Complete(ctx interface{}, cred interface{}, req interface{}) *MockChatClient_Complete_Call {
	return &MockChatClient_Complete_Call{Call: _e.mock.On("Complete", ctx, cred, req)}
}

func (_c *MockChatClient_Complete_Call) Run(run func(ctx context.Context, cred domain.Credential, req domain.ChatRequest)) *MockChatClient_Complete_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Credential), args[2].(domain.ChatRequest))
	})
	return _c
}

func (_c *MockChatClient_Complete_Call) Return(_a0 string, _a1 error) *MockChatClient_Complete_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockChatClient_Complete_Call) RunAndReturn(run func(context.Context, domain.Credential, domain.ChatRequest) (string, error)) *MockChatClient_Complete_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockChatClient creates a new instance of MockChatClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockChatClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChatClient {
	m := &MockChatClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
