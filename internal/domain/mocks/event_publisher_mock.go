package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockEventPublisher is a mock type for the EventPublisher type
type MockEventPublisher struct {
	mock.Mock
}

type MockEventPublisher_Expecter struct {
	mock *mock.Mock
}

func (_m *MockEventPublisher) EXPECT() *MockEventPublisher_Expecter {
	return &MockEventPublisher_Expecter{mock: &_m.Mock}
}

// PublishEvaluationCompleted provides a mock function with given fields: ctx, sessionID, ev
func (_m *MockEventPublisher) PublishEvaluationCompleted(ctx context.Context, sessionID string, ev domain.StoredEvaluation) error {
	ret := _m.Called(ctx, sessionID, ev)
	if len(ret) == 0 {
		panic("no return value specified for PublishEvaluationCompleted")
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.StoredEvaluation) error); ok {
		return rf(ctx, sessionID, ev)
	}
	return ret.Error(0)
}

// MockEventPublisher_PublishEvaluationCompleted_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'PublishEvaluationCompleted'
type MockEventPublisher_PublishEvaluationCompleted_Call struct {
	*mock.Call
}

// PublishEvaluationCompleted is a helper method to define mock.On call
func (_e *MockEventPublisher_Expecter) PublishEvaluationCompleted(ctx interface{}, sessionID interface{}, ev interface{}) *MockEventPublisher_PublishEvaluationCompleted_Call {
	return &MockEventPublisher_PublishEvaluationCompleted_Call{Call: _e.mock.On("PublishEvaluationCompleted", ctx, sessionID, ev)}
}

func (_c *MockEventPublisher_PublishEvaluationCompleted_Call) Run(run func(ctx context.Context, sessionID string, ev domain.StoredEvaluation)) *MockEventPublisher_PublishEvaluationCompleted_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(domain.StoredEvaluation))
	})
	return _c
}

func (_c *MockEventPublisher_PublishEvaluationCompleted_Call) Return(_a0 error) *MockEventPublisher_PublishEvaluationCompleted_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockEventPublisher_PublishEvaluationCompleted_Call) RunAndReturn(run func(context.Context, string, domain.StoredEvaluation) error) *MockEventPublisher_PublishEvaluationCompleted_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockEventPublisher creates a new instance of MockEventPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
