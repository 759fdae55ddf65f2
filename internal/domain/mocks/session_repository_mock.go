package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockSessionRepository is a mock type for the SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

type MockSessionRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockSessionRepository) EXPECT() *MockSessionRepository_Expecter {
	return &MockSessionRepository_Expecter{mock: &_m.Mock}
}

// Create provides a mock function with given fields: ctx, s
func (_m *MockSessionRepository) Create(ctx context.Context, s domain.Session) (string, error) {
	ret := _m.Called(ctx, s)
	if len(ret) == 0 {
		panic("no return value specified for Create")
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.Session) (string, error)); ok {
		return rf(ctx, s)
	}
	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}

// MockSessionRepository_Create_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Create'
type MockSessionRepository_Create_Call struct {
	*mock.Call
}

// Create is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Create(ctx interface{}, s interface{}) *MockSessionRepository_Create_Call {
	return &MockSessionRepository_Create_Call{Call: _e.mock.On("Create", ctx, s)}
}

func (_c *MockSessionRepository_Create_Call) Run(run func(ctx context.Context, s domain.Session)) *MockSessionRepository_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.Session))
	})
	return _c
}

func (_c *MockSessionRepository_Create_Call) Return(_a0 string, _a1 error) *MockSessionRepository_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockSessionRepository_Create_Call) RunAndReturn(run func(context.Context, domain.Session) (string, error)) *MockSessionRepository_Create_Call {
	_c.Call.Return(run)
	return _c
}

// Complete provides a mock function with given fields: ctx, id, status, succeeded, failed
func (_m *MockSessionRepository) Complete(ctx context.Context, id string, status domain.SessionStatus, succeeded int, failed int) error {
	ret := _m.Called(ctx, id, status, succeeded, failed)
	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.SessionStatus, int, int) error); ok {
		return rf(ctx, id, status, succeeded, failed)
	}
	return ret.Error(0)
}

// MockSessionRepository_Complete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Complete'
type MockSessionRepository_Complete_Call struct {
	*mock.Call
}

// Complete is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Complete(ctx interface{}, id interface{}, status interface{}, succeeded interface{}, failed interface{}) *MockSessionRepository_Complete_Call {
	return &MockSessionRepository_Complete_Call{Call: _e.mock.On("Complete", ctx, id, status, succeeded, failed)}
}

func (_c *MockSessionRepository_Complete_Call) Run(run func(ctx context.Context, id string, status domain.SessionStatus, succeeded int, failed int)) *MockSessionRepository_Complete_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(domain.SessionStatus), args[3].(int), args[4].(int))
	})
	return _c
}

func (_c *MockSessionRepository_Complete_Call) Return(_a0 error) *MockSessionRepository_Complete_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockSessionRepository_Complete_Call) RunAndReturn(run func(context.Context, string, domain.SessionStatus, int, int) error) *MockSessionRepository_Complete_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function with given fields: ctx, id
func (_m *MockSessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	ret := _m.Called(ctx, id)
	if len(ret) == 0 {
		panic("no return value specified for Get")
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) (domain.Session, error)); ok {
		return rf(ctx, id)
	}
	var r0 domain.Session
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domain.Session)
	}
	return r0, ret.Error(1)
}

// MockSessionRepository_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type MockSessionRepository_Get_Call struct {
	*mock.Call
}

// Get is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) Get(ctx interface{}, id interface{}) *MockSessionRepository_Get_Call {
	return &MockSessionRepository_Get_Call{Call: _e.mock.On("Get", ctx, id)}
}

func (_c *MockSessionRepository_Get_Call) Run(run func(ctx context.Context, id string)) *MockSessionRepository_Get_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockSessionRepository_Get_Call) Return(_a0 domain.Session, _a1 error) *MockSessionRepository_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockSessionRepository_Get_Call) RunAndReturn(run func(context.Context, string) (domain.Session, error)) *MockSessionRepository_Get_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with given fields: ctx, limit
func (_m *MockSessionRepository) List(ctx context.Context, limit int) ([]domain.Session, error) {
	ret := _m.Called(ctx, limit)
	if len(ret) == 0 {
		panic("no return value specified for List")
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]domain.Session, error)); ok {
		return rf(ctx, limit)
	}
	var r0 []domain.Session
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Session)
	}
	return r0, ret.Error(1)
}

// MockSessionRepository_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type MockSessionRepository_List_Call struct {
	*mock.Call
}

// List is a helper method to define mock.On call
func (_e *MockSessionRepository_Expecter) List(ctx interface{}, limit interface{}) *MockSessionRepository_List_Call {
	return &MockSessionRepository_List_Call{Call: _e.mock.On("List", ctx, limit)}
}

func (_c *MockSessionRepository_List_Call) Run(run func(ctx context.Context, limit int)) *MockSessionRepository_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(int))
	})
	return _c
}

func (_c *MockSessionRepository_List_Call) Return(_a0 []domain.Session, _a1 error) *MockSessionRepository_List_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockSessionRepository_List_Call) RunAndReturn(run func(context.Context, int) ([]domain.Session, error)) *MockSessionRepository_List_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockSessionRepository creates a new instance of MockSessionRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
