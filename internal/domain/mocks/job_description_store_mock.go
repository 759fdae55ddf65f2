package mocks

import (
	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockJobDescriptionStore is a mock type for the JobDescriptionStore type
type MockJobDescriptionStore struct {
	mock.Mock
}

type MockJobDescriptionStore_Expecter struct {
	mock *mock.Mock
}

func (_m *MockJobDescriptionStore) EXPECT() *MockJobDescriptionStore_Expecter {
	return &MockJobDescriptionStore_Expecter{mock: &_m.Mock}
}

// Save provides a mock function with given fields: ctx, workspace, text
func (_m *MockJobDescriptionStore) Save(ctx domain.Context, workspace string, text string) error {
	ret := _m.Called(ctx, workspace, text)
	if len(ret) == 0 {
		panic("no return value specified for Save")
	}
	if rf, ok := ret.Get(0).(func(domain.Context, string, string) error); ok {
		return rf(ctx, workspace, text)
	}
	return ret.Error(0)
}

// MockJobDescriptionStore_Save_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Save'
type MockJobDescriptionStore_Save_Call struct {
	*mock.Call
}

// Save is a helper method to define mock.On call
func (_e *MockJobDescriptionStore_Expecter) Save(ctx interface{}, workspace interface{}, text interface{}) *MockJobDescriptionStore_Save_Call {
	return &MockJobDescriptionStore_Save_Call{Call: _e.mock.On("Save", ctx, workspace, text)}
}

func (_c *MockJobDescriptionStore_Save_Call) Run(run func(ctx domain.Context, workspace string, text string)) *MockJobDescriptionStore_Save_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(domain.Context), args[1].(string), args[2].(string))
	})
	return _c
}

func (_c *MockJobDescriptionStore_Save_Call) Return(_a0 error) *MockJobDescriptionStore_Save_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobDescriptionStore_Save_Call) RunAndReturn(run func(domain.Context, string, string) error) *MockJobDescriptionStore_Save_Call {
	_c.Call.Return(run)
	return _c
}

// Load provides a mock function with given fields: ctx, workspace
func (_m *MockJobDescriptionStore) Load(ctx domain.Context, workspace string) (string, error) {
	ret := _m.Called(ctx, workspace)
	if len(ret) == 0 {
		panic("no return value specified for Load")
	}
	if rf, ok := ret.Get(0).(func(domain.Context, string) (string, error)); ok {
		return rf(ctx, workspace)
	}
	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}

// MockJobDescriptionStore_Load_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Load'
type MockJobDescriptionStore_Load_Call struct {
	*mock.Call
}

// Load is a helper method to define mock.On call
func (_e *MockJobDescriptionStore_Expecter) Load(ctx interface{}, workspace interface{}) *MockJobDescriptionStore_Load_Call {
	return &MockJobDescriptionStore_Load_Call{Call: _e.mock.On("Load", ctx, workspace)}
}

func (_c *MockJobDescriptionStore_Load_Call) Run(run func(ctx domain.Context, workspace string)) *MockJobDescriptionStore_Load_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(domain.Context), args[1].(string))
	})
	return _c
}

func (_c *MockJobDescriptionStore_Load_Call) Return(_a0 string, _a1 error) *MockJobDescriptionStore_Load_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobDescriptionStore_Load_Call) RunAndReturn(run func(domain.Context, string) (string, error)) *MockJobDescriptionStore_Load_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockJobDescriptionStore creates a new instance of MockJobDescriptionStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockJobDescriptionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJobDescriptionStore {
	m := &MockJobDescriptionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
