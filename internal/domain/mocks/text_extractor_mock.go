package mocks

import (
	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockTextExtractor is a mock type for the TextExtractor type
type MockTextExtractor struct {
	mock.Mock
}

type MockTextExtractor_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTextExtractor) EXPECT() *MockTextExtractor_Expecter {
	return &MockTextExtractor_Expecter{mock: &_m.Mock}
}

// ExtractPath provides a mock function with given fields: ctx, fileName, path
func (_m *MockTextExtractor) ExtractPath(ctx domain.Context, fileName string, path string) (string, error) {
	ret := _m.Called(ctx, fileName, path)
	if len(ret) == 0 {
		panic("no return value specified for ExtractPath")
	}
	if rf, ok := ret.Get(0).(func(domain.Context, string, string) (string, error)); ok {
		return rf(ctx, fileName, path)
	}
	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}
	return r0, ret.Error(1)
}

// MockTextExtractor_ExtractPath_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ExtractPath'
type MockTextExtractor_ExtractPath_Call struct {
	*mock.Call
}

// ExtractPath is a helper method to define mock.On call
func (_e *MockTextExtractor_Expecter) ExtractPath(ctx interface{}, fileName interface{}, path interface{}) *MockTextExtractor_ExtractPath_Call {
	return &MockTextExtractor_ExtractPath_Call{Call: _e.mock.On("ExtractPath", ctx, fileName, path)}
}

func (_c *MockTextExtractor_ExtractPath_Call) Run(run func(ctx domain.Context, fileName string, path string)) *MockTextExtractor_ExtractPath_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(domain.Context), args[1].(string), args[2].(string))
	})
	return _c
}

func (_c *MockTextExtractor_ExtractPath_Call) Return(_a0 string, _a1 error) *MockTextExtractor_ExtractPath_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTextExtractor_ExtractPath_Call) RunAndReturn(run func(domain.Context, string, string) (string, error)) *MockTextExtractor_ExtractPath_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockTextExtractor creates a new instance of MockTextExtractor. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockTextExtractor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextExtractor {
	m := &MockTextExtractor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
