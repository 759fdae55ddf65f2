package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	domain "github.com/fairyhunter13/ai-resume-screener/internal/domain"
)

// MockEvaluationRepository is a mock type for the EvaluationRepository type
type MockEvaluationRepository struct {
	mock.Mock
}

type MockEvaluationRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockEvaluationRepository) EXPECT() *MockEvaluationRepository_Expecter {
	return &MockEvaluationRepository_Expecter{mock: &_m.Mock}
}

// InsertBatch provides a mock function with given fields: ctx, evals
func (_m *MockEvaluationRepository) InsertBatch(ctx context.Context, evals []domain.StoredEvaluation) ([]string, error) {
	ret := _m.Called(ctx, evals)
	if len(ret) == 0 {
		panic("no return value specified for InsertBatch")
	}
	if rf, ok := ret.Get(0).(func(context.Context, []domain.StoredEvaluation) ([]string, error)); ok {
		return rf(ctx, evals)
	}
	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_InsertBatch_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'InsertBatch'
type MockEvaluationRepository_InsertBatch_Call struct {
	*mock.Call
}

// InsertBatch is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) InsertBatch(ctx interface{}, evals interface{}) *MockEvaluationRepository_InsertBatch_Call {
	return &MockEvaluationRepository_InsertBatch_Call{Call: _e.mock.On("InsertBatch", ctx, evals)}
}

func (_c *MockEvaluationRepository_InsertBatch_Call) Run(run func(ctx context.Context, evals []domain.StoredEvaluation)) *MockEvaluationRepository_InsertBatch_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].([]domain.StoredEvaluation))
	})
	return _c
}

func (_c *MockEvaluationRepository_InsertBatch_Call) Return(_a0 []string, _a1 error) *MockEvaluationRepository_InsertBatch_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_InsertBatch_Call) RunAndReturn(run func(context.Context, []domain.StoredEvaluation) ([]string, error)) *MockEvaluationRepository_InsertBatch_Call {
	_c.Call.Return(run)
	return _c
}

// ClearAll provides a mock function with given fields: ctx
func (_m *MockEvaluationRepository) ClearAll(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	if len(ret) == 0 {
		panic("no return value specified for ClearAll")
	}
	if rf, ok := ret.Get(0).(func(context.Context) (int64, error)); ok {
		return rf(ctx)
	}
	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_ClearAll_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ClearAll'
type MockEvaluationRepository_ClearAll_Call struct {
	*mock.Call
}

// ClearAll is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) ClearAll(ctx interface{}) *MockEvaluationRepository_ClearAll_Call {
	return &MockEvaluationRepository_ClearAll_Call{Call: _e.mock.On("ClearAll", ctx)}
}

func (_c *MockEvaluationRepository_ClearAll_Call) Run(run func(ctx context.Context)) *MockEvaluationRepository_ClearAll_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockEvaluationRepository_ClearAll_Call) Return(_a0 int64, _a1 error) *MockEvaluationRepository_ClearAll_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_ClearAll_Call) RunAndReturn(run func(context.Context) (int64, error)) *MockEvaluationRepository_ClearAll_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with given fields: ctx, limit, offset
func (_m *MockEvaluationRepository) List(ctx context.Context, limit int, offset int) ([]domain.StoredEvaluation, error) {
	ret := _m.Called(ctx, limit, offset)
	if len(ret) == 0 {
		panic("no return value specified for List")
	}
	if rf, ok := ret.Get(0).(func(context.Context, int, int) ([]domain.StoredEvaluation, error)); ok {
		return rf(ctx, limit, offset)
	}
	var r0 []domain.StoredEvaluation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.StoredEvaluation)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type MockEvaluationRepository_List_Call struct {
	*mock.Call
}

// List is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) List(ctx interface{}, limit interface{}, offset interface{}) *MockEvaluationRepository_List_Call {
	return &MockEvaluationRepository_List_Call{Call: _e.mock.On("List", ctx, limit, offset)}
}

func (_c *MockEvaluationRepository_List_Call) Run(run func(ctx context.Context, limit int, offset int)) *MockEvaluationRepository_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(int), args[2].(int))
	})
	return _c
}

func (_c *MockEvaluationRepository_List_Call) Return(_a0 []domain.StoredEvaluation, _a1 error) *MockEvaluationRepository_List_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_List_Call) RunAndReturn(run func(context.Context, int, int) ([]domain.StoredEvaluation, error)) *MockEvaluationRepository_List_Call {
	_c.Call.Return(run)
	return _c
}

// ListBySession provides a mock function with given fields: ctx, sessionID
func (_m *MockEvaluationRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.StoredEvaluation, error) {
	ret := _m.Called(ctx, sessionID)
	if len(ret) == 0 {
		panic("no return value specified for ListBySession")
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.StoredEvaluation, error)); ok {
		return rf(ctx, sessionID)
	}
	var r0 []domain.StoredEvaluation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.StoredEvaluation)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_ListBySession_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ListBySession'
type MockEvaluationRepository_ListBySession_Call struct {
	*mock.Call
}

// ListBySession is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) ListBySession(ctx interface{}, sessionID interface{}) *MockEvaluationRepository_ListBySession_Call {
	return &MockEvaluationRepository_ListBySession_Call{Call: _e.mock.On("ListBySession", ctx, sessionID)}
}

func (_c *MockEvaluationRepository_ListBySession_Call) Run(run func(ctx context.Context, sessionID string)) *MockEvaluationRepository_ListBySession_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockEvaluationRepository_ListBySession_Call) Return(_a0 []domain.StoredEvaluation, _a1 error) *MockEvaluationRepository_ListBySession_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_ListBySession_Call) RunAndReturn(run func(context.Context, string) ([]domain.StoredEvaluation, error)) *MockEvaluationRepository_ListBySession_Call {
	_c.Call.Return(run)
	return _c
}

// ListByCandidate provides a mock function with given fields: ctx, name
func (_m *MockEvaluationRepository) ListByCandidate(ctx context.Context, name string) ([]domain.StoredEvaluation, error) {
	ret := _m.Called(ctx, name)
	if len(ret) == 0 {
		panic("no return value specified for ListByCandidate")
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.StoredEvaluation, error)); ok {
		return rf(ctx, name)
	}
	var r0 []domain.StoredEvaluation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.StoredEvaluation)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_ListByCandidate_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ListByCandidate'
type MockEvaluationRepository_ListByCandidate_Call struct {
	*mock.Call
}

// ListByCandidate is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) ListByCandidate(ctx interface{}, name interface{}) *MockEvaluationRepository_ListByCandidate_Call {
	return &MockEvaluationRepository_ListByCandidate_Call{Call: _e.mock.On("ListByCandidate", ctx, name)}
}

func (_c *MockEvaluationRepository_ListByCandidate_Call) Run(run func(ctx context.Context, name string)) *MockEvaluationRepository_ListByCandidate_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockEvaluationRepository_ListByCandidate_Call) Return(_a0 []domain.StoredEvaluation, _a1 error) *MockEvaluationRepository_ListByCandidate_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_ListByCandidate_Call) RunAndReturn(run func(context.Context, string) ([]domain.StoredEvaluation, error)) *MockEvaluationRepository_ListByCandidate_Call {
	_c.Call.Return(run)
	return _c
}

// Stats provides a mock function with given fields: ctx
func (_m *MockEvaluationRepository) Stats(ctx context.Context) (domain.Stats, error) {
	ret := _m.Called(ctx)
	if len(ret) == 0 {
		panic("no return value specified for Stats")
	}
	if rf, ok := ret.Get(0).(func(context.Context) (domain.Stats, error)); ok {
		return rf(ctx)
	}
	var r0 domain.Stats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(domain.Stats)
	}
	return r0, ret.Error(1)
}

// MockEvaluationRepository_Stats_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Stats'
type MockEvaluationRepository_Stats_Call struct {
	*mock.Call
}

// Stats is a helper method to define mock.On call
func (_e *MockEvaluationRepository_Expecter) Stats(ctx interface{}) *MockEvaluationRepository_Stats_Call {
	return &MockEvaluationRepository_Stats_Call{Call: _e.mock.On("Stats", ctx)}
}

func (_c *MockEvaluationRepository_Stats_Call) Run(run func(ctx context.Context)) *MockEvaluationRepository_Stats_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockEvaluationRepository_Stats_Call) Return(_a0 domain.Stats, _a1 error) *MockEvaluationRepository_Stats_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockEvaluationRepository_Stats_Call) RunAndReturn(run func(context.Context) (domain.Stats, error)) *MockEvaluationRepository_Stats_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockEvaluationRepository creates a new instance of MockEvaluationRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockEvaluationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEvaluationRepository {
	m := &MockEvaluationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
