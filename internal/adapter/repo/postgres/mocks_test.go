package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockPgxPool is a mock type for the PgxPool type
type MockPgxPool struct {
	mock.Mock
}

type MockPgxPool_Expecter struct {
	mock *mock.Mock
}

func (_m *MockPgxPool) EXPECT() *MockPgxPool_Expecter {
	return &MockPgxPool_Expecter{mock: &_m.Mock}
}

func (_m *MockPgxPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	ret := _m.Called(ctx, sql, args)
	return ret.Get(0).(pgconn.CommandTag), ret.Error(1)
}

func (_m *MockPgxPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	ret := _m.Called(ctx, sql, args)
	return ret.Get(0).(pgx.Row)
}

func (_m *MockPgxPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ret := _m.Called(ctx, sql, args)
	var rows pgx.Rows
	if v := ret.Get(0); v != nil {
		rows = v.(pgx.Rows)
	}
	return rows, ret.Error(1)
}

func (_e *MockPgxPool_Expecter) Exec(ctx any, sql any, args any) *mock.Call {
	return _e.mock.On("Exec", ctx, sql, args)
}

func (_e *MockPgxPool_Expecter) QueryRow(ctx any, sql any, args any) *mock.Call {
	return _e.mock.On("QueryRow", ctx, sql, args)
}

func (_e *MockPgxPool_Expecter) Query(ctx any, sql any, args any) *mock.Call {
	return _e.mock.On("Query", ctx, sql, args)
}

// NewMockPgxPool creates a new instance of MockPgxPool and registers the expectation check on cleanup.
func NewMockPgxPool(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPgxPool {
	m := &MockPgxPool{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// fakeRow scans a fixed tuple into the destinations.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

// fakeRows iterates a fixed set of tuples.
type fakeRows struct {
	data   [][]any
	i      int
	err    error
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assign(r.data[r.i-1], dest) }

func (r *fakeRows) Values() ([]any, error) {
	if r.i == 0 || r.i > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.i-1], nil
}

func assign(vals, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(vals), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		vv := reflect.ValueOf(vals[i])
		if !vv.Type().AssignableTo(dv.Type()) {
			if !vv.Type().ConvertibleTo(dv.Type()) {
				return fmt.Errorf("scan: column %d: %s into %s", i, vv.Type(), dv.Type())
			}
			vv = vv.Convert(dv.Type())
		}
		dv.Set(vv)
	}
	return nil
}
