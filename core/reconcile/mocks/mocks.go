package mocks

import (
	"context"
	"io"

	"screenshot-mirror/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Source is a mock implementation of reconcile.Source
type Source struct {
	mock.Mock
}

func (m *Source) List(ctx context.Context) ([]reconcile.Item, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]reconcile.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Source) Fetch(ctx context.Context, item reconcile.Item) (io.ReadCloser, error) {
	args := m.Called(ctx, item)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

// Mirror is a mock implementation of reconcile.Mirror
type Mirror struct {
	mock.Mock
}

func (m *Mirror) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *Mirror) Put(ctx context.Context, name string, content []byte) error {
	args := m.Called(ctx, name, content)
	return args.Error(0)
}

func (m *Mirror) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// Ledger is a mock implementation of reconcile.Ledger
type Ledger struct {
	mock.Mock
}

func (m *Ledger) Load(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if set, ok := args.Get(0).(map[string]struct{}); ok {
		return set, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Ledger) Save(ctx context.Context, names map[string]struct{}) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}
