package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	ready  bool
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func (f *fakeKV) Ready(context.Context) bool { return f.ready }

func (f *fakeKV) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeKV) Set(_ context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) ScanCount(context.Context, string) (int64, error) { return 0, nil }

type fakeUsers struct {
	ids   []int64
	err   error
	calls int
}

func (f *fakeUsers) ListInternalUserIDs(context.Context) ([]int64, error) {
	f.calls++
	return f.ids, f.err
}

func TestInternalUserIDsWithoutCache(t *testing.T) {
	users := &fakeUsers{ids: []int64{7, 9}}
	p := NewInternalUserProvider(nil, users)

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 9}, ids)
	assert.Equal(t, 1, users.calls)
}

func TestInternalUserIDsSentinelWhenEmpty(t *testing.T) {
	p := NewInternalUserProvider(nil, &fakeUsers{})

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{-1}, ids)
}

func TestInternalUserIDsCacheHit(t *testing.T) {
	kv := &fakeKV{ready: true, data: map[string][]byte{internalUsersKey: []byte(`[3,5]`)}}
	users := &fakeUsers{ids: []int64{7}}
	p := NewInternalUserProvider(kv, users)

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids)
	assert.Zero(t, users.calls)
}

func TestInternalUserIDsCacheMissWritesBack(t *testing.T) {
	kv := &fakeKV{ready: true}
	users := &fakeUsers{ids: []int64{7}}
	p := NewInternalUserProvider(kv, users)

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
	assert.Equal(t, 1, users.calls)
	assert.Equal(t, []byte(`[7]`), kv.data[internalUsersKey])
}

func TestInternalUserIDsCacheNotReady(t *testing.T) {
	kv := &fakeKV{ready: false, data: map[string][]byte{internalUsersKey: []byte(`[3]`)}}
	users := &fakeUsers{ids: []int64{7}}
	p := NewInternalUserProvider(kv, users)

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
	assert.Zero(t, kv.sets)
}

func TestInternalUserIDsCacheFailuresFallThrough(t *testing.T) {
	kv := &fakeKV{ready: true, getErr: errors.New("broken"), setErr: errors.New("broken")}
	users := &fakeUsers{ids: []int64{7}}
	p := NewInternalUserProvider(kv, users)

	ids, err := p.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)
}

func TestInternalUserIDsDirectoryError(t *testing.T) {
	p := NewInternalUserProvider(nil, &fakeUsers{err: errors.New("db down")})

	_, err := p.IDs(context.Background())
	assert.Error(t, err)
}
