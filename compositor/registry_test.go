package compositor_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wlegl/compositor"
	"github.com/wippyai/wlegl/errors"
	mock_compositor "github.com/wippyai/wlegl/internal/mock/compositor"
	"github.com/wippyai/wlegl/protocol"
	"github.com/wippyai/wlegl/resource"
)

func newBuffer(t *testing.T, c *protocol.Client, id resource.ID) *protocol.Resource {
	t.Helper()

	res, err := c.CreateResource(protocol.Interface{Name: "wl_buffer", Version: 1}, 1, id)
	require.NoError(t, err)
	return res
}

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := protocol.NewDisplay(protocol.DefaultOptions())
	c := d.NewClient()
	res := newBuffer(t, c, 1)

	bt := mock_compositor.NewMockBufferType(ctrl)
	bt.EXPECT().Name().Return("test").AnyTimes()
	bt.EXPECT().NativeBuffer(res).Return("native", true).Times(1)
	bt.EXPECT().Release(res).Times(1)

	reg := compositor.NewRegistry(d)
	assert.Same(t, d, reg.Display())

	require.NoError(t, reg.AddBufferType(bt))
	assert.Error(t, reg.AddBufferType(bt), "duplicate name")

	got, ok := reg.BufferType("test")
	require.True(t, ok)
	assert.Equal(t, compositor.BufferType(bt), got)

	require.NoError(t, reg.RegisterBuffer(res, bt))
	assert.Equal(t, 1, reg.Len())
	assert.Error(t, reg.RegisterBuffer(res, bt), "already registered")

	v, ok := reg.Lookup(res)
	require.True(t, ok)
	assert.Equal(t, "native", v)

	require.NoError(t, reg.Release(res))

	reg.UnregisterBuffer(res)
	reg.UnregisterBuffer(res)
	assert.Zero(t, reg.Len())

	_, ok = reg.Lookup(res)
	assert.False(t, ok)
	assert.ErrorIs(t, reg.Release(res), &errors.Error{Kind: errors.KindNotFound})
}

func TestRegistry_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := protocol.NewDisplay(protocol.DefaultOptions())
	res := newBuffer(t, d.NewClient(), 1)

	bt := mock_compositor.NewMockBufferType(ctrl)
	bt.EXPECT().Name().Return("unknown").AnyTimes()

	reg := compositor.NewRegistry(d)
	err := reg.RegisterBuffer(res, bt)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})
	assert.Zero(t, reg.Len())
}

func TestRegistry_Full(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := protocol.NewDisplay(protocol.DefaultOptions())
	c := d.NewClient()

	bt := mock_compositor.NewMockBufferType(ctrl)
	bt.EXPECT().Name().Return("test").AnyTimes()

	reg := compositor.NewRegistry(d)
	reg.MaxBuffers = 1
	require.NoError(t, reg.AddBufferType(bt))

	require.NoError(t, reg.RegisterBuffer(newBuffer(t, c, 1), bt))
	err := reg.RegisterBuffer(newBuffer(t, c, 2), bt)
	assert.ErrorIs(t, err, errors.ErrOutOfMemory)
}
