package protocol

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/resource"
)

var testIface = Interface{Name: "test_iface", Version: 2}

type recorder struct {
	events []resource.Event
}

func (r *recorder) OnResourceEvent(e resource.Event) {
	r.events = append(r.events, e)
}

func bindCreate(impl Dispatcher) BindFunc {
	return func(c *Client, data any, version uint32, id resource.ID) {
		res, err := c.CreateResource(testIface, version, id)
		if err != nil {
			c.PostNoMemory()
			return
		}
		res.SetImplementation(impl, data, nil)
	}
}

func TestCreateGlobal(t *testing.T) {
	d := NewDisplay(DefaultOptions())

	g, err := d.CreateGlobal(testIface, nil, bindCreate(nil))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), g.Name())
	assert.Equal(t, testIface, g.Interface())

	got, ok := d.Global(g.Name())
	require.True(t, ok)
	assert.Same(t, g, got)

	g.Destroy()
	g.Destroy()
	assert.True(t, g.Destroyed())
	assert.Empty(t, d.Globals())
}

func TestCreateGlobal_Invalid(t *testing.T) {
	d := NewDisplay(Options{MaxGlobals: 1})

	_, err := d.CreateGlobal(Interface{Name: "x"}, nil, bindCreate(nil))
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	_, err = d.CreateGlobal(testIface, nil, nil)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})

	_, err = d.CreateGlobal(testIface, nil, bindCreate(nil))
	require.NoError(t, err)

	_, err = d.CreateGlobal(testIface, nil, bindCreate(nil))
	assert.ErrorIs(t, err, errors.ErrOutOfMemory)
}

func TestBindAndDispatch(t *testing.T) {
	d := NewDisplay(DefaultOptions())

	var gotArgs Args
	g, err := d.CreateGlobal(testIface, "data", bindCreate(func(r *Resource, opcode uint32, args Args) error {
		gotArgs = args
		assert.Equal(t, "data", r.Data())
		return r.Send(opcode, "pong")
	}))
	require.NoError(t, err)

	c := d.NewClient()
	require.NoError(t, c.Bind(g.Name(), 1, 3))

	res, ok := c.Resource(3)
	require.True(t, ok)
	assert.Equal(t, uint32(1), res.Version())
	assert.Same(t, c, res.Client())

	require.NoError(t, c.Dispatch(3, 7, int32(1), []int32{2}))
	assert.Equal(t, Args{int32(1), []int32{2}}, gotArgs)

	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventMessage, events[0].Kind)
	assert.Equal(t, resource.ID(3), events[0].Object)
	assert.Equal(t, uint32(7), events[0].Opcode)
	assert.Equal(t, []any{"pong"}, events[0].Args)
}

func TestBind_Errors(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	g, err := d.CreateGlobal(testIface, nil, bindCreate(nil))
	require.NoError(t, err)
	c := d.NewClient()

	assert.Error(t, c.Bind(99, 1, 1))
	assert.Error(t, c.Bind(g.Name(), 3, 1))
	assert.Error(t, c.Bind(g.Name(), 0, 1))
	assert.Zero(t, c.Objects())
}

func TestBind_NoMemory(t *testing.T) {
	d := NewDisplay(Options{MaxObjects: 1})
	g, err := d.CreateGlobal(testIface, nil, bindCreate(nil))
	require.NoError(t, err)
	c := d.NewClient()

	require.NoError(t, c.Bind(g.Name(), 1, 1))
	require.NoError(t, c.Bind(g.Name(), 1, 2))

	events := c.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventNoMemory, events[0].Kind)
	assert.Equal(t, 1, c.Objects())
}

func TestCreateResource_IDInUse(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	c := d.NewClient()

	_, err := c.CreateResource(testIface, 1, 5)
	require.NoError(t, err)
	_, err = c.CreateResource(testIface, 1, 5)
	assert.ErrorIs(t, err, errors.ErrOutOfMemory)
	assert.ErrorIs(t, err, resource.ErrIDInUse)
}

func TestDispatch_Errors(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	c := d.NewClient()

	err := c.Dispatch(1, 0)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindNotFound})

	_, err = c.CreateResource(testIface, 1, 1)
	require.NoError(t, err)
	err = c.Dispatch(1, 0)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindUnsupported})
}

func TestResourceDestroy(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	rec := &recorder{}
	d.Subscribe(rec)
	c := d.NewClient()

	res, err := c.CreateResource(testIface, 1, 4)
	require.NoError(t, err)

	destroyed := 0
	res.SetImplementation(nil, nil, func(r *Resource) {
		destroyed++
		assert.Same(t, res, r)
	})

	res.Destroy()
	res.Destroy()
	assert.Equal(t, 1, destroyed)
	assert.True(t, res.Destroyed())
	assert.Zero(t, c.Objects())
	assert.Error(t, res.Send(0))

	require.Len(t, rec.events, 2)
	assert.Equal(t, resource.EventCreated, rec.events[0].Type)
	assert.Equal(t, resource.EventDestroyed, rec.events[1].Type)
	assert.Equal(t, "test_iface", rec.events[1].Interface)
}

func TestResourceDestroy_StaleID(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	c := d.NewClient()

	old, err := c.CreateResource(testIface, 1, 4)
	require.NoError(t, err)
	c.Table().Remove(4)

	fresh, err := c.CreateResource(testIface, 1, 4)
	require.NoError(t, err)

	old.Destroy()
	got, ok := c.Resource(4)
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestClientDestroy(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	c := d.NewClient()
	assert.Equal(t, 1, d.Clients())

	var order []resource.ID
	for _, id := range []resource.ID{9, 2, 5} {
		res, err := c.CreateResource(testIface, 1, id)
		require.NoError(t, err)
		res.SetImplementation(nil, nil, func(r *Resource) {
			order = append(order, r.ID())
		})
	}

	require.NoError(t, c.Destroy())
	require.NoError(t, c.Destroy())
	assert.Equal(t, []resource.ID{2, 5, 9}, order)
	assert.True(t, c.Destroyed())
	assert.Zero(t, d.Clients())

	_, err := c.CreateResource(testIface, 1, 1)
	assert.ErrorIs(t, err, errors.ErrClosed)
	assert.ErrorIs(t, c.Dispatch(1, 0), errors.ErrClosed)
}

func TestPostError(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	c := d.NewClient()
	res, err := c.CreateResource(testIface, 1, 1)
	require.NoError(t, err)

	res.PostError(3, "bad %s", "thing")
	c.PostError(nil, 1, "no object")

	events := c.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventError, Object: 1, Interface: "test_iface", Code: 3, Message: "bad thing"}, events[0])
	assert.Equal(t, Event{Kind: EventError, Code: 1, Message: "no object"}, events[1])
	assert.False(t, c.Destroyed())
}

func TestDisplayDestroy(t *testing.T) {
	d := NewDisplay(DefaultOptions())
	g, err := d.CreateGlobal(testIface, nil, bindCreate(nil))
	require.NoError(t, err)
	c := d.NewClient()
	require.NoError(t, c.Bind(g.Name(), 1, 1))

	require.NoError(t, d.Destroy())
	assert.True(t, c.Destroyed())
	assert.True(t, g.Destroyed())
}

func TestArgs(t *testing.T) {
	args := Args{resource.ID(3), int32(-1), uint32(7), []int32{1, 2}, "s", nil}

	id, err := args.ID(0)
	require.NoError(t, err)
	assert.Equal(t, resource.ID(3), id)

	n, err := args.Int(1)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), n)

	u, err := args.Uint(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), u)

	arr, err := args.Array(3)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, arr)

	arr, err = args.Array(5)
	require.NoError(t, err)
	assert.Nil(t, arr)

	_, err = args.Int(4)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
	_, err = args.ID(9)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
}

func TestArgs_IntRange(t *testing.T) {
	if strconv.IntSize == 32 {
		t.Skip("int is int32")
	}
	wide := int64(math.MaxInt32) + 1
	args := Args{math.MaxInt32, math.MinInt32, int(wide), int(-wide - 1)}

	n, err := args.Int(0)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), n)

	n, err = args.Int(1)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), n)

	_, err = args.Int(2)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
	_, err = args.Int(3)
	assert.ErrorIs(t, err, &errors.Error{Kind: errors.KindInvalidInput})
}
