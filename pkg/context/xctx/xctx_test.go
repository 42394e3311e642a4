package xctx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xactor/pkg/context/xctx"
)

func TestTraceFields(t *testing.T) {
	ctx := context.Background()

	ctx, err := xctx.WithTraceID(ctx, "0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	ctx, err = xctx.WithSpanID(ctx, "b7ad6b7169203331")
	require.NoError(t, err)

	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", xctx.TraceID(ctx))
	assert.Equal(t, "b7ad6b7169203331", xctx.SpanID(ctx))
	assert.Empty(t, xctx.TraceFlags(ctx))

	tr := xctx.GetTrace(ctx)
	assert.True(t, tr.IsComplete())
}

func TestRequireTraceID(t *testing.T) {
	_, err := xctx.RequireTraceID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingTraceID)

	_, err = xctx.RequireSpanID(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingSpanID)

	//nolint:staticcheck // 测试 nil context
	_, err = xctx.RequireTraceID(nil)
	assert.ErrorIs(t, err, xctx.ErrNilContext)
}

func TestNilContext(t *testing.T) {
	//nolint:staticcheck // 测试 nil context
	_, err := xctx.WithTraceID(nil, "x")
	assert.ErrorIs(t, err, xctx.ErrNilContext)

	//nolint:staticcheck // 测试 nil context
	_, err = xctx.WithActor(nil, xctx.Actor{Type: "Hello"})
	assert.ErrorIs(t, err, xctx.ErrNilContext)

	//nolint:staticcheck // 测试 nil context
	assert.Empty(t, xctx.ActorID(nil))
	//nolint:staticcheck // 测试 nil context
	assert.Nil(t, xctx.LogAttrs(nil))
}

func TestWithTraceKeepsParentValues(t *testing.T) {
	ctx, err := xctx.WithTraceFlags(context.Background(), "01")
	require.NoError(t, err)

	ctx, err = xctx.WithTrace(ctx, xctx.Trace{TraceID: "t1", SpanID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, xctx.Trace{TraceID: "t1", SpanID: "s1", TraceFlags: "01"}, xctx.GetTrace(ctx))
}

func TestActorFields(t *testing.T) {
	ctx, err := xctx.WithActor(context.Background(), xctx.Actor{
		Type:   "Hello",
		ID:     "0",
		Method: "SayHello",
	})
	require.NoError(t, err)

	typ, id, err := xctx.RequireActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello", typ)
	assert.Equal(t, "0", id)
	assert.Equal(t, "SayHello", xctx.ActorMethod(ctx))
	assert.Empty(t, xctx.InvocationID(ctx))

	_, _, err = xctx.RequireActor(context.Background())
	assert.ErrorIs(t, err, xctx.ErrMissingActorType)

	ctx, err = xctx.WithActorType(context.Background(), "Hello")
	require.NoError(t, err)
	_, _, err = xctx.RequireActor(ctx)
	assert.ErrorIs(t, err, xctx.ErrMissingActorID)
}

func TestLogAttrs(t *testing.T) {
	assert.Nil(t, xctx.LogAttrs(context.Background()))
	assert.Nil(t, xctx.TraceAttrs(context.Background()))
	assert.Nil(t, xctx.ActorAttrs(context.Background()))

	ctx, err := xctx.WithTrace(context.Background(), xctx.Trace{TraceID: "t1", SpanID: "s1"})
	require.NoError(t, err)
	ctx, err = xctx.WithActor(ctx, xctx.Actor{Type: "Hello", ID: "7", InvocationID: "abc"})
	require.NoError(t, err)

	attrs := xctx.LogAttrs(ctx)
	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, map[string]string{
		xctx.KeyTraceID:      "t1",
		xctx.KeySpanID:       "s1",
		xctx.KeyActorType:    "Hello",
		xctx.KeyActorID:      "7",
		xctx.KeyInvocationID: "abc",
	}, got)

	buf := make([]slog.Attr, 0, 8)
	buf = xctx.AppendActorAttrs(buf, ctx)
	assert.Len(t, buf, 3)
}
