package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xhook"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

// Hello actor 的接口名与方法名。
const (
	HelloInterface = "Hello"

	MethodSayHello                      = "SayHello"
	MethodSayHelloWithTrace             = "SayHelloWithTrace"
	MethodSayHelloWithLongTimeToProcess = "SayHelloWithLongTimeToProcess"
)

// HelloMethods 返回 Hello 接受的全部方法。
func HelloMethods() []string {
	return []string{MethodSayHello, MethodSayHelloWithTrace, MethodSayHelloWithLongTimeToProcess}
}

// AttrKind 标记显式传入上下文的 span。
const AttrKind = attribute.Key("Kind")

// ErrBadParams 参数个数或类型不对。
var ErrBadParams = errors.New("demo: bad params")

// Hello 问候 actor。每个方法在调用 span 之下再开一个业务 span，
// 并在处理期间尊重 ctx 的取消。
type Hello struct {
	id        string
	tracer    trace.Tracer
	codec     xtrace.Codec
	logger    xlog.Logger
	delay     time.Duration
	longDelay func() time.Duration
}

var _ xactor.Actor = (*Hello)(nil)

// HelloFactory 返回创建 Hello 的 xactor.Factory。
func HelloFactory(tracer trace.Tracer, logger xlog.Logger, cfg DemoConfig) xactor.Factory {
	if logger == nil {
		logger = xlog.Default()
	}
	longDelay := func() time.Duration {
		half := cfg.LongDelay / 2
		if half <= 0 {
			return cfg.LongDelay
		}
		return half + rand.N(half)
	}
	return func(id string) xactor.Actor {
		return &Hello{
			id:        id,
			tracer:    tracer,
			codec:     xtrace.NewOTelCodec(),
			logger:    logger,
			delay:     cfg.Delay,
			longDelay: longDelay,
		}
	}
}

func (h *Hello) Invoke(ctx context.Context, inv *xactor.Invocation) (any, error) {
	greeting, ok := param[string](inv.Params, 0)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants a greeting string", ErrBadParams, inv.Method)
	}
	switch inv.Method {
	case MethodSayHello:
		return h.sayHello(ctx, greeting)
	case MethodSayHelloWithTrace:
		var carrier any
		if len(inv.Params) > 1 {
			carrier = inv.Params[1]
		}
		return h.sayHelloWithTrace(ctx, greeting, carrier)
	case MethodSayHelloWithLongTimeToProcess:
		return h.respond(ctx, "HelloActor::"+MethodSayHelloWithLongTimeToProcess, greeting, h.longDelay())
	default:
		return nil, fmt.Errorf("demo: Hello has no method %q", inv.Method)
	}
}

func (h *Hello) sayHello(ctx context.Context, greeting string) (string, error) {
	return h.respond(ctx, "HelloActor::"+MethodSayHello, greeting, h.delay)
}

// sayHelloWithTrace 以参数里的上下文（xtrace.TextMap 或 map[string]string）为父；
// 解不出时退回 actor 的生命周期 span。
func (h *Hello) sayHelloWithTrace(ctx context.Context, greeting string, carrier any) (string, error) {
	parent := ctx
	if sc, ok := xtrace.Decode(h.codec, carrier); ok {
		parent = xtrace.ContextWithRemote(ctx, sc)
	} else if sc, ok := xhook.LifetimeSpanContext(ctx); ok {
		parent = xtrace.ContextWithRemote(ctx, sc)
	}
	return h.respondFrom(ctx, parent, "HelloActor::"+MethodSayHelloWithTrace, greeting, h.delay,
		trace.WithAttributes(AttrKind.String("Orbit Actor")))
}

func (h *Hello) respond(ctx context.Context, name, greeting string, delay time.Duration) (string, error) {
	return h.respondFrom(ctx, ctx, name, greeting, delay)
}

// respondFrom 在 parent 之下开 span，等待 delay 后回复；ctx 结束时提前返回 ctx.Err()。
func (h *Hello) respondFrom(ctx, parent context.Context, name, greeting string, delay time.Duration, opts ...trace.SpanStartOption) (string, error) {
	_, span := h.tracer.Start(parent, name, opts...)
	defer span.End()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return "", ctx.Err()
		}
	}

	h.logger.Info(ctx, "actor received greeting", slog.String("greeting", greeting))
	return fmt.Sprintf("You said: '%s', I say: Hello from %s !", greeting, h.id), nil
}

func param[T any](params []any, i int) (T, bool) {
	var zero T
	if i >= len(params) {
		return zero, false
	}
	v, ok := params[i].(T)
	return v, ok
}
