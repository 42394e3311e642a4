package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xactor/pkg/actor/xactor"
	"github.com/omeyang/xactor/pkg/actor/xhook"
	"github.com/omeyang/xactor/pkg/context/xframe"
	"github.com/omeyang/xactor/pkg/observability/xlog"
	"github.com/omeyang/xactor/pkg/observability/xtrace"
)

// 演示场景。
const (
	// ScenarioOneActor 所有消息顺序发给 actor "0"。
	ScenarioOneActor = "one-actor"
	// ScenarioMultiActor 第 i 条消息发给 actor "i"。
	ScenarioMultiActor = "multi-actor"
	// ScenarioConcurrent 所有消息并发发给 actor "0"，回复顺序不定。
	ScenarioConcurrent = "concurrent"
	// ScenarioTimeout 先发一条处理很久的消息，随后两条普通消息。
	ScenarioTimeout = "timeout"
	// ScenarioExplicitTrace 把调用方上下文作为参数传给 SayHelloWithTrace。
	ScenarioExplicitTrace = "explicit-trace"
)

// Scenarios 返回全部场景名。
func Scenarios() []string {
	return []string{ScenarioOneActor, ScenarioMultiActor, ScenarioConcurrent, ScenarioTimeout, ScenarioExplicitTrace}
}

// Caller 发起 actor 调用，*xstage.Stage 满足它。
type Caller interface {
	Call(ctx context.Context, target xactor.Identity, method string, params ...any) (any, error)
}

// Outcome 一次调用的结果。
type Outcome struct {
	Target  string
	Method  string
	Message string
	Reply   string
	Err     error
}

// Report 一个场景的全部结果，Outcomes 按完成顺序排列。
type Report struct {
	Scenario string
	TraceID  string
	Outcomes []Outcome
}

// Failed 返回失败的调用数。
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Runner 在根 span 之下执行演示场景。
type Runner struct {
	caller   Caller
	tracer   trace.Tracer
	logger   xlog.Logger
	codec    xtrace.Codec
	messages int
}

// NewRunner 创建 Runner，messages 为每个场景发送的消息数。
func NewRunner(caller Caller, tracer trace.Tracer, logger xlog.Logger, messages int) *Runner {
	if logger == nil {
		logger = xlog.Default()
	}
	return &Runner{
		caller:   caller,
		tracer:   tracer,
		logger:   logger,
		codec:    xtrace.NewOTelCodec(),
		messages: messages,
	}
}

// Run 执行 scenario。调用失败记录在 Report 中，不作为错误返回。
func (r *Runner) Run(ctx context.Context, scenario string) (Report, error) {
	var (
		root  string
		attrs []attribute.KeyValue
		body  func(ctx context.Context, parent trace.Span, rec *recorder)
	)
	switch scenario {
	case ScenarioOneActor:
		root = "processMessagesByOneActor"
		attrs = []attribute.KeyValue{attribute.String("author", "xactor"), attribute.String("app", "hello trace")}
		body = r.oneActor
	case ScenarioMultiActor:
		root, body = "processMessagesByMultipleActor", r.multiActor
	case ScenarioConcurrent:
		root, body = "processMessagesConcurrently", r.concurrent
	case ScenarioTimeout:
		root, body = "showMessageTimeout", r.timeout
	case ScenarioExplicitTrace:
		root, body = "processMessagesWithExplicitTrace", r.explicitTrace
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownScenario, scenario)
	}

	ctx, parent := r.tracer.Start(ctx, root, trace.WithAttributes(attrs...))
	ctx = xtrace.SyncToContext(ctx, parent.SpanContext())
	rec := &recorder{}

	r.logger.Info(ctx, "scenario starting", slog.String("scenario", scenario), xlog.Count(int64(r.messages)))
	body(ctx, parent, rec)
	parent.End()

	report := Report{
		Scenario: scenario,
		TraceID:  parent.SpanContext().TraceID().String(),
		Outcomes: rec.outcomes(),
	}
	r.logger.Info(ctx, "scenario finished",
		slog.String("scenario", scenario),
		slog.Int("calls", len(report.Outcomes)),
		slog.Int("failed", report.Failed()))
	return report, nil
}

func (r *Runner) oneActor(ctx context.Context, parent trace.Span, rec *recorder) {
	parent.AddEvent("Loop starting")
	for i := range r.messages {
		if i == r.messages/2 {
			parent.AddEvent("Loop in the middle")
		}
		rec.add(r.send(ctx, i, "0", MethodSayHello))
	}
}

func (r *Runner) multiActor(ctx context.Context, _ trace.Span, rec *recorder) {
	for i := range r.messages {
		rec.add(r.send(ctx, i, strconv.Itoa(i), MethodSayHello))
	}
}

// concurrent 每个 goroutine 用 Fork 得到自己的帧栈，互不干扰。
func (r *Runner) concurrent(ctx context.Context, _ trace.Span, rec *recorder) {
	var g errgroup.Group
	for i := range r.messages {
		g.Go(func() error {
			rec.add(r.send(xframe.Fork(ctx), i, "0", MethodSayHello))
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) timeout(ctx context.Context, _ trace.Span, rec *recorder) {
	rec.add(r.send(ctx, 0, "0", MethodSayHelloWithLongTimeToProcess))
	for i := 1; i < min(r.messages, 3); i++ {
		rec.add(r.send(ctx, i, "0", MethodSayHello))
	}
}

func (r *Runner) explicitTrace(ctx context.Context, _ trace.Span, rec *recorder) {
	for i := range r.messages {
		ctx, span := r.tracer.Start(ctx, fmt.Sprintf("action %d", i))
		rec.add(r.call(ctx, "0", MethodSayHelloWithTrace, message(i), xtrace.EncodeSpan(r.codec, ctx, span)))
		span.End()
	}
}

// send 在 "action i" span 之下调用，span 通过帧栈上的粘性头传给 actor。
func (r *Runner) send(ctx context.Context, i int, id, method string) Outcome {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("action %d", i),
		trace.WithAttributes(AttrKind.String("Code block in Loop")))
	defer span.End()

	ctx, f := xhook.PushSpanContext(ctx, span)
	defer xhook.PopSpanContext(ctx, f)
	return r.call(ctx, id, method, message(i))
}

func (r *Runner) call(ctx context.Context, id, method, msg string, extra ...any) Outcome {
	target := xactor.NewIdentity(HelloInterface, id)
	out := Outcome{Target: target.String(), Method: method, Message: msg}

	v, err := r.caller.Call(ctx, target, method, append([]any{msg}, extra...)...)
	if err != nil {
		out.Err = err
		r.logger.Warn(ctx, "call failed", xlog.Actor(out.Target), xlog.Method(method), xlog.Err(err))
		return out
	}
	out.Reply, _ = v.(string)
	r.logger.Info(ctx, "reply", xlog.Actor(out.Target), slog.String("reply", out.Reply))
	return out
}

func message(i int) string {
	return fmt.Sprintf("Welcome to xactor %d", i)
}

type recorder struct {
	mu   sync.Mutex
	list []Outcome
}

func (r *recorder) add(o Outcome) {
	r.mu.Lock()
	r.list = append(r.list, o)
	r.mu.Unlock()
}

func (r *recorder) outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.list...)
}
