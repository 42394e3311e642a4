package xctx

import "context"

// =============================================================================
// Actor 日志属性 Key 常量
// =============================================================================

const (
	KeyActorType    = "actor_type"
	KeyActorID      = "actor_id"
	KeyActorMethod  = "actor_method"
	KeyInvocationID = "invocation_id"

	actorFieldCount = 4
)

const (
	keyActorType    = contextKey("xctx:actor_type")
	keyActorID      = contextKey("xctx:actor_id")
	keyActorMethod  = contextKey("xctx:actor_method")
	keyInvocationID = contextKey("xctx:invocation_id")
)

// WithActorType 注入 actor 接口类型名（如 "Hello"）。
func WithActorType(ctx context.Context, actorType string) (context.Context, error) {
	return withString(ctx, keyActorType, actorType)
}

// ActorType 读取 actor 接口类型名，不存在返回空字符串
func ActorType(ctx context.Context) string {
	return stringValue(ctx, keyActorType)
}

// WithActorID 注入 actor 实例 ID。
func WithActorID(ctx context.Context, actorID string) (context.Context, error) {
	return withString(ctx, keyActorID, actorID)
}

// ActorID 读取 actor 实例 ID，不存在返回空字符串
func ActorID(ctx context.Context) string {
	return stringValue(ctx, keyActorID)
}

// WithActorMethod 注入当前调用的方法名。
func WithActorMethod(ctx context.Context, method string) (context.Context, error) {
	return withString(ctx, keyActorMethod, method)
}

// ActorMethod 读取当前调用的方法名，不存在返回空字符串
func ActorMethod(ctx context.Context) string {
	return stringValue(ctx, keyActorMethod)
}

// WithInvocationID 注入调用 ID（base36 字符串）。
func WithInvocationID(ctx context.Context, id string) (context.Context, error) {
	return withString(ctx, keyInvocationID, id)
}

// InvocationID 读取调用 ID，不存在返回空字符串
func InvocationID(ctx context.Context) string {
	return stringValue(ctx, keyInvocationID)
}

// RequireActor 同时要求 actor_type 与 actor_id 存在。
func RequireActor(ctx context.Context) (actorType, actorID string, err error) {
	if ctx == nil {
		return "", "", ErrNilContext
	}
	if actorType = ActorType(ctx); actorType == "" {
		return "", "", ErrMissingActorType
	}
	if actorID = ActorID(ctx); actorID == "" {
		return "", "", ErrMissingActorID
	}
	return actorType, actorID, nil
}

// Actor actor 相关字段的批量视图。
type Actor struct {
	Type         string
	ID           string
	Method       string
	InvocationID string
}

// GetActor 批量读取 actor 字段。
func GetActor(ctx context.Context) Actor {
	return Actor{
		Type:         ActorType(ctx),
		ID:           ActorID(ctx),
		Method:       ActorMethod(ctx),
		InvocationID: InvocationID(ctx),
	}
}

// WithActor 将 Actor 中的非空字段批量注入 context。
func WithActor(ctx context.Context, a Actor) (context.Context, error) {
	return applyOptionalFields(ctx, []contextFieldSetter{
		{value: a.Type, set: WithActorType},
		{value: a.ID, set: WithActorID},
		{value: a.Method, set: WithActorMethod},
		{value: a.InvocationID, set: WithInvocationID},
	})
}
