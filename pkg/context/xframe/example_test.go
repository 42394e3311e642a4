package xframe_test

import (
	"context"
	"fmt"

	"github.com/omeyang/xactor/pkg/context/xframe"
)

func Example() {
	ctx, s := xframe.Ensure(context.Background())

	life := s.PushNew()
	_ = life.SetProperty("ActorLifeTimeSpanContext", "lifetime")

	call := s.PushNew()
	_ = call.SetProperty("SpanContext", "call")

	v, _ := xframe.Lookup(ctx, "ActorLifeTimeSpanContext")
	fmt.Println(v, s.Depth())

	s.Pop(call)
	s.Pop(life)
	fmt.Println(s.Depth())
	// Output:
	// lifetime 2
	// 0
}
