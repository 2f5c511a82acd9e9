package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	w := NoopWidgetHooks{}
	w.OnMount(ctx, 20, true)
	w.OnToggle(ctx, 3, "expanded", 2, 0, time.Millisecond, nil)
	w.OnLayout(ctx, 22, time.Millisecond)
	w.OnReset(ctx, false)

	s := NoopStoreHooks{}
	s.OnStoreHit(ctx, "memory")
	s.OnStoreMiss(ctx, "file")
	s.OnStoreSet(ctx, "redis", 512)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/sessions")
	h.OnResponse(ctx, "POST", "/api/sessions", 201, time.Millisecond)
	h.OnError(ctx, "POST", "/api/sessions", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Widget().(NoopWidgetHooks); !ok {
		t.Error("Widget() should return NoopWidgetHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customWidget := &testWidgetHooks{}
	SetWidgetHooks(customWidget)
	if Widget() != customWidget {
		t.Error("SetWidgetHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Widget().(NoopWidgetHooks); !ok {
		t.Error("Reset() should restore NoopWidgetHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testWidgetHooks{}
	SetWidgetHooks(custom)
	SetWidgetHooks(nil)

	if Widget() != custom {
		t.Error("SetWidgetHooks(nil) should be ignored")
	}
}

type testWidgetHooks struct{ NoopWidgetHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
