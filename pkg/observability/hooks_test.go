package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Simulation hooks
	s := NoopSimulationHooks{}
	s.OnSimulationStart(ctx, 10, 12, 1)
	s.OnSimulationSettled(ctx, 300, time.Second)
	s.OnSimulationStop(ctx, 300)
	s.OnFrame(ctx, true)

	// Session hooks
	ss := NoopSessionHooks{}
	ss.OnSessionOpen(ctx, "abc")
	ss.OnSessionClose(ctx, "abc", time.Minute)
	ss.OnPointer(ctx, "down")

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, 100)
	p.OnLayoutComplete(ctx, 300, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/v1/sessions/{id}/scene")
	h.OnResponse(ctx, "GET", "/api/v1/sessions/{id}/scene", 200, time.Millisecond)
	h.OnError(ctx, "GET", "/api/v1/sessions/{id}/scene", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Session().(NoopSessionHooks); !ok {
		t.Error("Session() should return NoopSessionHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customSession := &testSessionHooks{}
	SetSessionHooks(customSession)
	if Session() != customSession {
		t.Error("SetSessionHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Reset() should restore NoopSimulationHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSimulationHooks{}
	SetSimulationHooks(custom)

	// Setting nil should be ignored
	SetSimulationHooks(nil)

	if Simulation() != custom {
		t.Error("SetSimulationHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSimulationHooks struct{ NoopSimulationHooks }
type testSessionHooks struct{ NoopSessionHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
