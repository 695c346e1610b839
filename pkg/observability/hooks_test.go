package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Designer hooks
	d := NoopDesignerHooks{}
	d.OnOperation(ctx, "move", time.Millisecond, nil)
	d.OnUndo(ctx, 3)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnSaveStart(ctx, "layout:acme:north", 120)
	p.OnSaveComplete(ctx, "layout:acme:north", time.Second, nil)
	p.OnLoadComplete(ctx, "layout:acme:north", 120, time.Second, nil)
	p.OnExportStart(ctx, "svg")
	p.OnExportComplete(ctx, "svg", 2048, time.Second, nil)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnStoreHit(ctx, "layout")
	s.OnStoreMiss(ctx, "layout")
	s.OnStoreSet(ctx, "export", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/layouts/{org}/{name}")
	h.OnResponse(ctx, "GET", "/layouts/{org}/{name}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Designer() should return NoopDesignerHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customDesigner := &testDesignerHooks{}
	SetDesignerHooks(customDesigner)
	if Designer() != customDesigner {
		t.Error("SetDesignerHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
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

	// Reset and verify
	Reset()
	if _, ok := Designer().(NoopDesignerHooks); !ok {
		t.Error("Reset() should restore NoopDesignerHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testDesignerHooks{}
	SetDesignerHooks(custom)

	// Setting nil should be ignored
	SetDesignerHooks(nil)

	if Designer() != custom {
		t.Error("SetDesignerHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testDesignerHooks struct{ NoopDesignerHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
