package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Frame hooks
	f := NoopFrameHooks{}
	f.OnFrameStart(2)
	f.OnFrameComplete(2, time.Millisecond)
	f.OnToneMapDispatch(2)
	f.OnGPUWaitComplete(1, time.Millisecond)
	f.OnPersistenceCleared()

	// Store hooks
	s := NoopStoreHooks{}
	s.OnMarkerLoad(ctx, "memory", 3, nil)
	s.OnMarkerSave(ctx, "memory", 3, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Frame().(NoopFrameHooks); !ok {
		t.Error("Frame() should return NoopFrameHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	// Set custom hooks
	customFrame := &testFrameHooks{}
	SetFrameHooks(customFrame)
	if Frame() != customFrame {
		t.Error("SetFrameHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Frame().(NoopFrameHooks); !ok {
		t.Error("Reset() should restore NoopFrameHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFrameHooks{}
	SetFrameHooks(custom)

	// Setting nil should be ignored
	SetFrameHooks(nil)

	if Frame() != custom {
		t.Error("SetFrameHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testFrameHooks struct{ NoopFrameHooks }
type testStoreHooks struct{ NoopStoreHooks }
