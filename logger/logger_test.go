package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestSetAndGet(t *testing.T) {
	nop := zap.NewNop()
	Set(nop)
	defer Set(nil)

	if Get() != nop {
		t.Fatalf("Get did not return the injected logger")
	}
}

func TestLazyBuild(t *testing.T) {
	Set(nil)
	if Get() == nil {
		t.Fatalf("expected a logger to be built")
	}
	if build("dev") == nil {
		t.Fatalf("expected a development logger")
	}
}
