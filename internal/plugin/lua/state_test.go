package lua

import (
	"errors"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v, ok := s.GetGlobal("x").(glua.LNumber); !ok || v != 2 {
		t.Errorf("x = %v, want 2", s.GetGlobal("x"))
	}

	if err := s.DoString(`invalid lua code !!!`); err == nil {
		t.Error("DoString() with invalid code should return error")
	}
}

func TestStateCallFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) sum = a + b end`); err != nil {
		t.Fatal(err)
	}
	fn, ok := s.GetGlobal("add").(*glua.LFunction)
	if !ok {
		t.Fatal("add is not a function")
	}

	err := s.CallFunction(fn, func(*glua.LState) []glua.LValue {
		return []glua.LValue{glua.LNumber(2), glua.LNumber(3)}
	})
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if v := s.GetGlobal("sum"); v != glua.LNumber(5) {
		t.Errorf("sum = %v, want 5", v)
	}

	if err := s.DoString(`function fail() error("nope") end`); err != nil {
		t.Fatal(err)
	}
	fail := s.GetGlobal("fail").(*glua.LFunction)
	if err := s.CallFunction(fail, nil); err == nil {
		t.Error("CallFunction(fail) should return error")
	}
}

func TestStateTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString(loop) error = %v, want ErrExecutionTimeout", err)
	}

	// The state is usable after a timeout.
	if err := s.DoString(`y = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateRegisterModule(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.RegisterModule("m", map[string]glua.LGFunction{
		"double": func(L *glua.LState) int {
			L.Push(L.CheckNumber(1) * 2)
			return 1
		},
	})
	if err := s.DoString(`r = m.double(21)`); err != nil {
		t.Fatal(err)
	}
	if v := s.GetGlobal("r"); v != glua.LNumber(42) {
		t.Errorf("m.double(21) = %v, want 42", v)
	}
}

func TestStateClose(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if v := s.GetGlobal("x"); v != glua.LNil {
		t.Errorf("GetGlobal() after Close = %v, want nil", v)
	}
}
