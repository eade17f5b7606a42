package lexer

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLexer(source string) (*Lexer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	l := New(source)
	l.SetLogger(zap.New(core))
	return l, logs
}

func TestTrace_ObservesEveryToken(t *testing.T) {
	l := New("x := 5;")
	var seen []TokenType
	l.SetTrace(func(tok Token) TraceResult {
		seen = append(seen, tok.Type)
		return TraceResult{}
	})

	tokens, _ := l.Tokenize()
	if len(seen) != len(tokens) {
		t.Fatalf("trace saw %d tokens, lexer produced %d", len(seen), len(tokens))
	}
}

func TestTrace_SyncFailureDisablesForSession(t *testing.T) {
	l, logs := observedLexer("a b c d e")
	calls := 0
	l.SetTrace(func(tok Token) TraceResult {
		calls++
		return TraceResult{Err: errors.New("observer failed")}
	})

	l.Tokenize()

	if calls != 1 {
		t.Errorf("callback must be disabled after the first failure, got %d calls", calls)
	}
	if logs.Len() != 1 {
		t.Errorf("expected exactly one warning, got %d", logs.Len())
	}
}

func TestTrace_PanicIsRecovered(t *testing.T) {
	l, logs := observedLexer("a b c")
	calls := 0
	l.SetTrace(func(tok Token) TraceResult {
		calls++
		panic("callback exploded")
	})

	tokens, report := l.Tokenize()

	if calls != 1 {
		t.Errorf("expected callback disabled after panic, got %d calls", calls)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
	if len(tokens) == 0 || !report.Passed {
		t.Error("tokenization must survive a panicking callback")
	}
}

func TestTrace_ReentrancyPanicIsRethrown(t *testing.T) {
	l := New("a")
	l.SetTrace(func(tok Token) TraceResult {
		panic(fmt.Errorf("tokenize: %w", ErrReentrantTrace))
	})

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected the reentrancy panic to propagate")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrReentrantTrace) {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	l.Tokenize()
}

func TestTrace_ReenabledNextSession(t *testing.T) {
	l := New("a b")
	fail := true
	calls := 0
	l.SetTrace(func(tok Token) TraceResult {
		calls++
		if fail {
			return TraceResult{Err: errors.New("first session fails")}
		}
		return TraceResult{}
	})

	l.Tokenize()
	if calls != 1 {
		t.Fatalf("expected 1 call in failing session, got %d", calls)
	}

	fail = false
	calls = 0
	tokens, _ := l.Tokenize()
	if calls != len(tokens) {
		t.Errorf("callback must be re-enabled at the next session: %d calls for %d tokens", calls, len(tokens))
	}
}

func TestTrace_DeferredFailureDisablesWithinSession(t *testing.T) {
	l, logs := observedLexer("a b c d e f g h")

	released := false
	l.SetTrace(func(tok Token) TraceResult {
		if released {
			return TraceResult{}
		}
		released = true
		done := make(chan error, 1)
		done <- errors.New("deferred failure")
		close(done)
		return TraceResult{Done: done}
	})

	l.Tokenize()

	deadline := time.Now().Add(2 * time.Second)
	for logs.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning from the deferred failure, got %d", logs.Len())
	}
}

func TestTrace_StaleRejectionIgnoredAcrossSessions(t *testing.T) {
	l, logs := observedLexer("a b c")

	stale := make(chan error, 1)
	attached := false
	l.SetTrace(func(tok Token) TraceResult {
		if attached {
			return TraceResult{}
		}
		attached = true
		return TraceResult{Done: stale}
	})

	l.Tokenize() // session N: channel attached, still pending

	// Session N+1 begins before the rejection lands
	calls := 0
	l.SetTrace(func(tok Token) TraceResult {
		calls++
		return TraceResult{}
	})
	tokens, _ := l.Tokenize()

	// The stale rejection from session N arrives now
	stale <- errors.New("stale rejection")
	close(stale)

	time.Sleep(100 * time.Millisecond)
	if logs.Len() != 0 {
		t.Errorf("stale rejection must be silent, got %d warnings", logs.Len())
	}
	if calls != len(tokens) {
		t.Errorf("session N+1 callback must stay enabled: %d calls for %d tokens", calls, len(tokens))
	}

	// And the next session is unaffected too
	calls = 0
	tokens, _ = l.Tokenize()
	if calls != len(tokens) {
		t.Errorf("later sessions must stay enabled: %d calls for %d tokens", calls, len(tokens))
	}
}

func TestTrace_InstancesAreIsolated(t *testing.T) {
	shared := func(fail *bool) TraceFunc {
		return func(tok Token) TraceResult {
			if *fail {
				return TraceResult{Err: errors.New("shared failure")}
			}
			return TraceResult{}
		}
	}

	failA := true
	failB := false
	a := New("a b c")
	b := New("a b c")
	a.SetTrace(shared(&failA))
	b.SetTrace(shared(&failB))

	a.Tokenize()

	callsB := 0
	b.SetTrace(func(tok Token) TraceResult {
		callsB++
		return TraceResult{}
	})
	tokens, _ := b.Tokenize()
	if callsB != len(tokens) {
		t.Errorf("instance B must be unaffected by A's failure: %d calls for %d tokens", callsB, len(tokens))
	}
}

func TestTrace_NilDoneChannelIsHarmless(t *testing.T) {
	l := New("a b")
	l.SetTrace(func(tok Token) TraceResult {
		return TraceResult{Done: nil}
	})
	tokens, _ := l.Tokenize()
	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
}
