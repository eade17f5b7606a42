package lexer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrReentrantTrace is the panic value a trace callback raises when it
// detects that it re-entered the lexer. Unlike every other callback failure
// it is not swallowed: the lexer re-raises it.
var ErrReentrantTrace = errors.New("trace callback re-entered the lexer")

// TraceResult is what a trace callback hands back for one token. Err reports
// an immediate failure. Done optionally carries a deferred failure from work
// the callback started; the lexer never blocks on it, and a failure arriving
// after the originating session ended is discarded.
type TraceResult struct {
	Err  error
	Done <-chan error
}

// TraceFunc observes each token as the scanner produces it. The first
// failure, immediate or deferred, logs a single warning and disables the
// callback for the remainder of the originating session. The disabled state
// clears at the next Tokenize call, and is per lexer instance: sharing one
// function between instances never couples them.
type TraceFunc func(tok Token) TraceResult

type traceState struct {
	mu       sync.Mutex
	fn       TraceFunc
	session  uint64
	disabled bool
}

// SetTrace installs or replaces the per-token trace callback
func (l *Lexer) SetTrace(fn TraceFunc) {
	l.trace.mu.Lock()
	l.trace.fn = fn
	l.trace.mu.Unlock()
}

// beginTraceSession opens a new session: the id increments and the disabled
// flag resets, re-enabling a callback disabled during the previous scan
func (l *Lexer) beginTraceSession() {
	l.trace.mu.Lock()
	l.trace.session++
	l.trace.disabled = false
	l.trace.mu.Unlock()
}

// Session returns the identifier of the current tokenize session
func (l *Lexer) Session() uint64 {
	l.trace.mu.Lock()
	defer l.trace.mu.Unlock()
	return l.trace.session
}

func (l *Lexer) traceToken(tok Token) {
	l.trace.mu.Lock()
	fn := l.trace.fn
	disabled := l.trace.disabled
	session := l.trace.session
	l.trace.mu.Unlock()

	if fn == nil || disabled {
		return
	}

	result, err := l.callTrace(fn, tok)
	if err != nil {
		l.disableTrace(session, err)
		return
	}
	if result.Err != nil {
		l.disableTrace(session, result.Err)
		return
	}
	if result.Done != nil {
		// Deferred failures are drained off the scanning path. The session
		// id is captured at attach time so a stale failure from session N
		// cannot disable the callback for session N+1.
		go l.drainTrace(result.Done, session)
	}
}

// callTrace invokes the callback, converting a panic into an error.
// A reentrancy panic is re-raised.
func (l *Lexer) callTrace(fn TraceFunc, tok Token) (result TraceResult, failure error) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, ErrReentrantTrace) {
				panic(r)
			}
			failure = fmt.Errorf("trace callback panicked: %v", r)
		}
	}()
	return fn(tok), nil
}

func (l *Lexer) drainTrace(done <-chan error, session uint64) {
	err, ok := <-done
	if !ok || err == nil {
		return
	}
	l.disableTrace(session, err)
}

// disableTrace disables the callback for the given session and logs one
// warning. A session mismatch means the failure is stale and is ignored.
func (l *Lexer) disableTrace(session uint64, err error) {
	l.trace.mu.Lock()
	defer l.trace.mu.Unlock()

	if session != l.trace.session || l.trace.disabled {
		return
	}
	l.trace.disabled = true
	l.logger.Warn("trace callback failed, disabled for this session",
		zap.Uint64("session", session),
		zap.Error(err))
}
