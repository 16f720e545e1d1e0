// Package session provides the concrete ports.SessionReader implementations.
// The engine never reads global auth state: long-lived components observe a
// Provider, and the HTTP adapter carries each request's session in its
// context.
package session

import (
	"context"
	"sync"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

type ctxKey struct{}

// NewContext returns a context carrying the given session.
func NewContext(ctx context.Context, s ports.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extracts the session from ctx, defaulting to guest.
func FromContext(ctx context.Context) ports.Session {
	if s, ok := ctx.Value(ctxKey{}).(ports.Session); ok {
		return s
	}
	return ports.Guest()
}

// Provider holds a mutable session and broadcasts transitions to watchers.
// It backs long-lived subscriptions (live list queries, the reminder loop)
// where the session changes over the component's lifetime.
type Provider struct {
	mu       sync.RWMutex
	current  ports.Session
	watchers map[int]chan ports.Session
	nextID   int
}

// NewProvider starts in guest mode.
func NewProvider() *Provider {
	return &Provider{
		current:  ports.Guest(),
		watchers: make(map[int]chan ports.Session),
	}
}

// Current implements ports.SessionReader. The stored state wins; a session
// carried in ctx (per-request override) takes precedence when present.
func (p *Provider) Current(ctx context.Context) ports.Session {
	if s, ok := ctx.Value(ctxKey{}).(ports.Session); ok {
		return s
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Watch implements ports.SessionReader. Each watcher gets its own buffered
// channel; a slow watcher drops intermediate transitions but always observes
// the latest state eventually.
func (p *Provider) Watch(ctx context.Context) <-chan ports.Session {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	ch := make(chan ports.Session, 1)
	p.watchers[id] = ch
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.watchers, id)
		p.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Set replaces the session and notifies watchers.
func (p *Provider) Set(s ports.Session) {
	p.mu.Lock()
	p.current = s
	for _, ch := range p.watchers {
		select {
		case ch <- s:
		default:
			// watcher still holds an unread transition; replace it
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
	p.mu.Unlock()
}

// SignIn switches the provider to an authenticated session.
func (p *Provider) SignIn(userID, email string) {
	p.Set(ports.Session{Authenticated: true, UserID: userID, Email: email})
}

// SignOut switches the provider back to guest mode.
func (p *Provider) SignOut() {
	p.Set(ports.Guest())
}

// RequestReader resolves sessions exclusively from the call context. It backs
// the HTTP adapter, where every request carries its own session and no
// transition can happen mid-request.
type RequestReader struct{}

func (RequestReader) Current(ctx context.Context) ports.Session {
	return FromContext(ctx)
}

// Watch returns a channel that never emits: a request-scoped session cannot
// transition. It closes with the context.
func (RequestReader) Watch(ctx context.Context) <-chan ports.Session {
	ch := make(chan ports.Session)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
