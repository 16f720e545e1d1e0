package session

import (
	"context"
	"testing"
	"time"

	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

func TestFromContext_DefaultsToGuest(t *testing.T) {
	sess := FromContext(context.Background())
	if sess.Authenticated || !sess.GuestMode {
		t.Fatalf("expected guest default, got %+v", sess)
	}
}

func TestContextRoundTrip(t *testing.T) {
	want := ports.Session{Authenticated: true, UserID: "user_1", Email: "a@b.com"}
	ctx := NewContext(context.Background(), want)

	if got := FromContext(ctx); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestProvider_StartsAsGuest(t *testing.T) {
	p := NewProvider()
	sess := p.Current(context.Background())
	if !sess.GuestMode {
		t.Fatalf("provider must start in guest mode, got %+v", sess)
	}
}

func TestProvider_ContextOverrideWins(t *testing.T) {
	p := NewProvider()
	p.SignIn("user_1", "a@b.com")

	override := ports.Session{Authenticated: true, UserID: "user_2"}
	ctx := NewContext(context.Background(), override)

	if got := p.Current(ctx); got.UserID != "user_2" {
		t.Fatalf("context override ignored, got %+v", got)
	}
	if got := p.Current(context.Background()); got.UserID != "user_1" {
		t.Fatalf("stored state lost, got %+v", got)
	}
}

func TestProvider_WatchSeesTransitions(t *testing.T) {
	p := NewProvider()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := p.Watch(ctx)
	p.SignIn("user_1", "a@b.com")

	select {
	case sess := <-ch:
		if !sess.Authenticated || sess.UserID != "user_1" {
			t.Fatalf("unexpected transition: %+v", sess)
		}
	case <-time.After(time.Second):
		t.Fatal("no transition observed")
	}

	p.SignOut()
	select {
	case sess := <-ch:
		if !sess.GuestMode {
			t.Fatalf("expected guest after sign-out, got %+v", sess)
		}
	case <-time.After(time.Second):
		t.Fatal("sign-out not observed")
	}
}

func TestProvider_SlowWatcherSeesLatest(t *testing.T) {
	p := NewProvider()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := p.Watch(ctx)

	// Never read between transitions; the buffer holds only the newest.
	p.SignIn("user_1", "a@b.com")
	p.SignIn("user_2", "b@c.com")
	p.SignOut()

	select {
	case sess := <-ch:
		if !sess.GuestMode {
			t.Fatalf("slow watcher must see the latest state, got %+v", sess)
		}
	case <-time.After(time.Second):
		t.Fatal("no transition observed")
	}
}

func TestProvider_WatchClosesOnCancel(t *testing.T) {
	p := NewProvider()
	ctx, cancel := context.WithCancel(context.Background())

	ch := p.Watch(ctx)
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel did not close")
		}
	}
}

func TestRequestReader(t *testing.T) {
	r := RequestReader{}

	want := ports.Session{Authenticated: true, UserID: "user_1"}
	ctx := NewContext(context.Background(), want)
	if got := r.Current(ctx); got != want {
		t.Fatalf("got %+v", got)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	ch := r.Watch(watchCtx)
	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("request-scoped watch must never emit")
		}
	case <-time.After(time.Second):
		t.Fatal("watch channel did not close")
	}
}
