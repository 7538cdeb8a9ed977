package flow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoader_LastRequestWins(t *testing.T) {
	releaseOld := make(chan struct{})
	oldCancelled := make(chan struct{})

	l := NewLoader(func(ctx context.Context, hotelID string) (string, error) {
		if hotelID == "H-old" {
			<-ctx.Done()
			close(oldCancelled)
			<-releaseOld
			return "rates for H-old", nil
		}
		return "rates for H-new", nil
	})

	oldDone := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "H-old")
		oldDone <- err
	}()

	waitFor(t, func() bool { return l.State().Key == "H-old" && l.State().Loading })

	got, err := l.Load(context.Background(), "H-new")
	if err != nil || got != "rates for H-new" {
		t.Fatalf("Load(H-new) = %q, %v", got, err)
	}

	select {
	case <-oldCancelled:
	case <-time.After(time.Second):
		t.Fatal("old load was not cancelled")
	}
	close(releaseOld)

	if err := <-oldDone; !errors.Is(err, ErrStale) {
		t.Errorf("old load err = %v, want ErrStale", err)
	}

	st := l.State()
	if st.Key != "H-new" || st.Value != "rates for H-new" || !st.Loaded || st.Loading {
		t.Errorf("state = %+v", st)
	}
}

func TestLoader_ErrorIsStepState(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(func(ctx context.Context, key int) (int, error) {
		return 0, boom
	})

	if _, err := l.Load(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	st := l.State()
	if st.Loaded || !errors.Is(st.Err, boom) || st.Key != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestLoader_Close(t *testing.T) {
	started := make(chan struct{})
	l := NewLoader(func(ctx context.Context, key string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	done := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "k")
		done <- err
	}()

	<-started
	l.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrStale) {
			t.Errorf("err = %v, want ErrStale", err)
		}
	case <-time.After(time.Second):
		t.Fatal("load did not return after Close")
	}
	if l.State().Loading || l.State().Loaded {
		t.Errorf("state = %+v", l.State())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met")
		}
		time.Sleep(time.Millisecond)
	}
}
