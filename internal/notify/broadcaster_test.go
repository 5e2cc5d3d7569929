package notify

import (
	"sync"
	"testing"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	a := b.Subscribe(4)
	c := b.Subscribe(4)

	b.Publish()

	if len(a) != 1 || len(c) != 1 {
		t.Fatalf("queued events = %d, %d; want 1, 1", len(a), len(c))
	}
	ea, ec := <-a, <-c
	if ea.Seq != 1 || ec.Seq != 1 {
		t.Errorf("seq = %d, %d; want 1, 1", ea.Seq, ec.Seq)
	}
}

func TestSeqAdvances(t *testing.T) {
	b := New()
	if b.Seq() != 0 {
		t.Errorf("initial seq = %d, want 0", b.Seq())
	}
	b.Publish()
	b.Publish()
	b.Publish()
	if b.Seq() != 3 {
		t.Errorf("seq = %d, want 3", b.Seq())
	}
}

// TestSlowSubscriberDoesNotBlock verifies a full buffer drops the signal
// rather than stalling Publish.
func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	slow := b.Subscribe(1)

	for i := 0; i < 10; i++ {
		b.Publish()
	}

	if len(slow) != 1 {
		t.Errorf("buffered = %d, want 1", len(slow))
	}
	// The counter still reflects every publish.
	if b.Seq() != 10 {
		t.Errorf("seq = %d, want 10", b.Seq())
	}
}

func TestCloseIsTerminal(t *testing.T) {
	b := New()
	ch := b.Subscribe(1)
	b.Close()

	if _, open := <-ch; open {
		t.Error("channel still open after Close")
	}

	b.Publish() // no-op, must not panic
	late := b.Subscribe(1)
	if _, open := <-late; open {
		t.Error("subscribe after Close returned an open channel")
	}
}

// TestPublishDuringClose interleaves publishers with Close. Sends happen
// under the broadcaster mutex, so no publish can land on a closed channel.
func TestPublishDuringClose(t *testing.T) {
	for range 200 {
		b := New()
		for range 8 {
			b.Subscribe(1)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Publish()
			}
		}()
		go func() {
			defer wg.Done()
			b.Close()
		}()
		wg.Wait()
	}
}
