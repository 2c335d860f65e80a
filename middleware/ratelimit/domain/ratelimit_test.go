package domain

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestWindowPolicy_AllowsUpToMaxThenDenies(t *testing.T) {
	p := WindowPolicy{Window: time.Minute, MaxAttempts: 3}

	var (
		w  RateWindow
		ok bool
	)
	for i := 1; i <= 3; i++ {
		var dec Decision
		w, dec = p.Apply(w, ok, t0.Add(time.Duration(i)*time.Second))
		ok = true
		if !dec.Allowed {
			t.Fatalf("attempt %d: expected allowed", i)
		}
		if w.Count != i {
			t.Fatalf("attempt %d: expected count=%d, got %d", i, i, w.Count)
		}
		if dec.Remaining != 3-i {
			t.Fatalf("attempt %d: expected remaining=%d, got %d", i, 3-i, dec.Remaining)
		}
	}

	before := w
	w, dec := p.Apply(w, ok, t0.Add(10*time.Second))
	if dec.Allowed {
		t.Fatalf("expected 4th attempt to be denied")
	}
	if w != before {
		t.Fatalf("denied attempt must not change the window: before=%+v after=%+v", before, w)
	}
	if dec.RetryAfter != 51*time.Second {
		t.Fatalf("expected RetryAfter=51s, got %s", dec.RetryAfter)
	}
}

func TestWindowPolicy_ResetsWhenResetAtReached(t *testing.T) {
	p := WindowPolicy{Window: time.Minute, MaxAttempts: 1}

	w, dec := p.Apply(RateWindow{}, false, t0)
	if !dec.Allowed {
		t.Fatalf("expected first attempt allowed")
	}
	if _, dec = p.Apply(w, true, t0.Add(59*time.Second)); dec.Allowed {
		t.Fatalf("expected attempt inside the window to be denied")
	}

	// ResetAt <= now já conta como janela nova.
	next, dec := p.Apply(w, true, t0.Add(time.Minute))
	if !dec.Allowed {
		t.Fatalf("expected attempt at ResetAt to be allowed")
	}
	fresh, _ := p.Apply(RateWindow{}, false, t0.Add(time.Minute))
	if next != fresh {
		t.Fatalf("expected reset window to equal a never-seen one: %+v vs %+v", next, fresh)
	}
}
