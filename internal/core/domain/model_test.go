package domain

import (
	"errors"
	"testing"
)

func TestResizePolicyRoundTrip(t *testing.T) {
	for _, policy := range []ResizePolicy{ResizeFirstToSecond, ResizeSecondToFirst, RejectOnMismatch} {
		parsed, err := ParseResizePolicy(policy.String())
		if err != nil {
			t.Fatalf("parsing %q: %v", policy.String(), err)
		}
		if parsed != policy {
			t.Errorf("round trip of %v yielded %v", policy, parsed)
		}
	}

	if _, err := ParseResizePolicy("stretch"); err == nil {
		t.Error("expected an error for an unknown policy name")
	}
}

func TestPixmapReset(t *testing.T) {
	p := NewPixmap(4, 4)
	buf := &p.Pix[0]

	p.Reset(2, 2)
	if p.Width != 2 || p.Height != 2 || len(p.Pix) != 2*2*3 {
		t.Fatalf("unexpected pixmap after shrink: %dx%d len=%d", p.Width, p.Height, len(p.Pix))
	}
	if &p.Pix[0] != buf {
		t.Error("shrinking should reuse the buffer")
	}

	p.Reset(8, 8)
	if len(p.Pix) != 8*8*3 {
		t.Errorf("unexpected length after grow: %d", len(p.Pix))
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	inner := errors.New("no such file")
	err := NewLoadError("/tmp/missing.png", inner)

	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to expose the inner error")
	}
	if err.Error() == "" || err.Path != "/tmp/missing.png" {
		t.Errorf("unexpected error %q", err.Error())
	}
}
