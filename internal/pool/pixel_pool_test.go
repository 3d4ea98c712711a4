package pool

import "testing"

func TestPixmapPoolSizesBuffers(t *testing.T) {
	pp := NewPixmapPool()

	p := pp.Get(4, 3)
	if p.Width != 4 || p.Height != 3 {
		t.Fatalf("unexpected dimensions %dx%d", p.Width, p.Height)
	}
	if len(p.Pix) != 4*3*3 {
		t.Fatalf("unexpected buffer length %d", len(p.Pix))
	}
	pp.Put(p)

	// A smaller request after Put must still come back correctly sized.
	q := pp.Get(2, 2)
	if q.Width != 2 || q.Height != 2 || len(q.Pix) != 2*2*3 {
		t.Errorf("unexpected reused pixmap %dx%d with %d bytes", q.Width, q.Height, len(q.Pix))
	}
	pp.Put(q)

	pp.Put(nil) // must not panic
}

func TestRGBAPoolSizesImages(t *testing.T) {
	rp := NewRGBAPool()

	img := rp.Get(5, 7)
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 7 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.Stride != 5*4 || len(img.Pix) != 5*7*4 {
		t.Fatalf("unexpected layout stride=%d len=%d", img.Stride, len(img.Pix))
	}
	rp.Put(img)

	bigger := rp.Get(9, 9)
	if bigger.Bounds().Dx() != 9 || bigger.Bounds().Dy() != 9 || len(bigger.Pix) != 9*9*4 {
		t.Errorf("unexpected reused image bounds=%v len=%d", bigger.Bounds(), len(bigger.Pix))
	}
	rp.Put(bigger)

	rp.Put(nil) // must not panic
}
