package cursor

import (
	"errors"
	"testing"

	"github.com/jacoelho/axmldecode/axmlerr"
)

func TestGetPrimitives(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := New(buf, 0, len(buf))

	b, err := c.GetU8()
	if err != nil || b != 0x01 {
		t.Fatalf("GetU8() = %v, %v", b, err)
	}
	u16, err := c.GetU16()
	if err != nil || u16 != 0x0302 {
		t.Fatalf("GetU16() = %#x, %v", u16, err)
	}
	u32, err := c.GetU32()
	if err != nil || u32 != 0x07060504 {
		t.Fatalf("GetU32() = %#x, %v", u32, err)
	}
	if c.Position() != 7 {
		t.Fatalf("Position() = %d, want 7", c.Position())
	}
}

func TestTruncatedRead(t *testing.T) {
	buf := []byte{0x01, 0x02}
	c := New(buf, 0, len(buf))
	if _, err := c.GetU32(); err == nil {
		t.Fatal("expected truncated error")
	} else {
		var axErr *axmlerr.Error
		if !errors.As(err, &axErr) || axErr.Code != axmlerr.Truncated {
			t.Fatalf("got %v, want Truncated", err)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	c := New(buf, 0, len(buf))
	snap := c.Save()
	if _, err := c.GetU32(); err != nil {
		t.Fatal(err)
	}
	c.Restore(snap)
	if c.Position() != 0 {
		t.Fatalf("Position() after restore = %d, want 0", c.Position())
	}
}

func TestMoveToOutOfRange(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	c := New(buf, 1, 3)
	if err := c.MoveTo(0); err == nil {
		t.Fatal("expected error moving before begin")
	}
	if err := c.MoveTo(4); err == nil {
		t.Fatal("expected error moving past end")
	}
	if err := c.MoveTo(2); err != nil {
		t.Fatalf("MoveTo(2) = %v", err)
	}
}

func TestGetCStr(t *testing.T) {
	buf := []byte{'h', 'i', 0x00, 'x'}
	c := New(buf, 0, len(buf))
	s, err := c.GetCStr()
	if err != nil || string(s) != "hi" {
		t.Fatalf("GetCStr() = %q, %v", s, err)
	}
	if c.Position() != 3 {
		t.Fatalf("Position() = %d, want 3", c.Position())
	}
}

func TestGetCStrNoTerminator(t *testing.T) {
	buf := []byte{'h', 'i'}
	c := New(buf, 0, len(buf))
	if _, err := c.GetCStr(); err == nil {
		t.Fatal("expected truncated error for missing terminator")
	}
}
