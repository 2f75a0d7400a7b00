package engine

import "testing"

func TestFrameTokenRoundTrip(t *testing.T) {
	tok := EncodeFrameToken(0x1234, 3, 2)
	ctxID, maxInflight, frameID := tok.Decode()
	if ctxID != 0x1234 || maxInflight != 3 || frameID != 2 {
		t.Fatalf("Decode() = (%x, %d, %d), want (1234, 3, 2)", ctxID, maxInflight, frameID)
	}
}

func TestFrameTokenNextFrameIDWraps(t *testing.T) {
	tok := EncodeFrameToken(1, 3, 2)
	if got := tok.NextFrameID(); got != 0 {
		t.Fatalf("NextFrameID() = %d, want 0", got)
	}
	tok = EncodeFrameToken(1, 3, 0)
	if got := tok.NextFrameID(); got != 1 {
		t.Fatalf("NextFrameID() = %d, want 1", got)
	}
}
