package v4l2

import (
	"testing"

	"github.com/octoglot/gocamcore/pixfmt"
)

func TestRoundTripKnownFormats(t *testing.T) {
	for native, code := range nativeToKnown {
		pf := fromNative(native)
		if !pf.Known || pf.Code != code {
			t.Fatalf("fromNative(0x%08x) = %+v, want Known %v", native, pf, code)
		}
		gotNative, ok := toNative(pf)
		if !ok || gotNative != native {
			t.Fatalf("toNative(%v) = (0x%08x, %v), want (0x%08x, true)", pf, gotNative, ok, native)
		}
	}
}

func TestUnknownNativeCodeRoundTrips(t *testing.T) {
	const weird uint32 = 0x44414142 // "BAAD"
	pf := fromNative(weird)
	if pf.Known {
		t.Fatalf("fromNative(weird) = %+v, want Unknown", pf)
	}
	native, ok := toNative(pf)
	if !ok || native != weird {
		t.Fatalf("toNative(unknown) = (0x%08x, %v), want (0x%08x, true)", native, ok, weird)
	}
}

func TestToNativeUnregisteredKnownCodeFails(t *testing.T) {
	bogus := pixfmt.KnownFormat(pixfmt.NewFourCC('X', 'X', 'X', 'X'))
	_, ok := toNative(bogus)
	if ok {
		t.Fatalf("toNative(bogus known code) unexpectedly succeeded")
	}
}
