package alphabet

import "testing"

func TestGetKnownPresets(t *testing.T) {
	for _, name := range Names() {
		symbols, err := Get(name)
		if err != nil {
			t.Fatalf("get %q: %v", name, err)
		}
		if len(symbols) < 2 {
			t.Fatalf("preset %q too small: %d symbols", name, len(symbols))
		}
	}
}

func TestGetDefaultsWhenEmpty(t *testing.T) {
	symbols, err := Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if string(symbols) != "chklqrst" {
		t.Fatalf("unexpected default preset: %q", string(symbols))
	}
}

func TestGetNormalizesName(t *testing.T) {
	symbols, err := Get("  Jaeggi ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(symbols) != "chklqrst" {
		t.Fatalf("unexpected symbols: %q", string(symbols))
	}
}

func TestGetUnknownPreset(t *testing.T) {
	if _, err := Get("klingon"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	first, err := Get("jaeggi")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first[0] = 'z'
	second, err := Get("jaeggi")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second[0] == 'z' {
		t.Fatalf("preset mutated through returned slice")
	}
}
