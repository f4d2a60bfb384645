package parser

import "testing"

func TestDetect_JSON(t *testing.T) {
	samples := []string{
		`{"time":"2024-01-02T10:00:00Z","path":"/a"}`,
		`{"time":"2024-01-02T10:00:01Z","path":"/b"}`,
		`not json at all`,
	}
	format, err := Detect(samples, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if format != FormatJSON {
		t.Errorf("format: got %q, want %q", format, FormatJSON)
	}
}

func TestDetect_Fields(t *testing.T) {
	samples := []string{
		"2024-01-02 /api/login 200",
		"2024-01-02 /api/logout 200",
	}
	format, err := Detect(samples, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if format != FormatFields {
		t.Errorf("format: got %q, want %q", format, FormatFields)
	}
}

func TestDetect_ASA(t *testing.T) {
	samples := []string{
		"asa# show access-list",
		"access-list inside_out line 1 extended permit ip any any (hitcnt=99) 0xdeadbeef",
	}
	format, err := Detect(samples, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if format != FormatASA {
		t.Errorf("format: got %q, want %q", format, FormatASA)
	}
}

func TestDetect_NoMatch(t *testing.T) {
	_, err := Detect([]string{"garbage", "more garbage"}, Options{})
	if err == nil {
		t.Fatal("expected an error when nothing matches")
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestNew_AutoMustBeResolved(t *testing.T) {
	_, err := New(Options{Format: FormatAuto})
	if err == nil {
		t.Fatal("expected an error for unresolved auto format")
	}
}
