package parser

import (
	"testing"
	"time"
)

func TestJSONParser_DefaultFields(t *testing.T) {
	p := NewJSONParser("", "")

	hit, fail := p.Parse(Line{Text: `{"time":"2024-01-02T10:30:00Z","path":"/api/login","status":200}`})
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if hit.Key != "/api/login" {
		t.Errorf("Key: got %q", hit.Key)
	}
	want := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	if !hit.Timestamp.Equal(want) {
		t.Errorf("Timestamp: got %v, want %v", hit.Timestamp, want)
	}
}

func TestJSONParser_CustomKeyField(t *testing.T) {
	p := NewJSONParser("endpoint", "")

	hit, fail := p.Parse(Line{Text: `{"ts":"2024-01-02","endpoint":"/health"}`})
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if hit.Key != "/health" {
		t.Errorf("Key: got %q", hit.Key)
	}
	if hit.Day() != "2024-01-02" {
		t.Errorf("Day: got %q", hit.Day())
	}
}

func TestJSONParser_MissingKeyField(t *testing.T) {
	p := NewJSONParser("", "")

	_, fail := p.Parse(Line{Text: `{"time":"2024-01-02T10:30:00Z","status":200}`})
	if fail == nil {
		t.Fatal("expected a failure when the key field is absent")
	}
	if fail.Reason != "missing key field path" {
		t.Errorf("Reason: got %q", fail.Reason)
	}
}

func TestJSONParser_InvalidJSON(t *testing.T) {
	p := NewJSONParser("", "")

	_, fail := p.Parse(Line{Text: `{"path": truncat`})
	if fail == nil {
		t.Fatal("expected a failure for invalid JSON")
	}
}

func TestJSONParser_NotAnObject(t *testing.T) {
	p := NewJSONParser("", "")

	_, fail := p.Parse(Line{Text: `GET /api/login 200`})
	if fail == nil {
		t.Fatal("expected a failure for a non-JSON line")
	}
	if fail.Reason != "not a JSON object" {
		t.Errorf("Reason: got %q", fail.Reason)
	}
}

func TestJSONParser_NoClockFallsBackToInferredDate(t *testing.T) {
	p := NewJSONParser("", "")

	inferred := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	hit, fail := p.Parse(Line{Text: `{"path":"/x"}`, InferredDate: inferred})
	if fail != nil {
		t.Fatalf("unexpected failure: %+v", fail)
	}
	if hit.Day() != "2024-03-05" {
		t.Errorf("Day: got %q, want inferred date", hit.Day())
	}
}
