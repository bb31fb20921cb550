package models

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "music", []string{"music"}},
		{"multiple", "music,outdoor", []string{"music", "outdoor"}},
		{"whitespace trimmed", " music , outdoor ", []string{"music", "outdoor"}},
		{"empty elements dropped", "music,,outdoor,", []string{"music", "outdoor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTagRoundTrip(t *testing.T) {
	var event Event
	event.SetTags([]string{"music", "outdoor"})

	got := event.TagList()
	want := []string{"music", "outdoor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

// A tag containing a comma splits apart on read; there is no escaping, so the
// round trip is lossy for that input.
func TestTagRoundTripLossyComma(t *testing.T) {
	var event Event
	event.SetTags([]string{"a,b"})

	got := event.TagList()
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip of [\"a,b\"] = %v, want %v", got, want)
	}
}

func TestUnlimited(t *testing.T) {
	if !(&Event{Capacity: 0}).Unlimited() {
		t.Error("capacity 0 should be unlimited")
	}
	if (&Event{Capacity: 10}).Unlimited() {
		t.Error("capacity 10 should not be unlimited")
	}
}
