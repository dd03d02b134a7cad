package httpapi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/petal-labs/ocbot/core"
)

func TestEncodeContent(t *testing.T) {
	tests := []struct {
		name    string
		content core.MessageContent
		want    string
	}{
		{"text", core.TextContent{Text: "hi"}, `{"Text":{"text":"hi"}}`},
		{"empty text", core.TextContent{}, `{"Text":{"text":""}}`},
		{"file", core.FileContent{Name: "a.txt", MimeType: "text/plain", FileSize: 3}, `{"File":{"name":"a.txt","mime_type":"text/plain","file_size":3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeContent(tt.content)
			if err != nil {
				t.Fatalf("encodeContent() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("encodeContent() = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := encodeContent(nil); err == nil {
		t.Error("nil content should fail")
	}
}

func TestDecodeContent(t *testing.T) {
	c, err := decodeContent(json.RawMessage(`{"Poll":{"question":"?","options":["a","b"],"anonymous":true}}`))
	if err != nil {
		t.Fatalf("decodeContent() error = %v", err)
	}
	poll, ok := c.(core.PollContent)
	if !ok {
		t.Fatalf("got %T, want PollContent", c)
	}
	if poll.Question != "?" || len(poll.Options) != 2 || !poll.Anonymous {
		t.Errorf("poll = %+v", poll)
	}

	if c, err := decodeContent(json.RawMessage(`{"Giphy":{}}`)); err != nil || c != nil {
		t.Errorf("unknown kind should decode to nil, got %v, %v", c, err)
	}
	if _, err := decodeContent(json.RawMessage(`{"Text":{},"File":{}}`)); err == nil {
		t.Error("two variants should fail")
	}
	if c, err := decodeContent(nil); err != nil || c != nil {
		t.Error("missing content should decode to nil")
	}
}

func TestEncodeCriteria(t *testing.T) {
	tests := []struct {
		criteria core.EventsSelectionCriteria
		want     string
	}{
		{core.EventsPage{StartIndex: 5, Ascending: true, MaxMessages: 10, MaxEvents: 20}, `{"Page":{"start_index":5,"ascending":true,"max_messages":10,"max_events":20}}`},
		{core.EventsByIndex{Events: []core.EventIndex{1, 2}}, `{"ByIndex":{"events":[1,2]}}`},
		{core.EventsWindow{MidPoint: 3, MaxMessages: 1, MaxEvents: 2}, `{"Window":{"mid_point":3,"max_messages":1,"max_events":2}}`},
		{core.EventsLatest{MaxEvents: 7}, `{"Latest":{"max_events":7}}`},
	}

	for _, tt := range tests {
		got, err := encodeCriteria(tt.criteria)
		if err != nil {
			t.Fatalf("encodeCriteria() error = %v", err)
		}
		if string(got) != tt.want {
			t.Errorf("encodeCriteria() = %s, want %s", got, tt.want)
		}
	}

	if _, err := encodeCriteria(nil); err == nil {
		t.Error("nil criteria should fail")
	}
}

func TestMillisConversions(t *testing.T) {
	if !fromMillis(0).IsZero() {
		t.Error("zero millis should be the zero time")
	}
	ts := fromMillis(1700000000123)
	if ts.UnixMilli() != 1700000000123 || ts.Location() != time.UTC {
		t.Errorf("fromMillis() = %v", ts)
	}
	if millisToDuration(nil) != nil || durationToMillis(nil) != nil {
		t.Error("nil should stay nil")
	}
}
