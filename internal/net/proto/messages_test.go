package proto

import (
	"encoding/json"
	"testing"
)

func TestDecodeRequiresType(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"data":{}}`)); err == nil {
		t.Fatalf("expected error for missing type")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed frame")
	}

	env, err := Decode([]byte(`{"type":"join_queue","data":{"mode":"standard"}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.Type != TypeJoinQueue {
		t.Fatalf("type = %q", env.Type)
	}
}

func TestDecodeDataTyped(t *testing.T) {
	t.Parallel()

	env, err := Decode([]byte(`{"type":"game_action","data":{"action":"play_card","cardId":7,"slot":2}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	action, err := DecodeData[GameAction](env)
	if err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if action.Action != ActionPlayCard || action.CardID != 7 || action.Slot != 2 {
		t.Fatalf("action = %+v", action)
	}
}

func TestDecodeDataEmptyPayload(t *testing.T) {
	t.Parallel()

	env, err := Decode([]byte(`{"type":"leave_queue"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	payload, err := DecodeData[JoinQueue](env)
	if err != nil {
		t.Fatalf("empty payload should decode to zero value: %v", err)
	}
	if payload.Mode != "" || payload.Deck != nil {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Encode(TypeOnlineCount, OnlineCount{Online: 12})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	env, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if env.Type != TypeOnlineCount {
		t.Fatalf("type = %q", env.Type)
	}
	count, err := DecodeData[OnlineCount](env)
	if err != nil || count.Online != 12 {
		t.Fatalf("count = %+v err = %v", count, err)
	}
}

func TestEncodeNilPayloadOmitsData(t *testing.T) {
	t.Parallel()

	data, err := Encode(TypePong, nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := raw["data"]; present {
		t.Fatalf("nil payload produced a data field: %s", data)
	}
}

func TestRelayedDataSurvivesVerbatim(t *testing.T) {
	t.Parallel()

	// The relay forwards unknown payload fields untouched; the envelope must
	// not normalize or strip them.
	in := []byte(`{"type":"game_action","data":{"action":"play_card","cardId":3,"slot":0,"clientOnly":{"animation":"slam"}}}`)
	env, err := Decode(in)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	out, err := json.Marshal(Envelope{Type: env.Type, Data: env.Data})
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	var check map[string]any
	if err := json.Unmarshal(out, &check); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	data := check["data"].(map[string]any)
	if _, kept := data["clientOnly"]; !kept {
		t.Fatalf("client-only field was stripped: %s", out)
	}
}
