package models

import (
	"encoding/json"
	"testing"
)

func TestLifecycleFromDeleted(t *testing.T) {
	if LifecycleFromDeleted(false) != Live {
		t.Fatal("expected isDeleted=false to be live")
	}
	if got := LifecycleFromDeleted(true); got != Deleted || got.IsLive() || !got.IsDeleted() {
		t.Fatalf("expected isDeleted=true to be deleted, got %v", got)
	}
}

func TestLifecycleJSONRoundTrip(t *testing.T) {
	in := Category{ID: "1", Name: "Tools", Slug: "tools", State: Deleted}
	body, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out Category
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.State != Deleted {
		t.Fatalf("expected deleted state after round trip, got %v", out.State)
	}
}

func TestLifecycleRejectsUnknownState(t *testing.T) {
	var l Lifecycle
	if err := json.Unmarshal([]byte(`"archived"`), &l); err == nil {
		t.Fatal("expected error for unknown lifecycle")
	}
}
