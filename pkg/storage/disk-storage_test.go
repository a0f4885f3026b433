package storage

import (
	"testing"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func TestRecordListsRoundTrip(t *testing.T) {
	d := NewDiskStorage("test", t.TempDir())
	lists := map[string][]types.Record{
		"models": {
			{"id": "1", "name": "gpt-x", "risk_level": "High"},
			{"id": "2", "name": "bert", "accuracy": 0.92},
		},
		"tasks": {},
	}
	if err := d.SaveRecordLists(lists); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}
	loaded, err := d.LoadRecordLists()
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if len(loaded["models"]) != 2 {
		t.Fatalf("Expected 2 model records, got %d", len(loaded["models"]))
	}
	if loaded["models"][0].Id() != "1" || loaded["models"][0]["name"] != "gpt-x" {
		t.Errorf("Expected first record back intact, got %v", loaded["models"][0])
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	d := NewDiskStorage("empty", t.TempDir())
	if _, err := d.LoadRecordLists(); err == nil {
		t.Errorf("Expected error for missing snapshot")
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	d := NewDiskStorage("test", t.TempDir())
	prefs := map[string]types.TablePreference{
		"risks": {Sort: types.SortConfig{Key: "risk_level", Direction: types.DirectionDesc}, PageSize: 25},
	}
	if err := d.SavePreferences(prefs); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}
	loaded, err := d.LoadPreferences()
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if loaded["risks"].Sort.Key != "risk_level" || loaded["risks"].PageSize != 25 {
		t.Errorf("Expected preference back intact, got %+v", loaded["risks"])
	}
}
