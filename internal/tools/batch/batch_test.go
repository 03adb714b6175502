package batch

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []string
		wantErr string
	}{
		{"single string", "msg123", []string{"msg123"}, ""},
		{"array of strings", []interface{}{"a", "b", "c"}, []string{"a", "b", "c"}, ""},
		{"nil", nil, nil, "messageIds is required"},
		{"empty string", "", nil, "messageIds cannot be empty"},
		{"empty array", []interface{}{}, nil, "messageIds cannot be empty"},
		{"non-string element", []interface{}{"a", 7}, nil, "messageIds[1] must be a string"},
		{"empty element", []interface{}{"a", ""}, nil, "messageIds[1] cannot be empty"},
		{"wrong type", 42, nil, "must be a string or array of strings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "messageIds")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessBatchPreservesOrderAndFailures(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	results := ProcessBatch(ids, func(id string) (string, error) {
		if id == "b" || id == "d" {
			return "", errors.New("boom " + id)
		}
		return "done " + id, nil
	})

	if len(results) != len(ids) {
		t.Fatalf("got %d results, want %d", len(results), len(ids))
	}
	for i, id := range ids {
		if results[i].ID != id {
			t.Errorf("results[%d].ID = %q, want %q", i, results[i].ID, id)
		}
	}
	if results[0].Status != StatusSuccess || results[0].Result != "done a" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Status != StatusError || results[1].Error != "boom b" {
		t.Errorf("results[1] = %+v", results[1])
	}
}

func TestProcessBatchBoundsConcurrency(t *testing.T) {
	ids := make([]string, 32)
	for i := range ids {
		ids[i] = "id"
	}

	var mu sync.Mutex
	var inFlight, peak int

	ProcessBatch(ids, func(string) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return "ok", nil
	})

	if peak > maxConcurrent {
		t.Errorf("observed %d concurrent calls, limit is %d", peak, maxConcurrent)
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: "a", Status: StatusSuccess, Result: "done"},
		{ID: "b", Status: StatusError, Error: "boom"},
		{ID: "c", Status: StatusSuccess, Result: "done"},
	}

	var decoded struct {
		Total      int      `json:"total"`
		Successful int      `json:"successful"`
		Failed     int      `json:"failed"`
		Results    []Result `json:"results"`
	}
	if err := json.Unmarshal([]byte(FormatResults(results)), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Total != 3 || decoded.Successful != 2 || decoded.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", decoded.Total, decoded.Successful, decoded.Failed)
	}
	if len(decoded.Results) != 3 || decoded.Results[1].Error != "boom" {
		t.Errorf("results = %+v", decoded.Results)
	}
}
