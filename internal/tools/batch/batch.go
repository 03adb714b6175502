// Package batch handles tool parameters that accept one or many IDs
// and applies an operation to each, reporting per-item outcomes so a
// partial failure never hides the items that succeeded.
package batch

import (
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Item statuses in a batch report.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one item in a batch.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// report aggregates a batch for the JSON rendering.
type report struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// maxConcurrent bounds parallel Google API calls per batch so a large
// ID list does not trip per-user rate limits.
const maxConcurrent = 4

// ParseStringOrArray accepts a tool argument given either as a single
// string or as an array of strings and returns the normalized list.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", paramName)
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		ids := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if s == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			ids = append(ids, s)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// ProcessBatch applies fn to every ID with bounded concurrency and
// returns one Result per ID in input order. Item errors are captured
// in the Result, never propagated; every item runs regardless of how
// many of the others fail.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, len(ids))

	var g errgroup.Group
	g.SetLimit(maxConcurrent)
	for i, id := range ids {
		g.Go(func() error {
			res, err := fn(id)
			if err != nil {
				results[i] = Result{ID: id, Status: StatusError, Error: err.Error()}
			} else {
				results[i] = Result{ID: id, Status: StatusSuccess, Result: res}
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return results
}

// FormatResults renders a batch as indented JSON with success and
// failure counts.
func FormatResults(results []Result) string {
	r := report{
		Total:   len(results),
		Results: results,
	}
	for _, item := range results {
		if item.Status == StatusSuccess {
			r.Successful++
		} else {
			r.Failed++
		}
	}

	out, _ := json.MarshalIndent(r, "", "  ")
	return string(out)
}
