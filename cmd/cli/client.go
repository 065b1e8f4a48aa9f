package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// endpoint builds the request URL, forwarding the global flags as query
// parameters.
func endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	if confirm {
		query.Set("confirm", "true")
	}
	if verbose {
		query.Set("verbose", "true")
	}
	u := host + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func performRequest(method, path string, query url.Values, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return send(method, endpoint(path, query), reader, os.Stdout)
}

func performGetRequest(path string) error {
	return performRequest(http.MethodGet, path, nil, nil)
}

func send(method, target string, body io.Reader, out io.Writer) error {
	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusPreconditionRequired {
			return fmt.Errorf("%s (re-run with --confirm)", bytes.TrimSpace(msg))
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}
