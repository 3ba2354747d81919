// Package netx holds small HTTP helpers shared by the command-line tools.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// PostJSON posts the given JSON payload to url and returns the response body.
// Any status outside 2xx is an error carrying the status and body.
func PostJSON(url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("request failed: %s; body: %s", resp.Status, string(body))
	}
	return body, nil
}
