package e2etest

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// getJSON performs a GET request and decodes the JSON body
func getJSON(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	resp, err := http.Get(url)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Should be able to read response body")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded), "Response should be valid JSON: %s", string(body))
	return resp, decoded
}
