package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Headers carrying CoinGecko API keys
const (
	HeaderProAPIKey  = "x-cg-pro-api-key"
	HeaderDemoAPIKey = "x-cg-demo-api-key"
)

const defaultUserAgent = "Mozilla/5.0 Crypto-Converter"

// buildURL safely combines a base URL with a path
func buildURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	return baseURL + "/" + trimmedPath
}

// RequestBuilder implements the Builder pattern for upstream API requests
type RequestBuilder struct {
	baseURL    string
	httpMethod string
	apiPath    string
	params     url.Values
	apiKey     string
	keyType    KeyType
	headers    map[string]string
}

// NewRequestBuilder creates a GET request builder for baseURL + apiPath
func NewRequestBuilder(baseURL, apiPath string) *RequestBuilder {
	return &RequestBuilder{
		baseURL:    baseURL,
		apiPath:    apiPath,
		httpMethod: http.MethodGet,
		params:     url.Values{},
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": defaultUserAgent,
		},
	}
}

// With sets a query parameter
func (rb *RequestBuilder) With(key, value string) *RequestBuilder {
	if value != "" {
		rb.params.Set(key, value)
	}
	return rb
}

// WithApiKey sets the API key and its type. Anonymous keys are ignored.
func (rb *RequestBuilder) WithApiKey(key APIKey) *RequestBuilder {
	if key.Key != "" && key.Type != NoKey {
		rb.apiKey = key.Key
		rb.keyType = key.Type
	}
	return rb
}

// WithHeader adds a custom HTTP header
func (rb *RequestBuilder) WithHeader(name, value string) *RequestBuilder {
	rb.headers[name] = value
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() string {
	fullPath := buildURL(rb.baseURL, rb.apiPath)
	if len(rb.params) == 0 {
		return fullPath
	}
	return fullPath + "?" + rb.params.Encode()
}

// Build creates an http.Request bound to ctx
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, rb.httpMethod, rb.BuildURL(), nil)
	if err != nil {
		return nil, err
	}

	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	switch rb.keyType {
	case ProKey:
		req.Header.Set(HeaderProAPIKey, rb.apiKey)
	case DemoKey:
		req.Header.Set(HeaderDemoAPIKey, rb.apiKey)
	}

	return req, nil
}
