package api

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount accepted for a conversion
var MaxAmount = decimal.New(1, 12)

var idPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// setCacheStatusHeader sets the Cache-Status header based on cache status
func (s *Server) setCacheStatusHeader(w http.ResponseWriter, cacheStatus string) {
	if cacheStatus != "" {
		w.Header().Set("Cache-Status", cacheStatus)
	}
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers
func (s *Server) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	s.sendJSONResponseWithStatus(w, http.StatusOK, data)
}

func (s *Server) sendJSONResponseWithStatus(w http.ResponseWriter, status int, data interface{}) {
	// Marshal the data to calculate content length and ETag
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	// Calculate ETag (MD5 hash of the response)
	hash := md5.Sum(responseBytes)
	etag := hex.EncodeToString(hash[:])

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.Header().Set("ETag", "\""+etag+"\"")
	w.WriteHeader(status)

	if _, err := w.Write(responseBytes); err != nil {
		log.Printf("Error writing response: %v", err)
		return
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSONResponseWithStatus(w, status, errorResponse{Success: false, Error: message})
}

func getParamLowercase(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	value := r.URL.Query().Get(key)
	if value != "" {
		return strings.ToLower(value)
	}
	return ""
}

func splitParamLowercase(param string) []string {
	if param == "" {
		return []string{}
	}

	parts := strings.Split(param, ",")
	result := []string{}
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// sanitizeID trims and lowercases value and accepts only [a-z0-9-]
func sanitizeID(value string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(value))
	if id == "" || !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// sanitizeAmount accepts decimal amounts in (0, MaxAmount]
func sanitizeAmount(value string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, false
	}
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, false
	}
	return amount, true
}

// decimalNumber renders d as a bare JSON number
func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
