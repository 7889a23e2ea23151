package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// errorMessage extracts one human-readable message from an error response.
// JSON bodies prefer their detail field; anything else falls back to the raw
// text and finally to UnknownErrorMessage.
func errorMessage(resp *http.Response) string {
	body, readErr := io.ReadAll(resp.Body)

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var data any
		if readErr != nil || json.Unmarshal(body, &data) != nil {
			return fmt.Sprintf("An unexpected JSON error occurred (Status: %d).", resp.StatusCode)
		}
		if msg := detailMessage(data); msg != "" {
			return msg
		}
		return UnknownErrorMessage
	}

	if readErr != nil {
		return fmt.Sprintf("An unexpected error occurred (Status: %d).", resp.StatusCode)
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return UnknownErrorMessage
}

func detailMessage(data any) string {
	if data == nil {
		return ""
	}

	if obj, ok := data.(map[string]any); ok {
		switch detail := obj["detail"].(type) {
		case nil:
		case string:
			if detail != "" {
				return detail
			}
		default:
			if encoded, err := json.Marshal(detail); err == nil {
				return string(encoded)
			}
		}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(encoded)
}
