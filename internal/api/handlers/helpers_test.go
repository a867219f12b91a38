package handlers

import (
	"encoding/json"
	"net/http/httptest"
)

func decodeBody(recorder *httptest.ResponseRecorder, target any) error {
	return json.NewDecoder(recorder.Body).Decode(target)
}
