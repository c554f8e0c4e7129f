//go:build !integration

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	jsonres "kenyaMart/pkg/response"

	"github.com/labstack/echo/v4"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "echo http error", err: echo.NewHTTPError(http.StatusNotFound, "route not found"), wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
		{name: "plain error", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantErr: "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body jsonres.ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantErr || body.Success {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
