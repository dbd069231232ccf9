package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jpashop-api/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondWithMappedErrorForListingErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "pagination", err: fmt.Errorf("parse limit: %w", service.ErrInvalidPagination), status: http.StatusBadRequest, msg: "offset and limit must be non-negative integers"},
		{name: "graph incomplete", err: fmt.Errorf("%w: member 9", service.ErrOrderGraphIncomplete), status: http.StatusInternalServerError, msg: "order data is incomplete"},
		{name: "write side error is not a listing outcome", err: service.ErrOrderNotFound, status: http.StatusInternalServerError, msg: "internal server error"},
		{name: "unknown", err: errors.New("connection reset"), status: http.StatusInternalServerError, msg: "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v3.1/orders", nil)

			respondWithMappedError(c, tt.err, orderQueryErrorRules)

			if w.Code != tt.status {
				t.Fatalf("status want %d got %d", tt.status, w.Code)
			}
			var body struct {
				StatusCode int    `json:"status_code"`
				Msg        string `json:"msg"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body failed: %v", err)
			}
			if body.StatusCode != tt.status || body.Msg != tt.msg {
				t.Fatalf("envelope mismatch: %+v", body)
			}
		})
	}
}
