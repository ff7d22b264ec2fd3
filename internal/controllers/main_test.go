package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// withAccount stands in for the JWT middleware.
func withAccount(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	AccessToken string          `json:"access_token"`
	LikesCount  int64           `json:"likesCount"`
	Liked       bool            `json:"liked"`
	User        json.RawMessage `json:"user"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var e envelope
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	return e
}
