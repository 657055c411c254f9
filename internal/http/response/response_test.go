package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	if p.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", p.TotalPage)
	}
	if NewPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should give zero pages")
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeNotFound, "missing")

	var resp struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != CodeNotFound || resp.Msg != "missing" {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if resp.Data["request_id"] != "req-1" {
		t.Fatalf("request id not attached: %+v", resp.Data)
	}
}

func TestSuccessOmitsEmptyMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, gin.H{"ok": true})
	var raw map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := raw["messages"]; ok {
		t.Fatalf("messages should be omitted when empty")
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Success(c, nil, "done")
	var withMsg Response
	if err := json.Unmarshal(w.Body.Bytes(), &withMsg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(withMsg.Messages) != 1 || withMsg.Messages[0] != "done" {
		t.Fatalf("messages want [done] got %v", withMsg.Messages)
	}
}
