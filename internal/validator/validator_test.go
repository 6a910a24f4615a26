package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type payload struct {
	Name   string `json:"name" binding:"required"`
	Credit *int   `json:"credit" binding:"omitempty,min=0"`
}

type query struct {
	Limit *int `form:"limit" json:"limit" binding:"required"`
}

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func TestBindTranslatesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"credit": -1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	fields := Bind(c, &p)
	if fields == nil {
		t.Fatal("expected field errors")
	}
	if _, ok := fields["name"]; !ok {
		t.Fatalf("missing name error: %v", fields)
	}
	if _, ok := fields["credit"]; !ok {
		t.Fatalf("missing credit error: %v", fields)
	}
}

func TestBindSyntaxError(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")

	var p payload
	if fields := Bind(c, &p); fields["detail"] == "" {
		t.Fatalf("expected detail, got %v", fields)
	}
}

func TestBindQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	c.Request = httptest.NewRequest(http.MethodPost, "/?limit=0", nil)
	var q query
	if fields := BindQuery(c, &q); fields != nil {
		t.Fatalf("zero is a valid limit: %v", fields)
	}
	if q.Limit == nil || *q.Limit != 0 {
		t.Fatalf("limit not bound: %v", q.Limit)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	q = query{}
	if fields := BindQuery(c, &q); fields["limit"] == "" {
		t.Fatalf("expected required error, got %v", fields)
	}
}
