package controllers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func discardLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestListPaginationRejectsBadLimit(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if _, err := listPagination(req); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}

	req, _ = http.NewRequest(http.MethodGet, "/?limit=25&cursor=abc", nil)
	params, err := listPagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != 25 || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", params)
	}
}
