package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/feereceipt/internal/config"
	"github.com/mmynk/feereceipt/internal/receipt"
)

func TestSchoolFrom(t *testing.T) {
	got := schoolFrom(config.SchoolConfig{Name: "Green Valley School"})
	want := receipt.DefaultSchool()
	want.Name = "Green Valley School"
	if got != want {
		t.Errorf("schoolFrom() = %+v, want %+v", got, want)
	}
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("index"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("app"), 0644); err != nil {
		t.Fatal(err)
	}
	h := staticHandler(dir)

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{path: "/", wantCode: http.StatusOK, wantBody: "index"},
		{path: "/app.js", wantCode: http.StatusOK, wantBody: "app"},
		{path: "/receipts", wantCode: http.StatusOK, wantBody: "index"},
		{path: "/feereceipt.v1.Unknown/Call", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.wantCode)
		}
		if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
			t.Errorf("%s: body = %q, want %q", tt.path, rec.Body.String(), tt.wantBody)
		}
	}
}
