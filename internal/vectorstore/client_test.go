// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return &Client{
		BaseURL:    url,
		APIKey:     "sk-test",
		StoreID:    "vs_123",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestUploadFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if got := r.FormValue("purpose"); got != "assistants" {
			t.Errorf("purpose = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "getting-started-360051014713.md" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "# Getting Started\n" {
			t.Errorf("file content = %q", data)
		}
		fmt.Fprint(w, `{"id": "file-abc", "object": "file"}`)
	}))
	defer ts.Close()

	id, err := newTestClient(ts.URL).UploadFile(context.Background(), "getting-started-360051014713.md", []byte("# Getting Started\n"))
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if id != "file-abc" {
		t.Errorf("id = %q, want file-abc", id)
	}
}

func TestAttach(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vector_stores/vs_123/files" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			FileID     string            `json:"file_id"`
			Attributes map[string]string `json:"attributes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.FileID != "file-abc" {
			t.Errorf("file_id = %q", body.FileID)
		}
		if body.Attributes["title"] != "Getting Started" {
			t.Errorf("attributes.title = %q", body.Attributes["title"])
		}
		if body.Attributes["source"] != "https://support.optisigns.com/hc/en-us/articles/360051014713" {
			t.Errorf("attributes.source = %q", body.Attributes["source"])
		}
		fmt.Fprint(w, `{"id": "file-abc", "object": "vector_store.file"}`)
	}))
	defer ts.Close()

	err := newTestClient(ts.URL).Attach(context.Background(), "file-abc", map[string]string{
		"title":  "Getting Started",
		"source": "https://support.optisigns.com/hc/en-us/articles/360051014713",
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
}

func TestDetach(t *testing.T) {
	var called bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/vector_stores/vs_123/files/file-old" || r.Method != http.MethodDelete {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "file-old", "deleted": true}`)
	}))
	defer ts.Close()

	if err := newTestClient(ts.URL).Detach(context.Background(), "file-old"); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if !called {
		t.Error("delete endpoint not called")
	}
}

func TestCreateStore(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vector_stores" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Name     string            `json:"name"`
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.Name != "Support KB" {
			t.Errorf("name = %q", body.Name)
		}
		fmt.Fprint(w, `{"id": "vs_new"}`)
	}))
	defer ts.Close()

	id, err := newTestClient(ts.URL).CreateStore(context.Background(), "Support KB", map[string]string{"source": "optibot"})
	if err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if id != "vs_new" {
		t.Errorf("id = %q, want vs_new", id)
	}
}

func TestAPIErrorIncludesMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"message": "quota exceeded", "type": "invalid_request_error"}}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).UploadFile(context.Background(), "doc.md", []byte("x"))
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error %q should carry the API message", err)
	}
	if !strings.Contains(err.Error(), "doc.md") {
		t.Errorf("error %q should name the document", err)
	}
}
