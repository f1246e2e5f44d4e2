package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fakeimagedata")...)

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"file view link", "https://drive.google.com/file/d/1AbC-dEf_123/view?usp=sharing", "1AbC-dEf_123"},
		{"open link", "https://drive.google.com/open?id=1AbC-dEf_123", "1AbC-dEf_123"},
		{"uc link", "https://drive.google.com/uc?export=download&id=1AbC-dEf_123", "1AbC-dEf_123"},
		{"docs uc link", "https://docs.google.com/uc?id=1AbC-dEf_123", "1AbC-dEf_123"},
		{"no id", "https://drive.google.com/drive/folders", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFileID(tt.url); got != tt.want {
				t.Errorf("ExtractFileID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsDriveURL(t *testing.T) {
	if !IsDriveURL("https://drive.google.com/file/d/abc/view") {
		t.Error("drive link not recognized")
	}
	if IsDriveURL("https://cdn.example.com/img.jpg") {
		t.Error("plain cdn link misclassified")
	}
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, "image/jpeg"},
		{"png", pngBytes, "image/png"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"unknown defaults to jpeg", []byte("plain text"), "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIME(tt.data); got != tt.want {
				t.Errorf("DetectMIME = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDownloadPlainURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer srv.Close()

	d := NewDownloader(nil)
	img, err := d.Download(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	if len(img.Data) != len(pngBytes) {
		t.Errorf("got %d bytes, want %d", len(img.Data), len(pngBytes))
	}
}

func TestDownloadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/empty":
			// 200 with no body.
		}
	}))
	defer srv.Close()

	d := NewDownloader(nil)

	if _, err := d.Download(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error on 404")
	}
	if _, err := d.Download(context.Background(), srv.URL+"/empty"); err == nil {
		t.Error("expected error on empty body")
	}
	if _, err := d.Download(context.Background(), "https://drive.google.com/drive/folders"); err == nil {
		t.Error("expected error on drive url without file id")
	}
}

type executorFunc func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)

func (f executorFunc) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return f(ctx, query, variables)
}

func stagedResponse(uploadURL string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"stagedUploadsCreate": {
			"stagedTargets": [{
				"url": %q,
				"resourceUrl": "https://cdn.shopify.com/staged/img.png",
				"parameters": [
					{"name": "key", "value": "staged/img.png"},
					{"name": "policy", "value": "signed"}
				]
			}],
			"userErrors": []
		}
	}`, uploadURL))
}

func TestUploadHappyPath(t *testing.T) {
	received := struct {
		key      string
		filename string
		body     []byte
	}{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		received.key = r.FormValue("key")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		received.filename = header.Filename
		buf := make([]byte, header.Size)
		file.Read(buf)
		received.body = buf
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	exec := executorFunc(func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
		return stagedResponse(srv.URL), nil
	})

	u := NewCDNUploader(exec, nil)
	url, err := u.Upload(context.Background(), "img.png", pngBytes)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.shopify.com/staged/img.png" {
		t.Errorf("resource url = %q", url)
	}
	if received.key != "staged/img.png" {
		t.Errorf("staged parameter not forwarded: key = %q", received.key)
	}
	if received.filename != "img.png" {
		t.Errorf("filename = %q", received.filename)
	}
	if string(received.body) != string(pngBytes) {
		t.Error("uploaded bytes do not match source image")
	}
}

func TestUploadSurfacesUserErrors(t *testing.T) {
	exec := executorFunc(func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{
			"stagedUploadsCreate": {
				"stagedTargets": [],
				"userErrors": [{"message": "file too large"}]
			}
		}`), nil
	})

	u := NewCDNUploader(exec, nil)
	if _, err := u.Upload(context.Background(), "img.png", pngBytes); err == nil {
		t.Fatal("expected user error to surface")
	}
}

func TestUploadNoTargets(t *testing.T) {
	exec := executorFunc(func(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
		return json.RawMessage(`{"stagedUploadsCreate": {"stagedTargets": [], "userErrors": []}}`), nil
	})

	u := NewCDNUploader(exec, nil)
	if _, err := u.Upload(context.Background(), "img.png", pngBytes); err == nil {
		t.Fatal("expected error when no staged targets returned")
	}
}
