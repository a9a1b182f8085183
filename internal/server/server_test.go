// SPDX-License-Identifier: EPL-2.0

package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ik5/audmark/audio"
	"github.com/ik5/audmark/formats/wav"
	"github.com/ik5/audmark/internal/config"
)

func onesWatermark() *audio.Signal {
	return &audio.Signal{SampleRate: 8000, Data: [][]float32{{1, 1, 1, 1}}}
}

func newTestServer(t *testing.T, serve config.Serve, logs io.Writer) *Server {
	t.Helper()

	if logs == nil {
		logs = io.Discard
	}

	s, err := New(config.DefaultMix(), serve, onesWatermark(), slog.New(slog.NewTextHandler(logs, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return s
}

func encodeWAV(t *testing.T, sig *audio.Signal) []byte {
	t.Helper()

	data, err := wav.EncodeSignal(sig)
	if err != nil {
		t.Fatalf("EncodeSignal() error = %v", err)
	}

	return data
}

// uploadBody builds a multipart form with one file under field.
func uploadBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	return body, mw.FormDataContentType()
}

func post(t *testing.T, s *Server, field, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, ctype := uploadBody(t, field, name, content)
	req := httptest.NewRequest(http.MethodPost, "/watermark", body)
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	if !strings.Contains(rec.Body.String(), `name="audio"`) {
		t.Error("index page has no audio upload field")
	}
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = (%d, %q), want (200, \"ok\")", rec.Code, rec.Body.String())
	}
}

func TestServer_Routing(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/watermark", http.StatusMethodNotAllowed},
		{http.MethodPut, "/watermark", http.StatusMethodNotAllowed},
		{http.MethodPost, "/healthz", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

		if rec.Code != tt.want {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestServer_Watermark(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	upload := encodeWAV(t, &audio.Signal{SampleRate: 44100, Data: [][]float32{{0.2, -0.3}}})
	rec := post(t, s, FieldName, "voice.wav", upload)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); ct != wav.MIMEType {
		t.Errorf("Content-Type = %q, want %q", ct, wav.MIMEType)
	}

	want := `attachment; filename="watermarked_audio.wav"`
	if cd := rec.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}

	body := rec.Body.Bytes()
	if len(body) != wav.HeaderSize+4 {
		t.Fatalf("body length = %d, want %d", len(body), wav.HeaderSize+4)
	}

	if rate := binary.LittleEndian.Uint32(body[24:]); rate != 44100 {
		t.Errorf("sample rate = %d, want 44100", rate)
	}

	got := []int16{
		int16(binary.LittleEndian.Uint16(body[44:])),
		int16(binary.LittleEndian.Uint16(body[46:])),
	}
	// the upload itself was quantized to [6553 -9830]
	if got[0] != 9829 || got[1] != -6553 {
		t.Errorf("samples = %v, want [9829 -6553]", got)
	}
}

func TestServer_Watermark_EmptyUpload(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	upload := encodeWAV(t, &audio.Signal{SampleRate: 8000, Data: [][]float32{{}, {}}})
	rec := post(t, s, FieldName, "silence.wav", upload)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	if rec.Body.Len() != wav.HeaderSize {
		t.Errorf("body length = %d, want %d", rec.Body.Len(), wav.HeaderSize)
	}
}

func TestServer_Watermark_BadRequest(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)
	valid := encodeWAV(t, &audio.Signal{SampleRate: 8000, Data: [][]float32{{0.1}}})

	tests := []struct {
		name    string
		field   string
		file    string
		content []byte
	}{
		{"MissingField", "file", "voice.wav", valid},
		{"UnknownExtension", FieldName, "voice.txt", valid},
		{"NoExtension", FieldName, "voice", valid},
		{"CorruptWAV", FieldName, "voice.wav", []byte("definitely not audio")},
		{"CorruptMP3", FieldName, "voice.mp3", []byte("definitely not audio")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := post(t, s, tt.field, tt.file, tt.content)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}

			if got := strings.TrimSpace(rec.Body.String()); got != msgFailed {
				t.Errorf("body = %q, want %q", got, msgFailed)
			}
		})
	}
}

func TestServer_Watermark_NotMultipart(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.DefaultServe(), nil)

	req := httptest.NewRequest(http.MethodPost, "/watermark", strings.NewReader("raw"))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServer_Watermark_TooLarge(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.Serve{Listen: ":0", MaxUpload: 1024}, nil)
	upload := encodeWAV(t, audio.NewSignal(8000, 1, 4000))

	t.Run("ContentLength", func(t *testing.T) {
		t.Parallel()

		if rec := post(t, s, FieldName, "big.wav", upload); rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("Streamed", func(t *testing.T) {
		t.Parallel()

		body, ctype := uploadBody(t, FieldName, "big.wav", upload)

		// hide the length so only the body limit can catch it
		req := httptest.NewRequest(http.MethodPost, "/watermark", io.MultiReader(body))
		req.Header.Set("Content-Type", ctype)
		req.ContentLength = -1

		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})
}

func TestServer_Logging(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := newTestServer(t, config.DefaultServe(), &logs)

	post(t, s, FieldName, "voice.txt", []byte("x"))

	out := logs.String()
	for _, want := range []string{"level=ERROR", "watermark request failed", "msg=request", "status=400", "path=/watermark"} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q:\n%s", want, out)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	badMix := config.DefaultMix()
	badMix.BufferSize = 0

	badServe := config.DefaultServe()
	badServe.MaxUpload = 0

	tests := []struct {
		name      string
		mix       config.Mix
		serve     config.Serve
		watermark *audio.Signal
		want      error
	}{
		{"Mix", badMix, config.DefaultServe(), onesWatermark(), config.ErrInvalidConfig},
		{"Serve", config.DefaultMix(), badServe, onesWatermark(), config.ErrInvalidConfig},
		{"NilWatermark", config.DefaultMix(), config.DefaultServe(), nil, audio.ErrInvalidInput},
		{"NoChannels", config.DefaultMix(), config.DefaultServe(), &audio.Signal{SampleRate: 8000}, audio.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.mix, tt.serve, tt.watermark, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestServer_ListenAndServe_Shutdown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, config.Serve{Listen: "127.0.0.1:0", MaxUpload: 1024}, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := s.ListenAndServe(ctx); err != nil {
		t.Errorf("ListenAndServe() error = %v, want nil after cancel", err)
	}
}
