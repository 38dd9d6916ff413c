package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/mus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testModule returns a one-channel MOD with a single note and a pattern break
func testModule(t *testing.T, magic string) []byte {
	t.Helper()
	h := &mod.Header{NumOrders: 1}
	copy(h.Name[:], "api song")
	copy(h.Magic[:], magic)
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	pattern := make([]byte, mod.PatternSize(max(h.NumChannels(), 1)))
	note := mod.Cell{Period: 428, Sample: 1, Effect: 0xC, Param: 0x20}.Encode()
	brk := mod.Cell{Effect: 0xD}.Encode()
	copy(pattern[0:], note[:])
	copy(pattern[4*max(h.NumChannels(), 1):], brk[:])
	return append(data, pattern...)
}

func upload(t *testing.T, router http.Handler, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := NewRouter()
	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
			}
		})
	}
}

func TestConvertModToMus(t *testing.T) {
	rec := upload(t, NewRouter(), "/api/v1/convert/mod2mus", "my song.mod", testModule(t, "1CHN"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=my-song.mus" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("X-Mod2mus-Music-Size"); got != "4" {
		t.Errorf("X-Mod2mus-Music-Size = %q, want 4", got)
	}

	f, err := mus.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("mus.Parse() error = %v", err)
	}
	if !bytes.Equal(f.Music, []byte{13, 1, 0x00, 0x20}) {
		t.Errorf("music = % X, want 0D 01 00 20", f.Music)
	}
}

func TestConvertErrors(t *testing.T) {
	router := NewRouter()

	rec := upload(t, router, "/api/v1/convert/mod2mus", "bad.mod", testModule(t, "XXXX"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad signature status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/mod2mus", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestConvertModToMIDI(t *testing.T) {
	rec := upload(t, NewRouter(), "/api/v1/convert/mod2mid", "tune.mod", testModule(t, "1CHN"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("MThd")) {
		t.Errorf("response is not a MIDI file: % X", rec.Body.Bytes()[:min(8, rec.Body.Len())])
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/midi" {
		t.Errorf("Content-Type = %q, want audio/midi", got)
	}
}

func TestInspect(t *testing.T) {
	rec := upload(t, NewRouter(), "/api/v1/inspect", "song.mod", testModule(t, "1CHN"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var info struct {
		Format   string `json:"format"`
		Title    string `json:"title"`
		Channels int    `json:"channels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info.Format != "mod" || info.Title != "api song" || info.Channels != 1 {
		t.Errorf("inspect = %+v", info)
	}

	rec = upload(t, NewRouter(), "/api/v1/inspect", "notes.txt", []byte("not a module"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown data status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestUploadTooLarge(t *testing.T) {
	data := testModule(t, "M.K.")

	saved := maxUploadSize
	maxUploadSize = int64(len(data) - 1)
	defer func() { maxUploadSize = saved }()

	rec := upload(t, NewRouter(), "/api/v1/convert/mod2mus", "big.mod", data)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}

	maxUploadSize = int64(len(data))
	rec = upload(t, NewRouter(), "/api/v1/convert/mod2mus", "fits.mod", data)
	if rec.Code != http.StatusOK {
		t.Errorf("status at limit = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		upload   string
		ext      string
		expected string
	}{
		{"song.mod", ".mus", "song.mus"},
		{"../../etc/passwd.mod", ".mus", "passwd.mus"},
		{".mod", ".mid", "converted.mid"},
	}

	for _, tt := range tests {
		t.Run(tt.upload, func(t *testing.T) {
			if got := outputName(tt.upload, tt.ext); got != tt.expected {
				t.Errorf("outputName(%q, %q) = %q, want %q", tt.upload, tt.ext, got, tt.expected)
			}
		})
	}
}
