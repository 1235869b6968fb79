package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/heimdex/storyreel/internal/history"
	"github.com/heimdex/storyreel/internal/story"
)

const nadiaBody = `{"genre":"mystery","setting":"a fog-locked harbor town","protagonist":"Nadia","vibe":"uneasy curiosity"}`

func TestExportStory_Text(t *testing.T) {
	cfg, rec := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export?format=txt", nadiaBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="storyreel_mystery_nadia.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rr.Body.String()
	if !strings.HasPrefix(body, "Mystery story: Nadia\n") {
		t.Errorf("export header = %q", body[:40])
	}
	res := story.Generate(story.Request{Genre: "mystery", Setting: "a fog-locked harbor town", Protagonist: "Nadia", Vibe: "uneasy curiosity"})
	if !strings.Contains(body, res.Story) {
		t.Error("text export must contain the story")
	}

	if len(rec.records) != 1 || rec.records[0].Format != history.FormatText {
		t.Errorf("recorded = %+v, want one txt generation", rec.records)
	}
}

func TestExportStory_EDL(t *testing.T) {
	cfg, rec := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export?format=EDL", nadiaBody)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.HasSuffix(cd, `.edl"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rr.Body.String()
	if !strings.HasPrefix(body, "TITLE: Mystery story: Nadia\n") {
		t.Errorf("edl header = %q", body[:40])
	}
	if got := strings.Count(body, "AX       V     C"); got != story.SceneCount {
		t.Errorf("edl events = %d, want %d", got, story.SceneCount)
	}
	if rec.records[0].Format != history.FormatEDL {
		t.Errorf("recorded format = %q, want edl", rec.records[0].Format)
	}
}

func TestExportStory_DefaultFormatIsText(t *testing.T) {
	cfg, _ := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export", `{}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="storyreel_adventure_an-unlikely-hero.txt"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestExportStory_UnsupportedFormat(t *testing.T) {
	cfg, rec := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export?format=pdf", nadiaBody)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := decodeJSONBody(t, rr)
	if body["code"] != "UNSUPPORTED_FORMAT" {
		t.Errorf("code = %v, want UNSUPPORTED_FORMAT", body["code"])
	}
	if len(rec.records) != 0 {
		t.Error("rejected exports must not be recorded")
	}
}

func TestExportStory_PathTraversalInName(t *testing.T) {
	cfg, _ := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export?format=txt", `{"protagonist":"../../etc/passwd"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	cd := rr.Header().Get("Content-Disposition")
	if strings.Contains(cd, "/") {
		t.Errorf("Content-Disposition leaks a path separator: %q", cd)
	}
}

func TestExportStory_RejectsLongField(t *testing.T) {
	cfg, _ := testConfig()
	rr := postJSON(t, NewRouter(cfg), "/api/story/export?format=edl", `{"vibe":"`+strings.Repeat("x", 200)+`"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
