package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/planmyjob/internal/export"
	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/keywords"
	"github.com/jonathan/planmyjob/internal/letter"
	"github.com/jonathan/planmyjob/internal/server/middleware"
	"github.com/jonathan/planmyjob/internal/server/ratelimit"
	"github.com/jonathan/planmyjob/internal/types"
)

const boardOffer = "Développeur React H/F\n" +
	"Acme Corp\n" +
	"12 rue de Paris 75001 Paris\n" +
	"CDI\n" +
	"Télétravail possible\n" +
	"5 ans d'expérience minimum\n" +
	"Salaire : 45 000 € par an\n" +
	"Postuler sur https://jobs.example.com/acme/123"

// newTestServer builds a server with rate limiting off and a browser hook
// that always fails, so URL tests stay on plain HTTP.
func newTestServer(t *testing.T, mutate ...func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		RateLimit: &ratelimit.Config{Enabled: false},
		URL: ingestion.URLOptions{
			UseBrowser: true,
			Browser: func(context.Context, string, bool) (string, error) {
				return "", errors.New("no browser in tests")
			},
		},
	}
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(Config{Port: 70000, RateLimit: &ratelimit.Config{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestKeywordsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/keywords", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string][]string](t, w)
	assert.Equal(t, keywords.Options(), resp["keywords"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, doRequest(t, s, http.MethodGet, "/offers", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, doRequest(t, s, http.MethodGet, "/letters", "").Code)
}

func TestAnalyze_Text(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{Text: boardOffer, Trace: true}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[AnalyzeResponse](t, w)
	assert.Equal(t, "Développeur React H/F", resp.Offer.Title)
	assert.Equal(t, "Acme Corp", resp.Offer.Company)
	assert.Equal(t, types.ContractCDI, resp.Offer.ContractType)
	assert.Equal(t, "45 000", resp.Offer.SalaryRange)
	assert.Equal(t, "structural", resp.Trace["title"])
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, ingestion.SourceAPI, resp.Metadata.Source)
	assert.Len(t, resp.Metadata.Hash, 64)
}

func TestAnalyze_TraceOmittedByDefault(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{Text: boardOffer}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]json.RawMessage](t, w)
	assert.Contains(t, resp, "offer")
	assert.Contains(t, resp, "metadata")
	assert.NotContains(t, resp, "trace")
}

func TestAnalyze_RequiresExactlyOneSource(t *testing.T) {
	tests := []struct {
		name string
		req  AnalyzeRequest
	}{
		{"no source", AnalyzeRequest{}},
		{"blank text", AnalyzeRequest{Text: "   \n "}},
		{"text and html", AnalyzeRequest{Text: boardOffer, HTML: "<p>offre</p>"}},
		{"text and url", AnalyzeRequest{Text: boardOffer, URL: "https://example.com/offre"}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, tt.req))

			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody[errorBody](t, w)
			require.Len(t, body.Fields, 1)
			assert.Equal(t, "source", body.Fields[0].Field)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestAnalyze_HTML(t *testing.T) {
	s := newTestServer(t)
	html := `<html><head><title>Offre Go</title></head><body>
<nav>Accueil</nav>
<main><h1>Développeur Go H/F</h1><p>Acme Corp</p><ul><li>CDI</li><li>Télétravail complet</li></ul></main>
<footer>Mentions légales</footer>
</body></html>`

	w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{HTML: html}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[AnalyzeResponse](t, w)
	assert.Equal(t, "Développeur Go H/F", resp.Offer.Title)
	assert.Equal(t, types.ContractCDI, resp.Offer.ContractType)
	assert.Equal(t, ingestion.SourceHTML, resp.Metadata.Source)
	assert.Equal(t, "Offre Go", resp.Metadata.PageTitle)
}

func TestAnalyze_HTMLWithoutText(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{HTML: "<html><body><script>x()</script></body></html>"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalyze_URL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Offre</title></head><body><div class="job-description">` +
			`<h1>Développeur Go H/F</h1><p>Acme Corp</p><p>CDI à Lyon</p>` +
			`</div><a href="/offres/7/postuler">Postuler</a></body></html>`))
	}))
	t.Cleanup(page.Close)
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{URL: page.URL + "/offres/7"}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[AnalyzeResponse](t, w)
	assert.Equal(t, "Développeur Go H/F", resp.Offer.Title)
	assert.Equal(t, ingestion.SourceURL, resp.Metadata.Source)
	assert.Equal(t, page.URL+"/offres/7", resp.Metadata.URL)
	assert.Equal(t, []string{page.URL + "/offres/7/postuler"}, resp.Metadata.ApplyLinks)
}

func TestAnalyze_URLErrors(t *testing.T) {
	missing := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(missing.Close)

	tests := []struct {
		name   string
		url    string
		status int
	}{
		{"not http", "ftp://example.com/offre", http.StatusBadRequest},
		{"not a URL", "offre", http.StatusBadRequest},
		{"upstream 404", missing.URL + "/offre", http.StatusBadGateway},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/offers/analyze", mustJSON(t, AnalyzeRequest{URL: tt.url}))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAnalyze_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated JSON", `{"text":`},
		{"unknown field", `{"text":"Développeur Go","lang":"fr"}`},
		{"wrong type", `{"text":42}`},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/offers/analyze", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[errorBody](t, w).Error, "invalid request body")
		})
	}
}

func TestDraft(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/draft", mustJSON(t, DraftRequest{Text: boardOffer}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft := decodeBody[types.ApplicationDraft](t, w)
	assert.Equal(t, "Acme Corp", draft.Company)
	assert.Equal(t, "Développeur React H/F", draft.Position)
	assert.Equal(t, "https://jobs.example.com/acme/123", draft.OfferURL)
	assert.Equal(t, "2026-03-01", draft.ApplicationDate)
	assert.Equal(t, "other", draft.Source)
	assert.Equal(t, 3, draft.PersonalRating)
	assert.Equal(t, "react", draft.Skills)
}

func TestDraft_MissingText(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/offers/draft", `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[errorBody](t, w)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "Text", body.Fields[0].Field)
	assert.Equal(t, "champ obligatoire", body.Fields[0].Message)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	req := ExportRequest{Offers: []ExportItem{
		{Source: "https://jobs.example.com/acme/123", Text: boardOffer},
		{Text: "Data Engineer\nGlobex\nStage de 6 mois"},
	}}

	w := doRequest(t, s, http.MethodPost, "/offers/export", mustJSON(t, req))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "offres.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.OffersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "https://jobs.example.com/acme/123", rows[1][0])
	assert.Equal(t, "Développeur React H/F", rows[1][1])
	assert.Equal(t, "offre 2", rows[2][0])
}

func TestExport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no offers", `{"offers":[]}`},
		{"missing offers", `{}`},
		{"offer without text", `{"offers":[{"source":"a"}]}`},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/offers/export", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func validLetterInput() types.LetterInput {
	return types.LetterInput{
		Company:     "Acme Corp",
		Position:    "Développeur Go",
		Skills:      []string{"Go", "Docker", "PostgreSQL"},
		Achievement: "j'ai migré une plateforme de paiement vers Go",
		Motivation:  "votre produit sert des milliers d'artisans",
		OfferText:   boardOffer,
	}
}

func TestLetter(t *testing.T) {
	s := newTestServer(t)
	in := validLetterInput()

	w := doRequest(t, s, http.MethodPost, "/letters", mustJSON(t, in))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[types.LetterResult](t, w)
	want := letter.Compose(in)
	assert.Equal(t, want.Letter, got.Letter)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, want.Tone, got.Tone)
	assert.Contains(t, got.Letter, "Madame, Monsieur,")
	assert.GreaterOrEqual(t, got.Score, 12)
	assert.LessOrEqual(t, got.Score, 100)
}

func TestLetter_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.LetterInput)
		field  string
	}{
		{"missing company", func(in *types.LetterInput) { in.Company = "" }, "Company"},
		{"blank position", func(in *types.LetterInput) { in.Position = "  " }, "Position"},
		{"no skills", func(in *types.LetterInput) { in.Skills = nil }, "Skills"},
		{"only blank skills", func(in *types.LetterInput) { in.Skills = []string{" ", ""} }, "Skills"},
		{"unknown tone", func(in *types.LetterInput) { in.Tone = "formal" }, "Tone"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validLetterInput()
			tt.mutate(&in)

			w := doRequest(t, s, http.MethodPost, "/letters", mustJSON(t, in))

			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody[errorBody](t, w)
			require.NotEmpty(t, body.Fields)
			assert.Equal(t, tt.field, body.Fields[0].Field)
		})
	}
}

func TestLetter_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)
	in := validLetterInput()
	in.Motivation = strings.Repeat("a", maxBodyBytes)

	w := doRequest(t, s, http.MethodPost, "/letters", mustJSON(t, in))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestScore(t *testing.T) {
	s := newTestServer(t)
	years := 6.0
	req := ScoreRequest{Skills: []string{"React", "Go"}, OfferText: boardOffer, YearsExperience: &years}

	w := doRequest(t, s, http.MethodPost, "/letters/score", mustJSON(t, req))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[types.ScoreResult](t, w)
	want := letter.Score(types.LetterInput{Skills: req.Skills, OfferText: req.OfferText, YearsExperience: &years})
	assert.Equal(t, want, got)
}

func TestScore_RequiresOffer(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/letters/score", `{"skills":["Go"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.CORSOrigin = "https://app.example.fr" })

	t.Run("preflight", func(t *testing.T) {
		w := doRequest(t, s, http.MethodOptions, "/letters", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.fr", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Empty(t, w.Body.String())
	})

	t.Run("simple request", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/health", "")
		assert.Equal(t, "https://app.example.fr", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_DefaultsToWildcard(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDEchoedInErrors(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/offers/draft", strings.NewReader(`{}`))
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "req-42", decodeBody[errorBody](t, w).RequestID)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimit = &ratelimit.Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
			Whitelist:     map[string]bool{},
			Blacklist:     map[string]bool{},
			EndpointConfigs: []ratelimit.EndpointConfig{
				{Path: "/letters", Method: http.MethodPost, Limit: 2, Window: time.Minute, Burst: 2},
			},
		}
	})

	for range 2 {
		w := doRequest(t, s, http.MethodPost, "/letters", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := doRequest(t, s, http.MethodPost, "/letters", `{}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	resp := decodeBody[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// Other routes keep their own buckets.
	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(t, s, http.MethodOptions, "/letters", "").Code)
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
