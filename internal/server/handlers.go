package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/planmyjob/internal/export"
	"github.com/jonathan/planmyjob/internal/fetch"
	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/keywords"
	"github.com/jonathan/planmyjob/internal/letter"
	"github.com/jonathan/planmyjob/internal/offer"
	"github.com/jonathan/planmyjob/internal/types"
)

// Body limits. Analyze accepts whole pasted pages.
const (
	maxBodyBytes        = 1 << 20
	maxAnalyzeBodyBytes = ingestion.MaxInputSize + 1<<16
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var requestValidator = validator.New()

// AnalyzeRequest is the body of POST /offers/analyze. Exactly one of Text,
// HTML or URL must be set.
type AnalyzeRequest struct {
	Text  string `json:"text,omitempty"`
	HTML  string `json:"html,omitempty"`
	URL   string `json:"url,omitempty" validate:"omitempty,http_url"`
	Trace bool   `json:"trace,omitempty"`
}

// AnalyzeResponse is the analyzed offer with where it came from.
type AnalyzeResponse struct {
	Offer    types.ExtractedOffer `json:"offer"`
	Trace    offer.Trace          `json:"trace,omitempty"`
	Metadata *ingestion.Metadata  `json:"metadata"`
}

// DraftRequest is the body of POST /offers/draft.
type DraftRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExportItem is one offer to analyze and export.
type ExportItem struct {
	Source string `json:"source,omitempty"`
	Text   string `json:"text" validate:"required"`
}

// ExportRequest is the body of POST /offers/export.
type ExportRequest struct {
	Offers []ExportItem `json:"offers" validate:"required,min=1,max=100,dive"`
}

// ScoreRequest is the body of POST /letters/score.
type ScoreRequest struct {
	Skills          []string `json:"skills" validate:"required,min=1"`
	OfferText       string   `json:"offer_text" validate:"required"`
	YearsExperience *float64 `json:"years_experience,omitempty" validate:"omitempty,gte=0,lte=60"`
}

// decodeJSON reads a single JSON object of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &ErrRequestTooLarge{Limit: maxErr.Limit}
		}
		return &ErrBadRequest{Message: "invalid request body", Cause: err}
	}
	return nil
}

// decodeAndValidate decodes the body and runs the struct's validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	if err := decodeJSON(w, r, limit, dst); err != nil {
		return err
	}
	return requestValidator.Struct(dst)
}

// handleKeywords lists the technologies the analyzer recognizes.
func (s *Server) handleKeywords(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string][]string{"keywords": keywords.Options()})
}

// handleAnalyze extracts a structured offer from text, HTML or a URL.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeAndValidate(w, r, maxAnalyzeBodyBytes, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	text, meta, err := s.analyzeSource(r, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	extracted, trace := offer.Explain(text)
	resp := AnalyzeResponse{Offer: extracted, Metadata: meta}
	if req.Trace {
		resp.Trace = trace
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// analyzeSource resolves the single source of an analyze request to text.
func (s *Server) analyzeSource(r *http.Request, req AnalyzeRequest) (string, *ingestion.Metadata, error) {
	sources := 0
	for _, v := range []string{req.Text, req.HTML, req.URL} {
		if strings.TrimSpace(v) != "" {
			sources++
		}
	}
	if sources != 1 {
		return "", nil, &ErrValidation{Field: "source", Message: "exactly one of text, html or url is required"}
	}

	switch {
	case strings.TrimSpace(req.URL) != "":
		opts := s.urlOptions
		return ingestion.IngestFromURL(r.Context(), strings.TrimSpace(req.URL), &opts)

	case strings.TrimSpace(req.HTML) != "":
		text, err := ingestion.FromHTML(req.HTML)
		if err != nil {
			return "", nil, &ErrBadRequest{Message: "unreadable HTML", Cause: err}
		}
		if text == "" {
			return "", nil, ingestion.ErrEmptyInput
		}
		meta := ingestion.NewMetadata(text, "")
		meta.Source = ingestion.SourceHTML
		meta.PageTitle = fetch.PageTitle(req.HTML)
		return text, meta, nil

	default:
		meta := ingestion.NewMetadata(ingestion.CleanText(req.Text), "")
		meta.Source = ingestion.SourceAPI
		return req.Text, meta, nil
	}
}

// handleDraft pre-fills an application from offer text.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := decodeAndValidate(w, r, maxAnalyzeBodyBytes, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, offer.ToDraft(offer.Extract(req.Text), s.now()))
}

// handleExport analyzes several offers and returns them as a spreadsheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeAndValidate(w, r, maxAnalyzeBodyBytes, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	rows := make([]export.Row, 0, len(req.Offers))
	for i, item := range req.Offers {
		source := item.Source
		if source == "" {
			source = fmt.Sprintf("offre %d", i+1)
		}
		rows = append(rows, export.Row{Source: source, Offer: offer.Extract(item.Text)})
	}

	var buf bytes.Buffer
	if err := export.WriteOffers(&buf, rows); err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="offres.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing xlsx response: %v", err)
	}
}

// handleLetter generates and scores a cover letter.
func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var in types.LetterInput
	if err := decodeJSON(w, r, maxBodyBytes, &in); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.generator.Compose(in))
}

// handleScore rates a skill set against an offer without writing a letter.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeAndValidate(w, r, maxAnalyzeBodyBytes, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, letter.Score(types.LetterInput{
		Skills:          req.Skills,
		OfferText:       req.OfferText,
		YearsExperience: req.YearsExperience,
	}))
}
