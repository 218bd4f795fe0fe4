package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/placify/internal/shortlist"
	"go.uber.org/zap"
)

// maxJSONBytes bounds JSON request bodies. Shortlists carry many resumes.
const maxJSONBytes = 16 << 20

// multipartOverhead is allowed on top of the upload limit for the job
// description and multipart framing.
const multipartOverhead = 1 << 20

// ScoreRequest is the body of /ats/score and /ats/quick-score. Empty text
// scores low rather than failing.
type ScoreRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// ReviewRequest is the body of /ats/review.
type ReviewRequest struct {
	ResumeText     string `json:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// SimilarityRequest is the body of /ats/similarity.
type SimilarityRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

// ShortlistRequest is the body of /ats/shortlist.
type ShortlistRequest struct {
	JobDescription string                `json:"jobDescription" validate:"required"`
	Candidates     []shortlist.Candidate `json:"candidates"`
	MinScore       int                   `json:"minScore" validate:"min=0,max=100"`
	Limit          int                   `json:"limit" validate:"min=0"`
}

// ShortlistResponse is the response of /ats/shortlist.
type ShortlistResponse struct {
	Results []shortlist.Ranked `json:"results"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads and validates a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}

	if err := requestValidator.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: validationMessage(fe)}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed on '%s'", fe.Tag())
	}
}

// handleScore rates a resume with the rule-based scorer.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.scorer.Score(req.ResumeText, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleScoreUpload extracts text from a multipart "resume" file and rates it.
func (s *Server) handleScoreUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.extractor.Limit()+multipartOverhead)
	if err := r.ParseMultipartForm(s.extractor.Limit()); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.handleError(w, r, err)
			return
		}
		s.handleError(w, r, &ErrValidation{Field: "body", Message: "invalid multipart form: " + err.Error()})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "resume", Message: "file is required"})
		return
	}
	defer file.Close()

	text, meta, err := s.extractor.Read(file, header.Filename)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.requestLogger(r).Debug("resume extracted",
		zap.String("filename", meta.Filename),
		zap.String("mime_type", meta.MIMEType),
		zap.Int("size", meta.Size))

	result, err := s.scorer.Score(text, r.FormValue("jobDescription"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleQuickScore rates a resume with the four-category keyword scorer.
func (s *Server) handleQuickScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.quick.Score(req.ResumeText, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSimilarity compares two texts.
func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req SimilarityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.comparer.Compare(req.Text1, req.Text2))
}

// handleReview asks the LLM to review a resume.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if s.reviewer == nil {
		s.handleError(w, r, ErrReviewDisabled)
		return
	}

	var req ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.reviewer.Review(r.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleShortlist ranks candidates against one job description.
func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	var req ShortlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if len(req.Candidates) > s.maxShortlist {
		s.handleError(w, r, &ErrValidation{
			Field:   "candidates",
			Message: fmt.Sprintf("must contain at most %d entries", s.maxShortlist),
		})
		return
	}

	results, err := shortlist.Rank(r.Context(), s.scorer, req.JobDescription, req.Candidates, shortlist.Options{
		MinScore:    req.MinScore,
		Limit:       req.Limit,
		Concurrency: s.shortlistConcurrency,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ShortlistResponse{Results: results})
}
