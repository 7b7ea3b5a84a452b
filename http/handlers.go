package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/courserec"
)

// CourseResult is a ranked course in API responses.
type CourseResult struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	Credits     string  `json:"credits,omitempty"`
	Score       float32 `json:"score"`
}

type recommendRequest struct {
	Body struct {
		Question string `json:"question" doc:"Natural language question about courses" example:"What class should I take if I like chemistry?"`
	}
}

type recommendResponse struct {
	Body struct {
		Question       string         `json:"question"`
		Recommendation string         `json:"recommendation"`
		Courses        []CourseResult `json:"courses"`
	}
}

type searchRequest struct {
	Query string `query:"q" doc:"Search text"`
	K     int    `query:"k" minimum:"0" maximum:"50" doc:"Number of courses to return"`
}

type searchResponse struct {
	Body struct {
		Courses []CourseResult `json:"courses"`
	}
}

type healthResponse struct {
	Status int
	Body   struct {
		Status  string `json:"status"`
		Courses int    `json:"courses"`
	}
}

func (s *Server) recommendHandler(ctx context.Context, req *recommendRequest) (*recommendResponse, error) {
	rec, err := s.recommender.Recommend(ctx, req.Body.Question)
	if err != nil {
		return nil, s.Error(ctx, err)
	}

	resp := &recommendResponse{}
	resp.Body.Question = rec.Question
	resp.Body.Recommendation = rec.Answer
	resp.Body.Courses = toCourseResults(rec.Courses)
	return resp, nil
}

func (s *Server) searchHandler(ctx context.Context, req *searchRequest) (*searchResponse, error) {
	results, err := s.retriever.Retrieve(ctx, req.Query, req.K)
	if err != nil {
		return nil, s.Error(ctx, err)
	}

	resp := &searchResponse{}
	resp.Body.Courses = toCourseResults(results)
	return resp, nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"

	n, err := s.courses.CountCourses(ctx, s.year)
	if err != nil {
		s.logger.Error("counting courses", "request_id", RequestIDFromContext(ctx), "error", err)
		resp.Status = http.StatusServiceUnavailable
		resp.Body.Status = "degraded"
		return resp, nil
	}
	resp.Body.Courses = n
	return resp, nil
}

func toCourseResults(results []courserec.SearchResult) []CourseResult {
	out := make([]CourseResult, 0, len(results))
	for _, r := range results {
		if r.Course == nil {
			continue
		}
		out = append(out, CourseResult{
			Code:        r.Course.Code,
			Name:        r.Course.Name,
			Description: r.Course.Description,
			Link:        r.Course.Link,
			Credits:     r.Course.Credits,
			Score:       r.Score,
		})
	}
	return out
}
