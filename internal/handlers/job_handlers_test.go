package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

var (
	employer  = &models.User{ID: 1, Name: "Acme", Email: "hr@acme.test", Role: models.RoleEmployer}
	candidate = &models.User{ID: 2, Name: "Ada", Email: "ada@example.com", Role: models.RoleCandidate}
)

// withRoute attaches chi URL params and, when user is non-nil, an authenticated user.
func withRoute(req *http.Request, user *models.User, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = auth.WithUser(ctx, user)
	}
	return req.WithContext(ctx)
}

func multipartResume(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file attached"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestNewJobHandler(t *testing.T) {
	assert.Panics(t, func() { NewJobHandler(nil, 0) })

	h := NewJobHandler(new(MockJobService), 0)
	assert.Equal(t, int64(constants.DefaultMaxUploadBytes), h.maxUploadBytes)
}

func TestJobHandler_CreateJob(t *testing.T) {
	body := map[string]interface{}{
		"title":       "Go Developer",
		"description": "Build services",
		"location":    "Oslo",
		"type":        "full-time",
		"skills":      []string{"go", "sql"},
	}

	t.Run("created", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("CreateJob", mock.Anything, employer, mock.MatchedBy(func(req *models.CreateJobRequest) bool {
			return req.Title == "Go Developer" && len(req.Skills) == 2
		})).Return(&models.Job{ID: 10, Title: "Go Developer", EmployerID: employer.ID}, nil)

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPost, "/api/jobs/post", body), employer, nil)
		NewJobHandler(svc, 0).CreateJob(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var job models.Job
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
		assert.Equal(t, int64(10), job.ID)
		svc.AssertExpectations(t)
	})

	t.Run("candidate forbidden", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("CreateJob", mock.Anything, candidate, mock.Anything).
			Return(nil, utils.NewForbiddenError(constants.MsgOnlyEmployersPost))

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPost, "/api/jobs/post", body), candidate, nil)
		NewJobHandler(svc, 0).CreateJob(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, constants.MsgOnlyEmployersPost, decodeError(t, rec).Message)
	})

	t.Run("invalid type", func(t *testing.T) {
		svc := new(MockJobService)
		invalid := map[string]interface{}{
			"title": "Go Developer", "description": "x", "location": "Oslo", "type": "gig", "skills": []string{"go"},
		}

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPost, "/api/jobs/post", invalid), employer, nil)
		NewJobHandler(svc, 0).CreateJob(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPost, "/api/jobs/post", body), nil, nil)
		NewJobHandler(new(MockJobService), 0).CreateJob(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestJobHandler_ListJobs(t *testing.T) {
	svc := new(MockJobService)
	want := models.JobFilter{
		Location: "Oslo",
		Type:     models.JobTypeContract,
		Skills:   []string{"go", "sql"},
		Search:   "backend",
	}
	svc.On("ListJobs", mock.Anything, want).Return([]*models.Job{{ID: 1}, {ID: 2}}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/jobs?location=Oslo&type=contract&skills=go,%20sql&search=backend", nil)
	NewJobHandler(svc, 0).ListJobs(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var jobs []models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)
	svc.AssertExpectations(t)
}

func TestJobHandler_ListJobs_Empty(t *testing.T) {
	svc := new(MockJobService)
	svc.On("ListJobs", mock.Anything, models.JobFilter{}).Return([]*models.Job{}, nil)

	rec := httptest.NewRecorder()
	NewJobHandler(svc, 0).ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestJobHandler_GetJob(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		viewer     *models.User
		result     *models.Job
		err        error
		wantStatus int
	}{
		{name: "anonymous", id: "5", result: &models.Job{ID: 5}, wantStatus: http.StatusOK},
		{name: "owner", id: "5", viewer: employer, result: &models.Job{ID: 5, Applications: []*models.JobApplication{{ID: 1}}}, wantStatus: http.StatusOK},
		{name: "not found", id: "99", err: utils.NewNotFoundMessage(constants.MsgJobNotFound), wantStatus: http.StatusNotFound},
		{name: "bad id", id: "abc", wantStatus: http.StatusBadRequest},
		{name: "negative id", id: "-3", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJobService)
			if tt.wantStatus != http.StatusBadRequest {
				svc.On("GetJob", mock.Anything, mock.AnythingOfType("int64"), tt.viewer).Return(tt.result, tt.err)
			}

			rec := httptest.NewRecorder()
			req := withRoute(httptest.NewRequest(http.MethodGet, "/api/jobs/"+tt.id, nil), tt.viewer,
				map[string]string{constants.ParamID: tt.id})
			NewJobHandler(svc, 0).GetJob(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.Equal(t, constants.MsgInvalidJobID, decodeError(t, rec).Message)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestJobHandler_Apply(t *testing.T) {
	resume := []byte("%PDF-1.4 resume")

	t.Run("submitted", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("Apply", mock.Anything, int64(7), candidate, mock.MatchedBy(func(u *storage.ResumeUpload) bool {
			return u.Filename == "cv.PDF" && u.Size == int64(len(resume)) && u.Ext() == ".pdf"
		})).Return(&models.JobApplication{ID: 3, JobID: 7, CandidateID: candidate.ID, Status: models.StatusApplied}, nil)

		body, contentType := multipartResume(t, constants.ResumeFormField, "cv.PDF", resume)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", body)
		req.Header.Set(constants.HeaderContentType, contentType)

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 0).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "7"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.ApplicationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, constants.MsgApplicationSubmitted, resp.Message)
		require.NotNil(t, resp.Application)
		assert.Equal(t, models.StatusApplied, resp.Application.Status)
		assert.Equal(t, resume, svc.resume)
		svc.AssertExpectations(t)
	})

	t.Run("missing resume", func(t *testing.T) {
		svc := new(MockJobService)
		body, contentType := multipartResume(t, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", body)
		req.Header.Set(constants.HeaderContentType, contentType)

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 0).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "7"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.MsgResumeRequired, decodeError(t, rec).Message)
		svc.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		svc := new(MockJobService)
		req := jsonRequest(t, http.MethodPost, "/api/jobs/7/apply", map[string]string{"resume": "x"})

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 0).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "7"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.MsgResumeRequired, decodeError(t, rec).Message)
	})

	t.Run("resume too large", func(t *testing.T) {
		svc := new(MockJobService)
		body, contentType := multipartResume(t, constants.ResumeFormField, "cv.pdf", bytes.Repeat([]byte("a"), 2048))
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", body)
		req.Header.Set(constants.HeaderContentType, contentType)

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 1024).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "7"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.MsgResumeTooLarge, decodeError(t, rec).Message)
		svc.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad job id", func(t *testing.T) {
		svc := new(MockJobService)
		body, contentType := multipartResume(t, constants.ResumeFormField, "cv.pdf", resume)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/x/apply", body)
		req.Header.Set(constants.HeaderContentType, contentType)

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 0).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "x"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.MsgInvalidJobID, decodeError(t, rec).Message)
	})

	t.Run("already applied", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("Apply", mock.Anything, int64(7), candidate, mock.Anything).
			Return(nil, utils.NewBadRequestError(constants.MsgAlreadyApplied))

		body, contentType := multipartResume(t, constants.ResumeFormField, "cv.pdf", resume)
		req := httptest.NewRequest(http.MethodPost, "/api/jobs/7/apply", body)
		req.Header.Set(constants.HeaderContentType, contentType)

		rec := httptest.NewRecorder()
		NewJobHandler(svc, 0).Apply(rec, withRoute(req, candidate, map[string]string{constants.ParamID: "7"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.MsgAlreadyApplied, decodeError(t, rec).Message)
	})
}

func TestJobHandler_TrackApplications(t *testing.T) {
	t.Run("listed", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("TrackApplications", mock.Anything, candidate).Return([]*models.JobApplication{
			{ID: 1, JobID: 7, Job: &models.JobSummary{ID: 7, Title: "Go Developer", Location: "Oslo", Type: models.JobTypeFullTime}},
		}, nil)

		rec := httptest.NewRecorder()
		req := withRoute(httptest.NewRequest(http.MethodGet, "/api/jobs/applications", nil), candidate, nil)
		NewJobHandler(svc, 0).TrackApplications(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"title":"Go Developer"`)
	})

	t.Run("none", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("TrackApplications", mock.Anything, candidate).
			Return(nil, utils.NewNotFoundMessage(constants.MsgNoApplications))

		rec := httptest.NewRecorder()
		req := withRoute(httptest.NewRequest(http.MethodGet, "/api/jobs/applications", nil), candidate, nil)
		NewJobHandler(svc, 0).TrackApplications(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, constants.MsgNoApplications, decodeError(t, rec).Message)
	})
}

func TestJobHandler_UpdateApplicationStatus(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("UpdateApplicationStatus", mock.Anything, employer, &models.UpdateApplicationStatusRequest{
			ApplicationID: 3, Status: models.StatusHired,
		}).Return(&models.JobApplication{ID: 3, Status: models.StatusHired}, nil)

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPut, "/api/jobs/applications/status",
			map[string]interface{}{"applicationId": 3, "status": "hired"}), employer, nil)
		NewJobHandler(svc, 0).UpdateApplicationStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.ApplicationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, constants.MsgApplicationStatusSaved, resp.Message)
		assert.Equal(t, models.StatusHired, resp.Application.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := new(MockJobService)

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPut, "/api/jobs/applications/status",
			map[string]interface{}{"applicationId": 3, "status": "ghosted"}), employer, nil)
		NewJobHandler(svc, 0).UpdateApplicationStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, constants.CodeValidationError, decodeError(t, rec).Code)
		svc.AssertNotCalled(t, "UpdateApplicationStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign job", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("UpdateApplicationStatus", mock.Anything, employer, mock.Anything).
			Return(nil, utils.NewForbiddenError(constants.MsgOwnJobsOnly))

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPut, "/api/jobs/applications/status",
			map[string]interface{}{"applicationId": 3, "status": "rejected"}), employer, nil)
		NewJobHandler(svc, 0).UpdateApplicationStatus(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, constants.MsgOwnJobsOnly, decodeError(t, rec).Message)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockJobService)
		svc.On("UpdateApplicationStatus", mock.Anything, employer, mock.Anything).
			Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		req := withRoute(jsonRequest(t, http.MethodPut, "/api/jobs/applications/status",
			map[string]interface{}{"applicationId": 3, "status": "rejected"}), employer, nil)
		NewJobHandler(svc, 0).UpdateApplicationStatus(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, constants.CodeInternalError, decodeError(t, rec).Code)
	})
}
