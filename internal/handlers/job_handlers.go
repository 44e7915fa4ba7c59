package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/models"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/storage"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

const (
	// multipartOverhead is the slack allowed on top of the resume size for
	// multipart boundaries and headers.
	multipartOverhead = 1 << 20

	// multipartMemory is the part of a multipart form kept in memory; the
	// rest spills to temporary files.
	multipartMemory = 1 << 20
)

// JobHandler handles job and application routes
type JobHandler struct {
	jobService     JobService
	maxUploadBytes int64
}

// NewJobHandler creates a new JobHandler. maxUploadBytes caps the resume size.
func NewJobHandler(jobService JobService, maxUploadBytes int64) *JobHandler {
	if jobService == nil {
		panic("jobService cannot be nil")
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = constants.DefaultMaxUploadBytes
	}
	return &JobHandler{
		jobService:     jobService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateJob posts a new job for the authenticated employer
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.Unauthorized(w, constants.MsgNoToken)
		return
	}

	var req models.CreateJobRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := h.jobService.CreateJob(r.Context(), user, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, job)
}

// ListJobs returns the jobs matching the query filters
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.JobFilter{
		Location: query.Get(constants.QueryParamLocation),
		Type:     models.JobType(query.Get(constants.QueryParamType)),
		Skills:   utils.SplitCSV(query.Get(constants.QueryParamSkills)),
		Search:   query.Get(constants.QueryParamSearch),
	}

	jobs, err := h.jobService.ListJobs(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, jobs)
}

// GetJob returns one job. The owning employer also sees its applications.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	viewer, _ := auth.UserFromContext(r.Context())

	job, err := h.jobService.GetJob(r.Context(), id, viewer)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, job)
}

// Apply submits an application with a resume sent as multipart form data
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.Unauthorized(w, constants.MsgNoToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.BadRequest(w, constants.MsgResumeTooLarge, nil)
			return
		}
		utils.BadRequest(w, constants.MsgResumeRequired, nil)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(constants.ResumeFormField)
	if err != nil {
		utils.BadRequest(w, constants.MsgResumeRequired, nil)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		utils.BadRequest(w, constants.MsgResumeTooLarge, nil)
		return
	}

	upload := &storage.ResumeUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(constants.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}

	app, err := h.jobService.Apply(r.Context(), id, user, upload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.ApplicationResponse{
		Message:     constants.MsgApplicationSubmitted,
		Application: app,
	})
}

// TrackApplications lists the authenticated user's applications
func (h *JobHandler) TrackApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.Unauthorized(w, constants.MsgNoToken)
		return
	}

	apps, err := h.jobService.TrackApplications(r.Context(), user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, apps)
}

// UpdateApplicationStatus changes the status of an application
func (h *JobHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.Unauthorized(w, constants.MsgNoToken)
		return
	}

	var req models.UpdateApplicationStatusRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	app, err := h.jobService.UpdateApplicationStatus(r.Context(), user, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.ApplicationResponse{
		Message:     constants.MsgApplicationStatusSaved,
		Application: app,
	})
}

// jobIDParam parses the {id} URL parameter and writes a 400 when it is not
// a positive integer.
func jobIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, constants.ParamID), 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequest(w, constants.MsgInvalidJobID, nil)
		return 0, false
	}
	return id, true
}
