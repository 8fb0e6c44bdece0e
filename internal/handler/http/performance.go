package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vijaygla/HRMS-sub000/internal/domain/performance"
	"github.com/vijaygla/HRMS-sub000/internal/handler/http/response"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

type PerformanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Acknowledge(w http.ResponseWriter, r *http.Request)
	GetMyReviews(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	reviewService performance.ReviewService
}

func NewPerformanceHandler(reviewService performance.ReviewService) PerformanceHandler {
	return &performanceHandlerImpl{
		reviewService: reviewService,
	}
}

func (h *performanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs validator.ValidationErrors

	filter := performance.ReviewFilter{
		EmployeeID: queryString(q, "employee_id"),
		ReviewerID: queryString(q, "reviewer_id"),
		Status:     queryString(q, "status"),
		ReviewType: queryString(q, "review_type"),
		Params:     pageParams(q, &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Reviews, result.Info)
}

func (h *performanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *performanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req performance.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.reviewService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Performance review created successfully", result)
}

func (h *performanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req performance.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.reviewService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance review updated successfully", result)
}

func (h *performanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance review deleted successfully", nil)
}

func (h *performanceHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance review submitted", result)
}

func (h *performanceHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance review completed", result)
}

func (h *performanceHandlerImpl) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req performance.AcknowledgeReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.reviewService.Acknowledge(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance review acknowledged", result)
}

func (h *performanceHandlerImpl) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs validator.ValidationErrors

	filter := performance.MyReviewFilter{
		Status: queryString(q, "status"),
		Params: pageParams(q, &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.GetMyReviews(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Reviews, result.Info)
}

func (h *performanceHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviewService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
