package api

import (
	"strconv"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/http/response"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListWorkers returns worker accounts. Used by executives when reassigning
// orders; the route policy keeps workers out.
func (h *Handler) ListWorkers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = normalizePagination(page, pageSize)

	workers, total, err := h.WorkerRepo.List(repository.WorkerListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "worker list failed", err)
		return
	}

	items := make([]WorkerProfile, 0, len(workers))
	for i := range workers {
		items = append(items, buildWorkerProfile(&workers[i]))
	}

	response.SuccessWithPage(c, items, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
