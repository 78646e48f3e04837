package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NamanHarbola/Rack-Management/internal/services"
)

// CreateStatus godoc
// @ID          createStatus
// @Summary     Record a status ping
// @Description Appends a named status-check entry to the ping log and returns it.
// @Tags        Status
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateStatusRequest  true  "Status ping payload"
//
// @Success     200  {object} domain.StatusCheck
// @Failure     422  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /status [post]
func (h *Handlers) CreateStatus(c *gin.Context) {
	var req CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "client_name is required")
		return
	}

	sc, err := h.statusSvc.Create(c.Request.Context(), req.ClientName)
	if err != nil {
		if errors.Is(err, services.ErrEmptyClientName) {
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "client_name must not be blank")
			return
		}
		logStoreError(c, "create_status", "", err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "Failed to create status check")
		return
	}
	ok(c, http.StatusOK, sc)
}

// ListStatus godoc
// @ID          listStatus
// @Summary     List recorded status pings
// @Tags        Status
// @Produce     json
//
// @Success     200  {array}  domain.StatusCheck
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /status [get]
func (h *Handlers) ListStatus(c *gin.Context) {
	checks, err := h.statusSvc.List(c.Request.Context())
	if err != nil {
		logStoreError(c, "list_status", "", err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "Failed to get status checks")
		return
	}
	ok(c, http.StatusOK, checks)
}
