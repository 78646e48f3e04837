// Rack HTTP handlers.
//
// This file exposes REST endpoints for rack resources:
//   - POST   /racks          (create, Idempotency-Key aware)
//   - GET    /racks          (floor-paginated listing, ETag support)
//   - GET    /racks/search   (substring search with item highlighting)
//   - GET    /racks/{id}     (point lookup)
//   - PUT    /racks/{id}     (partial update)
//   - DELETE /racks/{id}     (delete)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
// Raw store errors are logged with operation context and never surfaced to
// clients; the response carries a fixed message plus a stable error code.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
	"github.com/NamanHarbola/Rack-Management/internal/http/middleware"
	"github.com/NamanHarbola/Rack-Management/internal/repo"
	"github.com/NamanHarbola/Rack-Management/internal/services"
)

//
// Service contracts (context-aware)
//

// RackService defines rack lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RackService interface {
	// Create persists a new rack and returns it.
	Create(ctx context.Context, rackNumber, floor string, items []string) (*domain.Rack, error)
	// Get returns a rack by id, or services.ErrRackNotFound.
	Get(ctx context.Context, id string) (*domain.Rack, error)
	// Update applies a partial update and returns the refreshed rack.
	Update(ctx context.Context, id string, patch repo.RackUpdate) (*domain.Rack, error)
	// Delete removes a rack, or returns services.ErrRackNotFound.
	Delete(ctx context.Context, id string) error
	// ListByFloorPage returns one page of the floor-grouped listing.
	ListByFloorPage(ctx context.Context, page, limit int) (map[string][]domain.Rack, error)
	// Search returns matching racks plus per-rack matched-item highlights.
	Search(ctx context.Context, query string) (*services.SearchResult, error)
}

// StatusService defines the legacy status-check ping log operations.
type StatusService interface {
	// Create appends a ping entry for clientName.
	Create(ctx context.Context, clientName string) (*domain.StatusCheck, error)
	// List returns all recorded pings (capped).
	List(ctx context.Context) ([]domain.StatusCheck, error)
}

// IdempotencyStore persists Idempotency-Key outcomes for POST /racks so that
// client retries can be served the originally created rack.
type IdempotencyStore interface {
	// Find returns the rack id recorded for key, if a non-expired record exists.
	Find(ctx context.Context, key string) (rackID string, found bool, err error)
	// Save records that key produced rackID with the given HTTP status.
	Save(ctx context.Context, key, rackID string, status int) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for racks and status checks. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	rackSvc   RackService
	statusSvc StatusService
	idem      IdempotencyStore // optional; nil disables replay handling
}

// New constructs and returns a Handlers instance bound to the given services.
// idem may be nil, in which case Idempotency-Key headers are validated by the
// middleware but carry no replay semantics.
func New(rackSvc RackService, statusSvc StatusService, idem IdempotencyStore) *Handlers {
	return &Handlers{rackSvc: rackSvc, statusSvc: statusSvc, idem: idem}
}

//
// DTOs
//

// CreateRackRequest is the JSON payload for creating a rack.
type CreateRackRequest struct {
	// RackNumber labels the rack; free-form, not required to be unique.
	RackNumber string `json:"rackNumber" binding:"required" example:"R001"`
	// Floor labels the floor the rack stands on.
	Floor string `json:"floor" binding:"required" example:"Ground Floor"`
	// Items optionally lists the stored item names; defaults to empty.
	Items []string `json:"items" example:"Electronics,Chargers"`
}

// UpdateRackRequest is the JSON payload for a partial rack update. Every
// field is independently optional; omitted fields are left untouched.
type UpdateRackRequest struct {
	RackNumber *string   `json:"rackNumber" example:"R002"`
	Floor      *string   `json:"floor"      example:"1st Floor"`
	Items      *[]string `json:"items"`
}

// CreateStatusRequest is the JSON payload for the legacy status ping.
type CreateStatusRequest struct {
	ClientName string `json:"client_name" binding:"required" example:"frontend"`
}

// DeleteResponse acknowledges a successful deletion.
type DeleteResponse struct {
	Message string `json:"message" example:"Rack deleted successfully"`
}

//
// Helpers
//

// intQuery parses an integer query parameter, applying def when absent.
// A present but non-numeric value is a validation failure, matching the
// strictness of the listing contract (out-of-range values are rejected by the
// service, not clamped).
func intQuery(c *gin.Context, name string, def int) (int, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

// logStoreError records a repository/store failure with operation context on
// the request-scoped logger. The caller is expected to follow up with fail()
// carrying a fixed, non-leaking message.
func logStoreError(c *gin.Context, op, rackID string, err error) {
	lg := middleware.LoggerFrom(c)
	ev := lg.Error().Err(err).Str("op", op)
	if rackID != "" {
		ev = ev.Str("rack_id", rackID)
	}
	ev.Msg("store operation failed")
}

//
// Handlers
//

// CreateRack godoc
// @ID          createRack
// @Summary     Create a new rack
// @Description Creates a rack and returns it. Honors an optional Idempotency-Key header: a retry within the TTL window returns the originally created rack.
// @Tags        Racks
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Safe-retry key"
// @Param       body             body    handlers.CreateRackRequest  true  "Create rack payload"
//
// @Success     200  {object}  domain.Rack
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /racks [post]
func (h *Handlers) CreateRack(c *gin.Context) {
	ctx := c.Request.Context()

	// Serve a replay before touching the body: the original outcome wins.
	key, hasKey := middleware.GetIdempotencyKey(c)
	if hasKey && h.idem != nil && middleware.IsReplay(c) {
		if rackID, found, err := h.idem.Find(ctx, key); err == nil && found {
			if rack, err := h.rackSvc.Get(ctx, rackID); err == nil {
				ok(c, http.StatusOK, rack)
				return
			}
			// Recorded rack since deleted: fall through and create anew.
		}
	}

	var req CreateRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "rackNumber and floor are required")
		return
	}
	rackNumber := strings.TrimSpace(req.RackNumber)
	floor := strings.TrimSpace(req.Floor)
	if rackNumber == "" || floor == "" {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "rackNumber and floor must not be blank")
		return
	}

	rack, err := h.rackSvc.Create(ctx, rackNumber, floor, req.Items)
	middleware.ObserveRackOp("create", err == nil)
	if err != nil {
		logStoreError(c, "create_rack", "", err)
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Failed to create rack")
		return
	}

	if hasKey && h.idem != nil {
		// Best effort: losing the record only costs a duplicate on retry.
		_ = h.idem.Save(ctx, key, rack.ID, http.StatusOK)
	}

	ok(c, http.StatusOK, rack)
}

// ListRacks godoc
// @ID          listRacks
// @Summary     List racks grouped by floor (paginated)
// @Description Returns a mapping of floor -> racks for one page of distinct floors. An empty object means the page is past the last floor. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Racks
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number (floors)"     minimum(1) default(1)
// @Param       limit          query   int     false "Floors per page"          minimum(1) maximum(20) default(5)
//
// @Success     200  {object} map[string][]domain.Rack
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     422  {object} handlers.ErrorResponse "Validation failed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /racks [get]
func (h *Handlers) ListRacks(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := intQuery(c, "page", 1)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		return
	}
	limit, err := intQuery(c, "limit", 5)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.rackSvc.(*services.RackService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.RacksStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"racks:%d:%d:%d:%d"`, count, ts, page, limit)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	grouped, err := h.rackSvc.ListByFloorPage(ctx, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPage), errors.Is(err, services.ErrInvalidLimit):
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
		default:
			middleware.ObserveRackOp("list", false)
			logStoreError(c, "list_racks", "", err)
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Failed to get racks")
		}
		return
	}
	middleware.ObserveRackOp("list", true)

	ok(c, http.StatusOK, grouped)
}

// SearchRacks godoc
// @ID          searchRacks
// @Summary     Search racks
// @Description Case-insensitive literal substring search over rack number, floor, and item names. The response pairs the matching racks with a map of rack id -> items that matched (for highlighting).
// @Tags        Racks
// @Produce     json
//
// @Param       q  query  string  true  "Search query (min length 1; treated literally)"
//
// @Success     200  {object} services.SearchResult
// @Failure     422  {object} handlers.ErrorResponse "Empty query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /racks/search [get]
func (h *Handlers) SearchRacks(c *gin.Context) {
	res, err := h.rackSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "q must be at least 1 character")
			return
		}
		middleware.ObserveRackOp("search", false)
		logStoreError(c, "search_racks", "", err)
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, "Failed to search racks")
		return
	}
	middleware.ObserveRackOp("search", true)
	ok(c, http.StatusOK, res)
}

// GetRack godoc
// @ID          getRack
// @Summary     Get a rack by id
// @Tags        Racks
// @Produce     json
//
// @Param       id  path  string  true  "Rack ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Rack
// @Failure     404  {object} handlers.ErrorResponse "Rack not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /racks/{id} [get]
func (h *Handlers) GetRack(c *gin.Context) {
	id := c.Param("id")

	rack, err := h.rackSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRackNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Rack not found")
			return
		}
		middleware.ObserveRackOp("get", false)
		logStoreError(c, "get_rack", id, err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "Failed to get rack")
		return
	}
	middleware.ObserveRackOp("get", true)
	ok(c, http.StatusOK, rack)
}

// UpdateRack godoc
// @ID          updateRack
// @Summary     Partially update a rack
// @Description Merges only the supplied fields into the stored rack and refreshes updatedAt. Omitted fields are left untouched; items, when supplied, replaces the whole list.
// @Tags        Racks
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Rack ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateRackRequest  true  "Fields to update"
//
// @Success     200  {object} domain.Rack
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Rack not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /racks/{id} [put]
func (h *Handlers) UpdateRack(c *gin.Context) {
	id := c.Param("id")

	var req UpdateRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rack, err := h.rackSvc.Update(c.Request.Context(), id, repo.RackUpdate{
		RackNumber: req.RackNumber,
		Floor:      req.Floor,
		Items:      req.Items,
	})
	if err != nil {
		if errors.Is(err, services.ErrRackNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Rack not found")
			return
		}
		middleware.ObserveRackOp("update", false)
		logStoreError(c, "update_rack", id, err)
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Failed to update rack")
		return
	}
	middleware.ObserveRackOp("update", true)
	ok(c, http.StatusOK, rack)
}

// DeleteRack godoc
// @ID          deleteRack
// @Summary     Delete a rack
// @Tags        Racks
// @Produce     json
//
// @Param       id  path  string  true  "Rack ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.DeleteResponse
// @Failure     404  {object} handlers.ErrorResponse "Rack not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /racks/{id} [delete]
func (h *Handlers) DeleteRack(c *gin.Context) {
	id := c.Param("id")

	if err := h.rackSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRackNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Rack not found")
			return
		}
		middleware.ObserveRackOp("delete", false)
		logStoreError(c, "delete_rack", id, err)
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, "Failed to delete rack")
		return
	}
	middleware.ObserveRackOp("delete", true)
	ok(c, http.StatusOK, DeleteResponse{Message: "Rack deleted successfully"})
}
