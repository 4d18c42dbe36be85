package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"item-service.com/item-service/internal/constants"
	dto "item-service.com/item-service/internal/data_models"
	apperrors "item-service.com/item-service/internal/errors"
	"item-service.com/item-service/internal/http/validators"
	model "item-service.com/item-service/internal/models"
	repository "item-service.com/item-service/internal/repositories"
	"item-service.com/item-service/internal/services"
)

const defaultListLimit = 10

type Handler struct {
	itemService *services.ItemService
}

func NewHandler(itemService *services.ItemService) *Handler {
	return &Handler{
		itemService: itemService,
	}
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Welcome to the Item API. See /items/ to get started.",
	})
}

// CreateItem accepts the payload, opens a job and returns 202 immediately.
// The Location header points at the job-status URL the client should poll.
func (h *Handler) CreateItem(c echo.Context) error {
	var req dto.ItemCreate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateItemCreate(&req); err != nil {
		return httpError(err)
	}

	job, err := h.itemService.SubmitCreation(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrJobQueueFull) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to submit creation job")
	}

	c.Response().Header().Set("Location", "/items/jobs/"+job.ID)
	return c.JSON(http.StatusAccepted, job)
}

// GetJob serves the polling endpoint. Once the job completes, the Location
// header points at the materialized item.
func (h *Handler) GetJob(c echo.Context) error {
	job, err := h.itemService.GetJob(c.Request().Context(), c.Param("job_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load job")
	}
	if job == nil {
		return httpError(apperrors.ErrJobNotFound)
	}

	if job.Status == constants.JobCompleted && job.ItemID != nil {
		c.Response().Header().Set("Location", "/items/"+*job.ItemID)
	}
	return c.JSON(http.StatusOK, job)
}

func (h *Handler) ListItems(c echo.Context) error {
	filter, err := parseItemFilter(c)
	if err != nil {
		return httpError(err)
	}

	items, err := h.itemService.ListItems(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidLimit) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list items")
	}

	if items == nil {
		items = []model.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c echo.Context) error {
	item, err := h.itemService.GetItem(c.Request().Context(), c.Param("item_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load item")
	}
	if item == nil {
		return httpError(apperrors.ErrItemNotFound)
	}

	c.Response().Header().Set("ETag", etagFor(item.UpdatedAt))
	return c.JSON(http.StatusOK, item)
}

// UpdateItem is the optimistic-lock update: the If-Match header carries the
// updated_at the client last saw, and a stale value yields 412.
func (h *Handler) UpdateItem(c echo.Context) error {
	ifMatch := c.Request().Header.Get("If-Match")
	if ifMatch == "" {
		return httpError(apperrors.ErrIfMatchRequired)
	}
	expected, err := parseETag(ifMatch)
	if err != nil {
		return httpError(apperrors.ErrInvalidIfMatch)
	}

	var req dto.ItemUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateItemUpdate(&req); err != nil {
		return httpError(err)
	}

	item, err := h.itemService.UpdateItem(c.Request().Context(), c.Param("item_id"), req, expected)
	if err != nil {
		var appErr *apperrors.Exception
		if errors.As(err, &appErr) {
			return httpError(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update item")
	}

	c.Response().Header().Set("ETag", etagFor(item.UpdatedAt))
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	removed, err := h.itemService.DeleteItem(c.Request().Context(), c.Param("item_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete item")
	}
	if removed == nil {
		return httpError(apperrors.ErrItemNotFound)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseItemFilter(c echo.Context) (repository.ItemFilter, error) {
	filter := repository.ItemFilter{
		IDs:    c.QueryParams()["id"],
		Search: c.QueryParam("search"),
		Limit:  defaultListLimit,
	}

	if v := c.QueryParam("transaction_type"); v != "" {
		t := constants.TransactionType(v)
		if !t.Valid() {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.TransactionType = t
	}

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, &apperrors.Exception{
				Message:    "category_id must be an integer",
				StatusCode: http.StatusBadRequest,
			}
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	if v := c.QueryParam("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return filter, &apperrors.Exception{
				Message:    "skip must be a non-negative integer",
				StatusCode: http.StatusBadRequest,
			}
		}
		filter.Skip = skip
	}

	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return filter, apperrors.ErrInvalidLimit
		}
		filter.Limit = limit
	}

	return filter, nil
}

// etagFor quotes the item's updated_at as its version tag.
func etagFor(t time.Time) string {
	return `"` + t.UTC().Format(time.RFC3339Nano) + `"`
}

func parseETag(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, `"`)
	v = strings.TrimSuffix(v, `"`)
	return time.Parse(time.RFC3339Nano, v)
}

func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
