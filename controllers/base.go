package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

func getPaginationParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset = (page - 1) * limit
	return page, limit, offset
}

func generateLinks(c *gin.Context, page, limit, totalPages int) models.PaginationLinks {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}

	host := c.Request.Host
	path := c.Request.URL.Path
	queryParams := c.Request.URL.Query()

	makeURL := func(pageNum int) string {
		newParams := url.Values{}
		for key, values := range queryParams {
			if key != "page" && key != "limit" {
				for _, value := range values {
					newParams.Add(key, value)
				}
			}
		}
		newParams.Set("page", strconv.Itoa(pageNum))
		newParams.Set("limit", strconv.Itoa(limit))
		return fmt.Sprintf("%s://%s%s?%s", scheme, host, path, newParams.Encode())
	}

	links := models.PaginationLinks{
		Self: makeURL(page),
	}
	if page > 1 {
		links.Prev = makeURL(page - 1)
	}
	if page < totalPages {
		links.Next = makeURL(page + 1)
	}
	return links
}

func buildResponse(c *gin.Context, message string, data interface{}, page, limit, totalItems int) models.HATEOASResponse {
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}

	if page > totalPages && totalPages > 0 {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	meta := models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}

	return models.HATEOASResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
		Links:   generateLinks(c, page, limit, totalPages),
	}
}

func currentUserID(c *gin.Context) int {
	return c.GetInt(middleware.ContextUserID)
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

func ok(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrCouponInvalid),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInUse),
		errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the failure envelope. Internal errors are logged and
// hidden from the client.
func respondError(c *gin.Context, log logrus.FieldLogger, fallback string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"path":           c.Request.URL.Path,
			"correlation_id": c.GetString(middleware.ContextCorrelationID),
		}).Error(fallback)
		c.JSON(status, models.ErrorResponse{Success: false, Message: fallback})
		return
	}
	c.JSON(status, models.ErrorResponse{Success: false, Message: err.Error()})
}
