package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	requestDto "github.com/rescueplate/backend/internal/modules/request/dto"
	request "github.com/rescueplate/backend/internal/modules/request/service"
	"github.com/rescueplate/backend/pkg/ratelimiter"
	"github.com/rescueplate/backend/pkg/response"
)

type RequestHandler struct {
	service request.Service
}

func NewRequestHandler(service request.Service) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.CreateRequest(c.Request.Context(), userID, donationID)
	if err != nil {
		if rateLimitErr, ok := err.(*ratelimiter.RateLimitError); ok {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	h.resolve(c, h.service.Approve)
}

func (h *RequestHandler) RejectRequest(c *gin.Context) {
	h.resolve(c, h.service.Reject)
}

func (h *RequestHandler) ListForDonation(c *gin.Context) {
	donationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.ListForDonation(c.Request.Context(), userID, donationID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.service.ListForRecipient(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RequestHandler) resolve(c *gin.Context, fn func(ctx context.Context, actorID uuid.UUID, requestID uuid.UUID) (*requestDto.RequestResponse, error)) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := fn(c.Request.Context(), userID, requestID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
