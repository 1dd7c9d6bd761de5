package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"shipquote/internal/carrier"
	"shipquote/internal/pricing"
)

const badInput = "Please check the input data and try again"

func (h *handlers) carrier1Quote(c *gin.Context) {
	var req carrier.Carrier1Request
	if !bindCarrierRequest(c, binding.JSON, &req, func() bool { return req.PackageDimensions != nil }) {
		return
	}
	if !h.simulateLatency(c, carrier.Carrier1) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": pricing.Total(req.PackageDimensions)})
}

func (h *handlers) carrier2Quote(c *gin.Context) {
	var req carrier.Carrier2Request
	if !bindCarrierRequest(c, binding.JSON, &req, func() bool { return req.Cartons != nil }) {
		return
	}
	if !h.simulateLatency(c, carrier.Carrier2) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": pricing.Total(req.Cartons)})
}

func (h *handlers) carrier3Quote(c *gin.Context) {
	var req carrier.Carrier3Request
	if !bindCarrierRequest(c, binding.XML, &req, func() bool { return req.Packages != nil }) {
		return
	}
	if !h.simulateLatency(c, carrier.Carrier3) {
		return
	}
	c.XML(http.StatusOK, carrier.Carrier3Response{Quote: pricing.Total(req.Packages)})
}

// bindCarrierRequest answers 400 when the payload is unreadable or carries no
// package list, and 409 when the list is there but some field is invalid.
func bindCarrierRequest(c *gin.Context, b binding.Binding, obj any, hasPackages func() bool) bool {
	err := c.ShouldBindWith(obj, b)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || !hasPackages() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": badInput})
		return false
	}
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": verrs.Error()})
	return false
}

// simulateLatency holds the reply for the configured delay. It gives up
// when the caller goes away.
func (h *handlers) simulateLatency(c *gin.Context, id carrier.ID) bool {
	d := h.opts.Latency(id)
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.Request.Context().Done():
		c.Abort()
		return false
	}
}
