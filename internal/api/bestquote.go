package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shipquote/internal/carrier"
	"shipquote/internal/quote"
	"shipquote/internal/shipment"
)

// statusClientClosedRequest is reported when the caller hangs up mid-round.
const statusClientClosedRequest = 499

type bestQuoteBody struct {
	Carriers []string           `json:"carriers"`
	Shipment *shipment.Shipment `json:"shipment" binding:"required"`
}

// getBestQuote quotes each carrier's reference shipment.
func (h *handlers) getBestQuote(c *gin.Context) {
	var names []string
	if raw := strings.TrimSpace(c.Query("carriers")); raw != "" {
		names = strings.Split(raw, ",")
	}
	ids, ok := h.carriers(c, names)
	if !ok {
		return
	}
	h.runRound(c, quote.Request{Carriers: ids, Budget: h.opts.Budget})
}

// postBestQuote asks every carrier to quote the caller's shipment.
func (h *handlers) postBestQuote(c *gin.Context) {
	var body bestQuoteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids, ok := h.carriers(c, body.Carriers)
	if !ok {
		return
	}
	h.runRound(c, quote.Request{Carriers: ids, Budget: h.opts.Budget, Shipment: body.Shipment})
}

func (h *handlers) carriers(c *gin.Context, names []string) ([]carrier.ID, bool) {
	ids, err := carrier.ParseList(names)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(ids) == 0 {
		ids = h.opts.Carriers
	}
	return ids, true
}

func (h *handlers) runRound(c *gin.Context, req quote.Request) {
	deal, err := h.opts.Quoter.Run(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, carrier.ErrCanceled) {
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		h.opts.Log.Error("best quote failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, deal)
}
