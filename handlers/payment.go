package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"soothe/config"
	"soothe/models"
	"soothe/services/booking"
	"soothe/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const maxWebhookBodyBytes = int64(65536)

// PaymentWebhookHandler consumes Stripe webhook events. Only
// payment_intent.succeeded is acted on; everything else is acknowledged
// and dropped.
type PaymentWebhookHandler struct {
	Orders booking.OrderService
	Logger *zap.Logger
}

// NewPaymentWebhookHandler wires the webhook endpoint.
func NewPaymentWebhookHandler(orders booking.OrderService, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{Orders: orders, Logger: logger}
}

// HandleWebhook verifies the event signature and forwards settled
// payments into the booking engine.
func (h *PaymentWebhookHandler) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to read webhook body", err.Error())
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"),
		config.AppConfig.StripeWebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid webhook signature", "")
		return
	}

	if event.Type != "payment_intent.succeeded" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		h.Logger.Error("failed to parse payment intent", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid payment intent payload", "")
		return
	}

	bookingID := intent.Metadata["bookingId"]
	if bookingID == "" {
		h.Logger.Warn("payment intent carries no booking reference",
			zap.String("paymentIntentId", intent.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	sig := models.PaymentSuccess{
		BookingID:     bookingID,
		TransactionID: intent.ID,
		AmountPaid:    float64(intent.AmountReceived) / 100,
		CardLast4:     cardLast4(&intent),
		PaidAt:        time.Unix(intent.Created, 0).UTC(),
	}

	if _, err := h.Orders.HandlePaymentSuccess(c.Request.Context(), sig); err != nil {
		h.Logger.Error("failed to apply payment success",
			zap.String("bookingId", bookingID),
			zap.String("paymentIntentId", intent.ID),
			zap.Error(err))
		// Non-2xx makes Stripe retry, which HandlePaymentSuccess tolerates.
		utils.JSONError(c, http.StatusInternalServerError, "failed to process payment", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func cardLast4(intent *stripe.PaymentIntent) string {
	if intent.LatestCharge == nil || intent.LatestCharge.PaymentMethodDetails == nil {
		return ""
	}
	if card := intent.LatestCharge.PaymentMethodDetails.Card; card != nil {
		return card.Last4
	}
	return ""
}
