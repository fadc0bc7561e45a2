package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vaadbayit/reconciler/internal/domain"
	"github.com/vaadbayit/reconciler/internal/payments"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/whatsapp"
)

// GenerateReminders renders a WhatsApp message per tenant for the period and
// stores it as pending. Tenants whose payment was received in full are
// skipped; the committee clicks the returned wa.me links to send.
func (h *Handlers) GenerateReminders(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")

	month, year, err := h.resolvePeriod(r, buildingID)
	if err != nil {
		if err == repository.ErrNotFound {
			writeError(w, http.StatusNotFound, "no bank statements found for this building")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	building, summary, err := h.buildingStatus(buildingID, month, year)
	if err != nil {
		notFoundOrError(w, err, "building")
		return
	}

	onlyUnpaid := r.URL.Query().Get("only_unpaid") != "false"
	period := formatPeriod(month, year)

	var rendered []map[string]any
	for _, status := range summary.Tenants {
		if onlyUnpaid && status.Status == payments.StatePaid {
			continue
		}
		if status.Phone == "" {
			continue
		}
		if !whatsapp.ValidatePhone(status.Phone) {
			rendered = append(rendered, map[string]any{
				"tenant_id":   status.TenantID,
				"tenant_name": status.TenantName,
				"phone":       status.Phone,
				"error":       "invalid phone number",
			})
			continue
		}

		kind := whatsapp.KindFor(status.PaidAmount, status.ExpectedAmount)
		if kind == whatsapp.KindReceived {
			// Paid in full; nothing to remind about.
			continue
		}

		text := whatsapp.Render(kind, whatsapp.ReminderParams{
			TenantName:      status.TenantName,
			BuildingName:    building.Name,
			ApartmentNumber: status.ApartmentNumber,
			Expected:        status.ExpectedAmount,
			Paid:            status.PaidAmount,
			Period:          period,
			Language:        status.Language,
		})

		message := &domain.Message{
			ID:             uuid.NewString(),
			TenantID:       status.TenantID,
			BuildingID:     buildingID,
			Type:           domain.MessageReminder,
			Text:           text,
			DeliveryStatus: domain.DeliveryPending,
			PeriodMonth:    month,
			PeriodYear:     year,
			CreatedAt:      time.Now().UTC(),
		}
		if err := h.messageRepo.Insert(message); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rendered = append(rendered, map[string]any{
			"message_id":       message.ID,
			"tenant_id":        status.TenantID,
			"tenant_name":      status.TenantName,
			"apartment_number": status.ApartmentNumber,
			"phone":            status.Phone,
			"message_type":     kind,
			"amount_due":       status.ExpectedAmount.Sub(status.PaidAmount),
			"whatsapp_link":    whatsapp.Link(status.Phone, text),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"building_id":    buildingID,
		"building_name":  building.Name,
		"period":         period,
		"total_messages": len(rendered),
		"messages":       rendered,
	})
}

func (h *Handlers) MarkMessageSent(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	sentAt := time.Now().UTC()

	if err := h.messageRepo.MarkSent(messageID, sentAt); err != nil {
		notFoundOrError(w, err, "message")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message_id": messageID,
		"status":     string(domain.DeliverySent),
		"sent_at":    sentAt.Format(time.RFC3339),
	})
}
