package domain

import "time"

type MessageType string

const (
	MessageReminder     MessageType = "reminder"
	MessageConfirmation MessageType = "confirmation"
	MessageCustom       MessageType = "custom"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

type Message struct {
	ID             string         `json:"id"`
	TenantID       string         `json:"tenant_id"`
	BuildingID     string         `json:"building_id"`
	Type           MessageType    `json:"message_type"`
	Text           string         `json:"message_text"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	PeriodMonth    int            `json:"period_month,omitempty"`
	PeriodYear     int            `json:"period_year,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
