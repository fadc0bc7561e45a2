package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vaadbayit/reconciler/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Insert(m *domain.Message) error {
	_, err := r.db.Exec(
		`INSERT INTO messages
		(id, tenant_id, building_id, message_type, message_text, sent_at,
		 delivery_status, period_month, period_year, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.TenantID, m.BuildingID, string(m.Type), m.Text,
		formatNullableTime(m.SentAt), string(m.DeliveryStatus),
		m.PeriodMonth, m.PeriodYear, m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// MarkSent flips a pending message to sent with the current time.
func (r *MessageRepo) MarkSent(id string, sentAt time.Time) error {
	res, err := r.db.Exec(
		`UPDATE messages SET delivery_status = ?, sent_at = ? WHERE id = ?`,
		string(domain.DeliverySent), sentAt.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MessageRepo) ListByBuilding(buildingID string) ([]domain.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, tenant_id, building_id, message_type, message_text, sent_at,
		        delivery_status, period_month, period_year, created_at
		 FROM messages WHERE building_id = ? ORDER BY created_at DESC`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var msgType, status, createdAt string
		var sentAt sql.NullString
		var month, year sql.NullInt64

		err := rows.Scan(&m.ID, &m.TenantID, &m.BuildingID, &msgType, &m.Text,
			&sentAt, &status, &month, &year, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		m.Type = domain.MessageType(msgType)
		m.DeliveryStatus = domain.DeliveryStatus(status)
		m.SentAt = scanNullableTime(sentAt)
		m.PeriodMonth = int(month.Int64)
		m.PeriodYear = int(year.Int64)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
