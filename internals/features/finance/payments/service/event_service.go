package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"elearning_backend/internals/features/finance/payments/model"
)

// LogGatewayEvent: simpan notifikasi mentah. rawBody dipakai apa adanya kalau JSON valid.
func LogGatewayEvent(ctx context.Context, db *gorm.DB, n Notification, headers map[string]string, rawBody []byte) (*model.PaymentGatewayEventModel, error) {
	headersJSON, _ := json.Marshal(headers)
	payload := rawBody
	if !json.Valid(payload) {
		payload, _ = json.Marshal(n)
	}

	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider:    model.GatewayProviderMidtrans,
		GatewayEventType:        strPtr(n.TransactionStatus),
		GatewayEventExternalID:  strPtr(n.OrderID),
		GatewayEventExternalRef: strPtr(n.TransactionID),
		GatewayEventHeaders:     datatypes.JSON(headersJSON),
		GatewayEventPayload:     datatypes.JSON(payload),
		GatewayEventSignature:   strPtr(n.SignatureKey),
		GatewayEventStatus:      model.GatewayEventStatusReceived,
	}
	if err := db.WithContext(ctx).Create(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// MarkGatewayEvent: status akhir event + payment terkait.
func MarkGatewayEvent(ctx context.Context, db *gorm.DB, eventID uuid.UUID, paymentID *uuid.UUID, status model.GatewayEventStatus, errMsg string) error {
	now := time.Now()
	updates := map[string]any{
		"gateway_event_status":       status,
		"gateway_event_error":        strPtr(errMsg),
		"gateway_event_processed_at": now,
	}
	if paymentID != nil {
		updates["gateway_event_payment_id"] = *paymentID
	}
	return db.WithContext(ctx).Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ?", eventID).
		Updates(updates).Error
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
