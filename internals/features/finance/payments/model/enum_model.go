package model

type PaymentStatus string
type PaymentGatewayProvider string
type GatewayEventStatus string

const (
	PaymentStatusInitiated         PaymentStatus = "initiated"
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusAwaitingCallback  PaymentStatus = "awaiting_callback"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusCanceled          PaymentStatus = "canceled"
	PaymentStatusExpired           PaymentStatus = "expired"
)

// IsOpen: masih menunggu pembayaran.
func (s PaymentStatus) IsOpen() bool {
	switch s {
	case PaymentStatusInitiated, PaymentStatusPending, PaymentStatusAwaitingCallback:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusInitiated, PaymentStatusPending, PaymentStatusAwaitingCallback,
		PaymentStatusPaid, PaymentStatusPartiallyRefunded, PaymentStatusRefunded,
		PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusExpired:
		return true
	}
	return false
}

const (
	GatewayProviderMidtrans PaymentGatewayProvider = "midtrans"
)

const (
	GatewayEventStatusReceived   GatewayEventStatus = "received"
	GatewayEventStatusProcessing GatewayEventStatus = "processing"
	GatewayEventStatusSuccess    GatewayEventStatus = "success"
	GatewayEventStatusFailed     GatewayEventStatus = "failed"
	GatewayEventStatusIgnored    GatewayEventStatus = "ignored"
)
