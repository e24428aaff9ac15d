package service

// PickupTicket is the payload encoded in an order pickup QR code.
type PickupTicket struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePickupQR renders a PNG QR code for picking up an order in store
	GeneratePickupQR(ticket PickupTicket) ([]byte, error)

	// ParsePickupQR decodes the text scanned from a pickup QR code
	ParsePickupQR(qrData string) (*PickupTicket, error)
}
