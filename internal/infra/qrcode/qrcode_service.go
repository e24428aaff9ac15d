package qrcode

import (
	"encoding/json"
	"fmt"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const (
	pickupType  = "order_pickup"
	defaultSize = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	OrderID int64  `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Type    string `json:"type"`
}

// New builds the QR code service from configuration.
func New(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePickupQR generates a PNG QR code the customer shows at the store counter
func (s *qrcodeService) GeneratePickupQR(ticket service.PickupTicket) ([]byte, error) {
	data := QRCodeData{
		OrderID: ticket.OrderID,
		UserID:  ticket.UserID,
		Type:    pickupType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePickupQR parses scanned QR code text back into a pickup ticket
func (s *qrcodeService) ParsePickupQR(qrData string) (*service.PickupTicket, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != pickupType {
		return nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	if data.OrderID <= 0 || data.UserID <= 0 {
		return nil, fmt.Errorf("invalid pickup ticket: order %d, user %d", data.OrderID, data.UserID)
	}

	return &service.PickupTicket{OrderID: data.OrderID, UserID: data.UserID}, nil
}
