package qrcode

import (
	"encoding/json"
	"testing"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, svc)
		})
	}
}

func TestNew_FromConfig(t *testing.T) {
	assert.NotNil(t, New(&config.Config{}))
	assert.NotNil(t, New(&config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "H"}}))
}

func TestQRCodeService_GeneratePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	qrBytes, err := svc.GeneratePickupQR(service.PickupTicket{OrderID: 12, UserID: 3})
	require.NoError(t, err)
	require.Greater(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_ParsePickupQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	tests := []struct {
		name    string
		payload string
		want    *service.PickupTicket
		wantErr string
	}{
		{
			name:    "valid ticket",
			payload: mustJSON(t, QRCodeData{OrderID: 12, UserID: 3, Type: pickupType}),
			want:    &service.PickupTicket{OrderID: 12, UserID: 3},
		},
		{
			name:    "invalid json",
			payload: "invalid json",
			wantErr: "failed to unmarshal QR code data",
		},
		{
			name:    "wrong type",
			payload: mustJSON(t, QRCodeData{OrderID: 12, UserID: 3, Type: "subscription"}),
			wantErr: "invalid QR code type",
		},
		{
			name:    "missing order",
			payload: mustJSON(t, QRCodeData{UserID: 3, Type: pickupType}),
			wantErr: "invalid pickup ticket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := svc.ParsePickupQR(tt.payload)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, ticket)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ticket)
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	return string(b)
}
