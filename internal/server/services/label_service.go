package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/lucasmateusli/equiptrack/internal/server/storage"
)

// Label size bounds in pixels. The size query parameter is clamped into
// this range so a caller cannot request an arbitrarily large render.
const (
	defaultLabelSize = 256
	maxLabelSize     = 2048
)

// LabelService renders printable QR labels for equipment. The QR payload is
// "imei,iccid", the same line format the bulk importer accepts.
type LabelService struct {
	equipment storage.EquipmentStore
}

func NewLabelService(equipment storage.EquipmentStore) *LabelService {
	return &LabelService{equipment: equipment}
}

func (s *LabelService) RenderPNG(ctx context.Context, id uuid.UUID, size int) ([]byte, error) {
	item, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	if item == nil {
		return nil, storage.ErrNotFound
	}

	if size <= 0 {
		size = defaultLabelSize
	}
	if size > maxLabelSize {
		size = maxLabelSize
	}
	payload := fmt.Sprintf("%s,%s", item.IMEI, item.ICCID)
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR label: %w", err)
	}
	return png, nil
}
