package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "bodega/internal/core/context"
	"bodega/internal/core/id"
	"bodega/internal/domain/movements"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRow is one persisted audit record.
type AuditRow struct {
	ID                id.ID           `db:"id" json:"id"`
	MovementID        id.ID           `db:"movement_id" json:"movementId"`
	MovementType      string          `db:"movement_type" json:"movementType"`
	Action            string          `db:"action" json:"action"`
	UserDNI           string          `db:"user_dni" json:"userDni"`
	Payload           json.RawMessage `db:"payload" json:"payload,omitempty"`
	PayloadCompressed []byte          `db:"payload_compressed" json:"-"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
}

// AuditService persists the movement audit trail. Record runs against
// the caller's transaction, so trail rows never outlive a rolled-back
// movement. Large payloads are zstd-compressed.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ movements.AuditLog = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements movements.AuditLog.
func (s *AuditService) Record(ctx context.Context, event movements.AuditEvent) error {
	row := AuditRow{
		ID:           id.New(),
		MovementID:   event.MovementID,
		MovementType: string(event.MovementType),
		Action:       string(event.Action),
		UserDNI:      event.UserDNI,
		CreatedAt:    time.Now().UTC(),
	}
	if row.UserDNI == "" {
		row.UserDNI = appctx.GetUserDNI(ctx)
	}

	payload, err := json.Marshal(event.Lines)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	row.CompressionAlgo = CompressionNone
	row.Payload = payload
	if len(payload) > s.compressThreshold {
		row.PayloadCompressed = s.encoder.EncodeAll(payload, nil)
		row.Payload = nil
		row.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO movement_audit (
			id, movement_id, movement_type, action, user_dni,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		row.ID, row.MovementID, row.MovementType, row.Action, row.UserDNI,
		row.Payload, row.PayloadCompressed, row.CompressionAlgo, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// History returns the trail for one movement, newest first, with
// compressed payloads inflated.
func (s *AuditService) History(ctx context.Context, movementID id.ID, limit int) ([]AuditRow, error) {
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT id, movement_id, movement_type, action, user_dni,
		       payload, payload_compressed, compression_algo, created_at
		FROM movement_audit
		WHERE movement_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, movementID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit rows: %w", err)
	}
	defer rows.Close()

	var out []AuditRow
	for rows.Next() {
		var row AuditRow
		if err := rows.Scan(
			&row.ID, &row.MovementID, &row.MovementType, &row.Action, &row.UserDNI,
			&row.Payload, &row.PayloadCompressed, &row.CompressionAlgo, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		if row.CompressionAlgo == CompressionZstd {
			payload, err := s.decoder.DecodeAll(row.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
			row.Payload = payload
			row.PayloadCompressed = nil
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
