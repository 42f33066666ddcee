package payment

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// Repository records every inbound webhook delivery. The digest-keyed
// ON CONFLICT insert gives at-least-once deliveries an audit trail and a
// cheap duplicate pre-filter ahead of the orders-table uniqueness guard.
// A redelivery is reported processed only when the earlier delivery ran to
// completion; a retry after a failed attempt must be handled again.
type Repository interface {
	SaveWebhookEvent(
		ctx context.Context,
		provider string,
		eventType string,
		reference string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, alreadyProcessed bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveWebhookEvent(
	ctx context.Context,
	provider string,
	eventType string,
	reference string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	digest := sha256.Sum256(payload)

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_type,
		reference,
		payload_digest,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (provider, payload_digest)
	DO NOTHING
	RETURNING id;
	`

	digestHex := hex.EncodeToString(digest[:])

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		eventType,
		reference,
		digestHex,
		signatureValid,
		payload,
	).Scan(&id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict with an earlier delivery of the same payload. Only a
			// processed_at stamp makes it terminal: a gateway retry after a
			// failed attempt still has work to do.
			const existing = `
			SELECT id, processed_at IS NOT NULL
			FROM payment_webhooks
			WHERE provider = $1 AND payload_digest = $2;
			`

			var processed bool
			if err := r.db.QueryRowContext(ctx, existing, provider, digestHex).Scan(&id, &processed); err != nil {
				return 0, false, err
			}
			return id, processed, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `
	UPDATE payment_webhooks
	SET processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `
	UPDATE payment_webhooks
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}
