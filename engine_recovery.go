package authcore

import (
	"context"
	"fmt"

	"github.com/halcyonsec/authcore/internal"
)

// GenerateRecoveryCodes mints a fresh batch of single-use recovery codes
// for the owner, replacing any previous batch. The formatted plaintext is
// returned exactly once; only owner-bound SHA-256 hashes are persisted.
func (e *Engine) GenerateRecoveryCodes(ctx context.Context, ownerID string) ([]string, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if ownerID == "" {
		return nil, ErrUnauthorized
	}

	count := e.config.Recovery.CodeCount
	length := e.config.Recovery.CodeLength

	plain := make([]string, 0, count)
	records := make([]RecoveryCodeRecord, 0, count)
	for i := 0; i < count; i++ {
		code, err := internal.NewRecoveryCode(length)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecoveryUnavailable, err)
		}
		plain = append(plain, internal.FormatRecoveryCode(code))
		records = append(records, RecoveryCodeRecord{
			Hash: internal.RecoveryCodeHash(ownerID, code),
		})
	}

	if err := e.store.ReplaceRecoveryCodes(ctx, ownerID, records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecoveryUnavailable, err)
	}

	e.emitAudit(ctx, auditEventRecoveryCodesIssued, true, ownerID, "", "", nil, func() map[string]string {
		return map[string]string{"count": fmt.Sprintf("%d", count)}
	})

	return plain, nil
}

// VerifyRecoveryCode checks and consumes one recovery code. A code that
// has ever returned true returns false on every subsequent call; input
// formatting (case, hyphens, spaces) is ignored.
func (e *Engine) VerifyRecoveryCode(ctx context.Context, ownerID, code string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}
	if ownerID == "" {
		return false, ErrUnauthorized
	}
	return e.consumeRecoveryCode(ctx, ownerID, code)
}

func (e *Engine) consumeRecoveryCode(ctx context.Context, ownerID, code string) (bool, error) {
	canonical := internal.CanonicalizeRecoveryCode(code)
	if canonical == "" {
		return false, nil
	}

	ok, err := e.store.ConsumeRecoveryCode(ctx, ownerID, internal.RecoveryCodeHash(ownerID, canonical))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRecoveryUnavailable, err)
	}
	return ok, nil
}
