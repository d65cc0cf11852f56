package authcore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/halcyonsec/authcore/internal"
	"github.com/redis/go-redis/v9"
)

const challengeRecordVersion1 = 1

var (
	errChallengeExpired = errors.New("challenge expired")
	errChallengeBackend = errors.New("challenge backend unavailable")
)

type challengeRecord struct {
	OwnerID   string
	Purpose   ChallengePurpose
	ExpiresAt int64
}

// challengeStore persists single-use ceremony challenges in Redis, keyed
// by the SHA-256 digest of the raw value. Consumption deletes the record
// inside a WATCH transaction so at most one concurrent consumer succeeds.
type challengeStore struct {
	redis  redis.UniversalClient
	config ChallengeConfig
}

func newChallengeStore(redisClient redis.UniversalClient, cfg ChallengeConfig) *challengeStore {
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "acch"
	}
	return &challengeStore{redis: redisClient, config: cfg}
}

func (s *challengeStore) key(value []byte) string {
	return s.config.RedisPrefix + ":" + internal.ChallengeKeyDigest(value)
}

// Issue generates a fresh challenge value for ownerID (empty for anonymous
// ceremonies) and persists it with the configured TTL.
func (s *challengeStore) Issue(ctx context.Context, ownerID string, purpose ChallengePurpose) ([]byte, error) {
	value, err := internal.NewChallengeValue(s.config.ValueSize)
	if err != nil {
		return nil, err
	}

	record := &challengeRecord{
		OwnerID:   ownerID,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.config.TTL).Unix(),
	}
	encoded, err := encodeChallengeRecord(record)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, s.key(value), encoded, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errChallengeBackend, err)
	}
	return value, nil
}

// Consume atomically destroys the matching unexpired challenge. It returns
// false for any mismatch (unknown value, wrong owner, wrong purpose,
// expired, already consumed); an error only means the backend was
// unreachable. A mismatched owner or purpose leaves the record intact.
func (s *challengeStore) Consume(ctx context.Context, ownerID string, value []byte, purpose ChallengePurpose) (bool, error) {
	const maxRetries = 4
	key := s.key(value)

	for i := 0; i < maxRetries; i++ {
		var consumed bool
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeChallengeRecord(data)
			if err != nil {
				return err
			}
			if time.Now().Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return errChallengeExpired
			}
			if record.OwnerID != ownerID || record.Purpose != purpose {
				// Leave the challenge for its rightful consumer.
				consumed = false
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}
			consumed = true
			return nil
		}, key)

		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, errChallengeExpired) {
				return false, nil
			}
			return false, fmt.Errorf("%w: %v", errChallengeBackend, err)
		}
		return consumed, nil
	}

	// Contention exhausted the retry budget: another consumer won.
	return false, nil
}

func encodeChallengeRecord(record *challengeRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(challengeRecordVersion1)

	if err := binary.Write(&buf, binary.BigEndian, record.ExpiresAt); err != nil {
		return nil, err
	}

	if len(record.OwnerID) > 65535 || len(record.Purpose) > 65535 {
		return nil, errors.New("challenge field length exceeded")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.OwnerID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.OwnerID)
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Purpose))); err != nil {
		return nil, err
	}
	buf.WriteString(string(record.Purpose))

	return buf.Bytes(), nil
}

func decodeChallengeRecord(data []byte) (*challengeRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != challengeRecordVersion1 {
		return nil, errors.New("invalid challenge record version")
	}

	record := &challengeRecord{}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}

	var ownerLen uint16
	if err := binary.Read(reader, binary.BigEndian, &ownerLen); err != nil {
		return nil, err
	}
	owner := make([]byte, ownerLen)
	if _, err := io.ReadFull(reader, owner); err != nil {
		return nil, err
	}
	record.OwnerID = string(owner)

	var purposeLen uint16
	if err := binary.Read(reader, binary.BigEndian, &purposeLen); err != nil {
		return nil, err
	}
	purpose := make([]byte, purposeLen)
	if _, err := io.ReadFull(reader, purpose); err != nil {
		return nil, err
	}
	record.Purpose = ChallengePurpose(purpose)

	return record, nil
}
