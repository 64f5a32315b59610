package recording

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/normalization"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type recordingGetterSrv struct {
	recs port.RecordingRepository
}

func NewRecordingGetter(recs port.RecordingRepository) port.RecordingGetter {
	return &recordingGetterSrv{recs: recs}
}

// GetRecording returns either variant; callers tell them apart by type.
func (s *recordingGetterSrv) GetRecording(ctx context.Context, id uuid.UUID) (model.Recording, error) {
	rec, err := s.recs.GetByID(ctx, id)
	if errors.Is(err, ErrRecordingNotFound) {
		return nil, newRecordingError(KindNonExistentID, StageQuery, id, err)
	}
	if err != nil {
		return nil, newRecordingError(KindDatabase, StageQuery, id, err)
	}
	return rec, nil
}

func (s *recordingGetterSrv) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error) {
	children, err := s.recs.ListChildren(ctx, parentID)
	if err != nil {
		return nil, newRecordingError(KindDatabase, StageQuery, parentID, err)
	}
	return children, nil
}

func (s *recordingGetterSrv) Count(ctx context.Context) (int64, error) {
	n, err := s.recs.CountActive(ctx)
	if err != nil {
		return 0, newError(KindDatabase, StageQuery, err)
	}
	return n, nil
}

func (s *recordingGetterSrv) Random(ctx context.Context, n int) ([]model.RecordingSummary, error) {
	out, err := s.recs.Random(ctx, n)
	if err != nil {
		return nil, newError(KindDatabase, StageQuery, err)
	}
	return out, nil
}

// NameAvailable compares in the stored, normalized form.
func (s *recordingGetterSrv) NameAvailable(ctx context.Context, name string) (bool, error) {
	taken, err := s.recs.NameExists(ctx, normalization.Normalize(name))
	if err != nil {
		return false, newError(KindDatabase, StageQuery, err)
	}
	return !taken, nil
}

type tokenGetterSrv struct {
	tokens port.TokenLedger
	keys   port.KeyRepository
}

func NewTokenGetter(tokens port.TokenLedger, keys port.KeyRepository) port.TokenGetter {
	return &tokenGetterSrv{tokens: tokens, keys: keys}
}

func (s *tokenGetterSrv) GetToken(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	t, err := s.tokens.Retrieve(ctx, id)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, newError(KindNonExistentID, StageQuery, err)
	}
	if err != nil {
		return nil, newError(KindDatabase, StageQuery, err)
	}
	return t, nil
}

// Lookup resolves a management key to its recording and the tokens still
// open for replies to it.
func (s *tokenGetterSrv) Lookup(ctx context.Context, key uuid.UUID) (*port.LookupOutput, error) {
	id, err := s.keys.FindRecordingByKey(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, newError(KindNonExistentID, StageQuery, err)
	}
	if err != nil {
		return nil, newError(KindDatabase, StageQuery, err)
	}

	tokens, err := s.tokens.ListByParent(ctx, id)
	if err != nil {
		return nil, newRecordingError(KindDatabase, StageQuery, id, err)
	}
	return &port.LookupOutput{ID: id, Tokens: tokens}, nil
}

const formatsCacheKey = "formats"

type labelListerSrv struct {
	labels port.LabelRepository
	mimes  port.MimeTypeRepository
	cache  port.Cache
}

func NewLabelLister(labels port.LabelRepository, mimes port.MimeTypeRepository, cache port.Cache) port.LabelLister {
	return &labelListerSrv{labels: labels, mimes: mimes, cache: cache}
}

func (s *labelListerSrv) ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error) {
	key := "labels:" + string(kind)
	var cached []model.Label
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	labels, err := s.labels.ListLabels(ctx, kind)
	if err != nil {
		return nil, newError(KindDatabase, StageQuery, err)
	}
	s.toCache(ctx, key, labels)
	return labels, nil
}

// ListFormats returns the distinct MIME essences of the catalogue.
func (s *labelListerSrv) ListFormats(ctx context.Context) ([]string, error) {
	var cached []string
	if s.fromCache(ctx, formatsCacheKey, &cached) {
		return cached, nil
	}

	mimes, err := s.mimes.ListMimeTypes(ctx)
	if err != nil {
		return nil, newError(KindDatabase, StageQuery, err)
	}
	seen := map[string]bool{}
	out := []string{}
	for _, m := range mimes {
		if !seen[m.Essence] {
			seen[m.Essence] = true
			out = append(out, m.Essence)
		}
	}
	s.toCache(ctx, formatsCacheKey, out)
	return out, nil
}

func (s *labelListerSrv) fromCache(ctx context.Context, key string, dst any) bool {
	data, err := s.cache.GetLabels(ctx, key)
	if err != nil {
		logger.Warn(ctx, "label cache read failed", "key", key, "error", err)
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn(ctx, "label cache entry is corrupt", "key", key, "error", err)
		if err := s.cache.DeleteLabels(ctx, key); err != nil {
			logger.Warn(ctx, "failed to drop corrupt cache entry", "key", key, "error", err)
		}
		return false
	}
	return true
}

func (s *labelListerSrv) toCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn(ctx, "failed to encode labels for cache", "key", key, "error", err)
		return
	}
	s.cache.SetLabels(ctx, key, data)
}

type tokenIssuerSrv struct {
	tokens port.TokenLedger
	recs   port.RecordingRepository
}

func NewTokenIssuer(tokens port.TokenLedger, recs port.RecordingRepository) port.TokenIssuer {
	return &tokenIssuerSrv{tokens: tokens, recs: recs}
}

// IssueTokens creates n tokens for an active recording, or root tokens when
// parentID is nil.
func (s *tokenIssuerSrv) IssueTokens(ctx context.Context, parentID *uuid.UUID, n int) ([]uuid.UUID, error) {
	if parentID != nil {
		rec, err := s.recs.GetByID(ctx, *parentID)
		switch {
		case errors.Is(err, ErrRecordingNotFound):
			return nil, newRecordingError(KindNonExistentID, StageChildTokens, *parentID, err)
		case err != nil:
			return nil, newRecordingError(KindDatabase, StageChildTokens, *parentID, err)
		}
		if _, deleted := rec.(*model.DeletedRecording); deleted {
			return nil, newRecordingError(KindAlreadyDeleted, StageChildTokens, *parentID, nil)
		}
	}

	out := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		t, err := s.tokens.Create(ctx, parentID)
		if err != nil {
			return out, newError(KindDatabase, StageChildTokens, err)
		}
		out = append(out, t)
	}
	return out, nil
}
