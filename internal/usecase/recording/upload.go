package recording

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

const (
	maxInsertAttempts = 3
	releaseTimeout    = 10 * time.Second
)

// UploadConfig holds the knobs of the upload saga.
type UploadConfig struct {
	TokensPerRecording int
	// AllowDegradedTokens turns failures to issue child tokens or the lookup
	// key into a successful response carrying what could be issued.
	AllowDegradedTokens bool
}

// UploadSaga turns a submission into a stored recording, consuming the
// submitted token and issuing the next ones.
type UploadSaga struct {
	tokens    port.TokenLedger
	inspector port.AudioInspector
	resolver  port.MimeTypeResolver
	recs      port.RecordingRepository
	store     port.ObjectStore
	keys      port.KeyRepository
	tasks     port.TaskDispatcher
	newID     port.UUIDGen
	cfg       UploadConfig

	// background token releases
	wg sync.WaitGroup
}

// compile-time check: *UploadSaga must satisfy port.Uploader
var _ port.Uploader = (*UploadSaga)(nil)

func NewUploadSaga(
	tokens port.TokenLedger,
	inspector port.AudioInspector,
	resolver port.MimeTypeResolver,
	recs port.RecordingRepository,
	store port.ObjectStore,
	keys port.KeyRepository,
	tasks port.TaskDispatcher,
	cfg UploadConfig,
) *UploadSaga {
	return &UploadSaga{
		tokens:    tokens,
		inspector: inspector,
		resolver:  resolver,
		recs:      recs,
		store:     store,
		keys:      keys,
		tasks:     tasks,
		newID:     uuid.NewUUID,
		cfg:       cfg,
	}
}

// Wait blocks until every background token release has finished.
func (s *UploadSaga) Wait() {
	s.wg.Wait()
}

func (s *UploadSaga) Upload(ctx context.Context, sub port.Submission) (out *port.UploadOutput, err error) {
	degraded := false
	defer func() {
		switch {
		case err != nil:
			metrics.UploadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			var e *Error
			if errors.As(err, &e) {
				metrics.UploadFailuresTotal.WithLabelValues(string(e.Stage)).Inc()
			}
		case degraded:
			metrics.UploadsTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
		default:
			metrics.UploadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		}
	}()

	meta, err := DecodeMetadata(sub.Metadata)
	if err != nil {
		return nil, err
	}
	token := meta.Token

	logger.Debug(ctx, "locking token", "token", token)
	parentID, err := s.tokens.Lock(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, newError(KindInvalidToken, StageTokenLock, err)
		}
		return nil, newError(KindDatabase, StageTokenLock, err)
	}

	mime, err := s.verifyAudio(ctx, sub.Audio)
	if err != nil {
		s.releaseToken(ctx, token)
		return nil, err
	}

	id, err := s.insert(ctx, parentID, *meta)
	if err != nil {
		s.releaseToken(ctx, token)
		return nil, err
	}
	logger.Debug(ctx, "recording row created", "id", id, "parent_id", parentID, "token", token)

	// The row exists from here on: failures keep it and report it.
	if err := s.store.Save(ctx, id, mime.Essence, sub.Audio); err != nil {
		return nil, s.orphaned(ctx, token, newRecordingError(KindUploadFailed, StageObjectStore, id, err))
	}

	url, err := s.store.URLFor(id)
	if err != nil {
		return nil, s.orphaned(ctx, token, newRecordingError(KindFailedToGenerateURL, StageURLLink, id, err))
	}
	if err := s.recs.UpdateURL(ctx, id, url, mime.ID); err != nil {
		return nil, s.orphaned(ctx, token, newRecordingError(KindDatabase, StageURLLink, id, err))
	}

	if err := s.tokens.Remove(ctx, token); err != nil {
		return nil, s.orphaned(ctx, token, newRecordingError(KindDatabase, StageParentTokenRetire, id, err))
	}

	children, err := s.issueChildren(ctx, id)
	if err != nil {
		if !s.cfg.AllowDegradedTokens {
			return nil, s.incomplete(ctx, newRecordingError(KindDatabase, StageChildTokens, id, err))
		}
		degraded = true
		logger.Warn(ctx, "child tokens only partially issued", "id", id, "issued", len(children), "error", err)
	}

	key, err := s.keys.CreateKey(ctx, id, meta.Email)
	out = &port.UploadOutput{ID: id, Tokens: children}
	if err != nil {
		if !s.cfg.AllowDegradedTokens {
			return nil, s.incomplete(ctx, newRecordingError(KindDatabase, StageLookupKey, id, err))
		}
		degraded = true
		logger.Warn(ctx, "lookup key not issued", "id", id, "error", err)
	} else {
		out.Key = &key
	}

	logger.Info(ctx, "recording uploaded", "id", id, "parent_id", parentID, "mime_type", mime.Essence, "tokens", len(children))
	return out, nil
}

// verifyAudio picks the first candidate format that is in the catalogue.
func (s *UploadSaga) verifyAudio(ctx context.Context, audio []byte) (*model.MimeType, error) {
	formats, err := s.inspector.Identify(ctx, audio)
	if err != nil {
		return nil, newError(inspectorKind(err), StageAudioVerify, err)
	}
	if len(formats) == 0 {
		return nil, newError(KindUnrecognizedAudioFormat, StageAudioVerify, nil)
	}

	for _, f := range formats {
		m, err := s.resolver.Resolve(ctx, f)
		if errors.Is(err, ErrMimeTypeNotFound) {
			continue
		}
		if err != nil {
			return nil, newError(KindDatabase, StageAudioVerify, err)
		}
		logger.Debug(ctx, "audio verified", "format", f.String(), "mime_type", m.Essence)
		return m, nil
	}
	return nil, newError(KindInvalidAudioFormat, StageAudioVerify, fmt.Errorf("unsupported format %s", formats[0]))
}

func inspectorKind(err error) Kind {
	var streams *TooManyStreamsError
	switch {
	case errors.As(err, &streams):
		return KindTooManyStreams
	case errors.Is(err, ErrProbeMissing):
		return KindProbeMissing
	case errors.Is(err, ErrMalformedProbeOutput):
		return KindMalformedProbeOutput
	case errors.Is(err, ErrTemporaryFile):
		return KindTemporaryFile
	default:
		return KindProbeFailed
	}
}

// insert retries with a fresh id when the generated one collides. Name
// conflicts are never retried.
func (s *UploadSaga) insert(ctx context.Context, parentID *uuid.UUID, meta model.UploadMetadata) (uuid.UUID, error) {
	var err error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		id := s.newID()
		err = s.recs.Insert(ctx, model.NewRecording{ID: id, ParentID: parentID, Metadata: meta})
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, ErrNameConflict):
			return uuid.Nil, newError(KindNameAlreadyExists, StageMetadataInsert, err)
		case errors.Is(err, ErrUnknownLabel):
			return uuid.Nil, newError(KindInvalidMetadata, StageMetadataInsert, err)
		case errors.Is(err, ErrIDConflict):
			logger.Warn(ctx, "recording id collision, retrying", "id", id, "attempt", attempt)
			continue
		default:
			return uuid.Nil, newError(KindDatabase, StageMetadataInsert, err)
		}
	}
	return uuid.Nil, newError(KindIDAlreadyExists, StageMetadataInsert, err)
}

// issueChildren returns the tokens created before any failure along with it.
func (s *UploadSaga) issueChildren(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, s.cfg.TokensPerRecording)
	for i := 0; i < s.cfg.TokensPerRecording; i++ {
		t, err := s.tokens.Create(ctx, &id)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

// releaseToken unlocks the token in the background so the error response is
// not held up. Its failure is only logged.
func (s *UploadSaga) releaseToken(ctx context.Context, token uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		if err := s.tokens.Release(ctx, token); err != nil {
			metrics.CompensationFailuresTotal.Inc()
			logger.Error(ctx, "failed to release token", "token", token, "error", err)
			return
		}
		logger.Debug(ctx, "token released", "token", token)
	}()
}

// incomplete reports a recording that is stored, linked and owns its consumed
// token, but whose follow-up tokens could not all be issued. The recording
// stays valid, so it is not reported as an orphan.
func (s *UploadSaga) incomplete(ctx context.Context, e *Error) error {
	logger.Error(ctx, "recording stored but its tokens were not issued",
		"id", e.ID, "stage", e.Stage, "error", e.Err)
	return e
}

// orphaned reports a recording row left behind by a failed upload and
// returns e unchanged.
func (s *UploadSaga) orphaned(ctx context.Context, token uuid.UUID, e *Error) error {
	metrics.OrphanedTotal.Inc()
	logger.Error(ctx, "upload failed after the recording row was created",
		"id", e.ID, "token", token, "stage", e.Stage, "error", e.Err)

	if err := s.tasks.EnqueueOrphanedRecording(context.WithoutCancel(ctx), *e.ID, token, string(e.Stage), e.Error()); err != nil {
		logger.Error(ctx, "failed to enqueue orphaned recording", "id", e.ID, "error", err)
	}
	return e
}
