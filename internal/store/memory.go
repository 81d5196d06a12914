package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
)

// NeedBoard is the in-process need listing. Needs are kept in seed order and
// every read hands out a deep copy.
type NeedBoard struct {
	mu    sync.RWMutex
	order []string
	needs map[string]domain.Need
}

func NewNeedBoard(seed []domain.Need) *NeedBoard {
	b := &NeedBoard{needs: make(map[string]domain.Need, len(seed))}
	for _, n := range seed {
		if _, dup := b.needs[n.ID]; dup {
			continue
		}
		b.order = append(b.order, n.ID)
		b.needs[n.ID] = n.Clone()
	}
	return b
}

func (b *NeedBoard) List(_ context.Context, filter domain.NeedFilter) ([]domain.Need, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Need, 0, len(b.order))
	for _, id := range b.order {
		n := b.needs[id]
		if filter.Matches(n) {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (b *NeedBoard) Get(_ context.Context, id string) (domain.Need, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.needs[id]
	if !ok {
		return domain.Need{}, fmt.Errorf("need %q: %w", id, domain.ErrNotFound)
	}
	return n.Clone(), nil
}

// RecordDonation applies the donation under the write lock so concurrent
// donations to the same need are never lost.
func (b *NeedBoard) RecordDonation(_ context.Context, needID string, donation domain.Donation) (domain.Need, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.needs[needID]
	if !ok {
		return domain.Need{}, fmt.Errorf("need %q: %w", needID, domain.ErrNotFound)
	}
	n = n.Clone()
	if err := n.ApplyDonation(donation); err != nil {
		return domain.Need{}, err
	}
	b.needs[needID] = n
	return n.Clone(), nil
}

func (b *NeedBoard) SetSummary(_ context.Context, needID, summary string) (domain.Need, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.needs[needID]
	if !ok {
		return domain.Need{}, fmt.Errorf("need %q: %w", needID, domain.ErrNotFound)
	}
	n.Summary = summary
	b.needs[needID] = n
	return n.Clone(), nil
}

// Transcripts keeps chat history per session. A session that has never been
// written to reads as just the greeting. Turns on one session are serialized
// by Exchange; different sessions never wait on each other.
type Transcripts struct {
	mu       sync.RWMutex
	greeting []domain.ChatMessage
	sessions map[string]domain.Transcript
	turns    map[string]*turnLock
}

// turnLock is a per-session semaphore, dropped once nobody holds or waits on it.
type turnLock struct {
	sem  chan struct{}
	refs int
}

func NewTranscripts(greeting ...domain.ChatMessage) *Transcripts {
	return &Transcripts{
		greeting: append([]domain.ChatMessage(nil), greeting...),
		sessions: make(map[string]domain.Transcript),
		turns:    make(map[string]*turnLock),
	}
}

func (t *Transcripts) Transcript(_ context.Context, sessionID string) (domain.Transcript, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current(sessionID), nil
}

func (t *Transcripts) Append(_ context.Context, sessionID string, msgs ...domain.ChatMessage) (domain.Transcript, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr := t.current(sessionID).Append(msgs...)
	t.sessions[sessionID] = tr
	return tr.Append(), nil
}

// Exchange runs one chat turn: turn sees the session's transcript and the
// messages it returns are appended before the next turn on that session may
// start. It gives up with the context error while waiting for its turn.
func (t *Transcripts) Exchange(ctx context.Context, sessionID string, turn func(history domain.Transcript) []domain.ChatMessage) (domain.Transcript, error) {
	release, err := t.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	history, err := t.Transcript(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return t.Append(ctx, sessionID, turn(history)...)
}

// current must be called with mu held.
func (t *Transcripts) current(sessionID string) domain.Transcript {
	if tr, ok := t.sessions[sessionID]; ok {
		return tr.Append()
	}
	return domain.Transcript(nil).Append(t.greeting...)
}

func (t *Transcripts) acquire(ctx context.Context, sessionID string) (func(), error) {
	t.mu.Lock()
	l, ok := t.turns[sessionID]
	if !ok {
		l = &turnLock{sem: make(chan struct{}, 1)}
		t.turns[sessionID] = l
	}
	l.refs++
	t.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		t.forget(sessionID, l)
		return nil, fmt.Errorf("wait for chat turn: %w", ctx.Err())
	}
	return func() {
		<-l.sem
		t.forget(sessionID, l)
	}, nil
}

func (t *Transcripts) forget(sessionID string, l *turnLock) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(t.turns, sessionID)
	}
}

var (
	_ domain.NeedRepository       = (*NeedBoard)(nil)
	_ domain.TranscriptRepository = (*Transcripts)(nil)
)
