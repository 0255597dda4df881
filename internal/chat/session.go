// internal/chat/session.go
// Package chat coordinates one conversation session: index-on-demand, then
// question -> retrieve -> compose -> generate -> transcript.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/ingest"
	"github.com/mwiater/repochat/internal/logging"
	"github.com/mwiater/repochat/internal/providers"
	"github.com/mwiater/repochat/internal/rag"
)

// State is the session's position in its lifecycle.
type State int

const (
	// StateIdle means no repository index is registered for this session.
	StateIdle State = iota
	// StateIndexed means a repository is indexed and questions can be asked.
	StateIndexed
	// StateAwaitingAnswer means a question is in flight.
	StateAwaitingAnswer
)

// Message roles in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry, appended in strict chronological order.
type Message struct {
	Role    string
	Content string
}

// User-facing notices. NoticeNotIndexed is the one failure with a distinct
// message; every other ask-time failure collapses to NoticeFailure with the
// detail going to the log only.
const (
	NoticeNotIndexed = "Load a repository first."
	NoticeFailure    = "Sorry, something went wrong."
)

// Session is the conversation controller for one user session. Commands
// run one at a time, but a UI may read the transcript and state while a
// Load or Ask is in flight, so the mutable fields are mutex-guarded. The
// mutex is never held across a fetch, embed, or generate call. Concurrent
// sessions each get their own Session sharing the registry and providers.
type Session struct {
	id        string
	cfg       *appconfig.Config
	fetcher   ingest.Fetcher
	embedder  providers.Embedder
	generator providers.Generator
	registry  *rag.Registry
	retriever *rag.Retriever

	mu         sync.Mutex
	state      State
	key        rag.RepositoryKey
	model      string
	transcript []Message
}

// NewSession creates an idle session with a fresh identity.
func NewSession(cfg *appconfig.Config, fetcher ingest.Fetcher, embedder providers.Embedder, generator providers.Generator, registry *rag.Registry) *Session {
	return &Session{
		id:        uuid.New().String(),
		cfg:       cfg,
		fetcher:   fetcher,
		embedder:  embedder,
		generator: generator,
		registry:  registry,
		retriever: rag.NewRetriever(embedder, registry),
		state:     StateIdle,
	}
}

// ID returns the session identity.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Load fetches the repository, builds its index, registers it under this
// session, and confirms the generation model. Any failure leaves the state,
// the registry, and any previously registered index for the same key
// untouched. A successful load empties the transcript and moves the session
// to StateIndexed. Re-loading the same repository replaces its index
// wholesale.
func (s *Session) Load(ctx context.Context, repoURL, model string) error {
	if !ingest.ValidURL(repoURL) {
		return fmt.Errorf("%w: %s", ingest.ErrInvalidURL, repoURL)
	}

	text, err := s.fetcher.Fetch(ctx, repoURL)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ingest.ErrEmptyCorpus
	}

	index, chunks, err := rag.BuildCorpusIndex(ctx, s.embedder, text, s.cfg.ChunkSize())
	if err != nil {
		return err
	}

	if err := s.generator.EnsureModelReady(ctx, model); err != nil {
		return err
	}

	key := rag.KeyFor(s.id, ingest.RepoName(repoURL))
	s.registry.Put(key, index, chunks)

	s.mu.Lock()
	s.key = key
	s.model = model
	s.state = StateIndexed
	s.transcript = nil
	s.mu.Unlock()
	logging.LogEvent("indexed %s: %d chunks, dimension %d", ingest.RepoName(repoURL), index.Len(), index.Dimension())
	return nil
}

// Ask records the question, answers it against the indexed repository, and
// returns the text to display. The user message is always appended, even
// when answering fails; the assistant message is appended only on success.
// Failures are recovered here into a notice string so the session stays
// usable.
func (s *Session) Ask(ctx context.Context, question string) string {
	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleUser, Content: question})
	prev := s.state
	s.state = StateAwaitingAnswer
	key := s.key
	model := s.model
	s.mu.Unlock()

	restore := func() {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
	}

	passages, err := s.retriever.Retrieve(ctx, key, question, s.cfg.RetrievalTopK())
	if err != nil {
		restore()
		if errors.Is(err, rag.ErrNotIndexed) {
			return NoticeNotIndexed
		}
		logging.LogEvent("ask failed during retrieval: %v", err)
		return NoticeFailure
	}

	prompt := rag.NewPrompt(rag.DefaultInstructions).
		Examples(rag.DefaultExamples).
		Context(passages).
		Question(question).
		Build()

	answer, err := s.generator.Generate(ctx, model, prompt, providers.FromParameters(s.cfg.Parameters))
	if err != nil {
		restore()
		logging.LogEvent("ask failed during generation: %v", err)
		return NoticeFailure
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleAssistant, Content: answer})
	s.state = StateIndexed
	s.mu.Unlock()
	return answer
}

// ClearTranscript empties the conversation. The index is untouched; clearing
// chat does not invalidate it.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
}

// Close tears down the session's registry entries. Other sessions are
// unaffected.
func (s *Session) Close() {
	s.registry.ClearSession(s.id)
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}
