// Package assistant answers legal questions: it classifies the question,
// ranks the corpus, generates an answer, resolves the answer's citations, and
// scores how far the answer can be trusted.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/confidence"
	"github.com/hyperjump/qanoon/internal/config"
	"github.com/hyperjump/qanoon/internal/corpus"
	"github.com/hyperjump/qanoon/internal/entity"
	"github.com/hyperjump/qanoon/internal/intent"
	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/internal/ranking"
	"github.com/hyperjump/qanoon/internal/search"
	"github.com/hyperjump/qanoon/internal/storage"
	"github.com/hyperjump/qanoon/pkg/utils"
)

// ErrQuestionRequired is returned when the question is blank.
var ErrQuestionRequired = errors.New("question is required")

const (
	// candidateLimit is how many ranked documents the generator is given.
	candidateLimit = 3
	// fallbackDocuments is how many corpus documents stand in when nothing ranks.
	fallbackDocuments = 2
	excerptLength     = 200
)

// ContextLaw is the document the user was reading when asking.
type ContextLaw struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	Content        string `json:"content,omitempty"`
	LegalReference string `json:"legalReference,omitempty"`
}

// Request is a question to the assistant.
type Request struct {
	Question   string      `json:"question"`
	ContextLaw *ContextLaw `json:"contextLaw,omitempty"`
}

// Response is the assistant's answer.
type Response struct {
	Answer     string                         `json:"answer"`
	References []models.LawReference          `json:"references"`
	Intent     *intent.Intent                 `json:"intent,omitempty"`
	Confidence *confidence.ResponseConfidence `json:"confidence,omitempty"`
	// ReviewID is set when the answer was queued for human review.
	ReviewID string `json:"reviewId,omitempty"`
}

// Assistant sequences the query-understanding components around a generator.
type Assistant struct {
	store      *corpus.Store
	engine     *search.Engine
	extractor  *entity.Extractor
	classifier *intent.Classifier
	scorer     *confidence.Scorer
	generator  Generator
	fallback   Generator
	storage    storage.Storage
	config     *config.AssistantConfig
	logger     *zap.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithGenerator sets the answer generator. The heuristic generator is used
// when none is set and whenever the generator fails.
func WithGenerator(g Generator) Option {
	return func(a *Assistant) {
		a.generator = g
	}
}

// WithStorage enables feedback recording and the review queue.
func WithStorage(s storage.Storage) Option {
	return func(a *Assistant) {
		a.storage = s
	}
}

// WithScorer replaces the confidence scorer.
func WithScorer(s *confidence.Scorer) Option {
	return func(a *Assistant) {
		a.scorer = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// New creates an assistant over the corpus in store, ranked by engine.
func New(store *corpus.Store, engine *search.Engine, extractor *entity.Extractor, cfg *config.AssistantConfig, opts ...Option) *Assistant {
	if cfg == nil {
		cfg = &config.AssistantConfig{}
	}
	if extractor == nil {
		extractor = entity.NewExtractor(entity.NewDefaultTermRegistry())
	}
	a := &Assistant{
		store:      store,
		engine:     engine,
		extractor:  extractor,
		classifier: intent.NewClassifier(),
		scorer:     confidence.NewScorer(),
		fallback:   NewHeuristicGenerator(),
		config:     cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.generator == nil {
		a.generator = a.fallback
	}
	a.logger = utils.LoggerOrNop(a.logger)
	return a
}

// Classifier returns the intent classifier.
func (a *Assistant) Classifier() *intent.Classifier {
	return a.classifier
}

// Extractor returns the entity extractor.
func (a *Assistant) Extractor() *entity.Extractor {
	return a.extractor
}

// Scorer returns the confidence scorer.
func (a *Assistant) Scorer() *confidence.Scorer {
	return a.scorer
}

// Ask answers a question. Generator failures fall back to the heuristic
// answer; storage failures are logged and never fail the request. Ask fails
// only for a blank question or a cancelled context.
func (a *Assistant) Ask(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrQuestionRequired
	}
	question := utils.NormalizeText(req.Question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	in := a.classifier.Classify(question)
	ranked := a.engine.Rank(question, "")
	candidates := ranking.TopN(ranked, candidateLimit)

	answer := a.generate(ctx, &GenerateRequest{
		Question:  question,
		Intent:    in,
		Documents: a.sourceDocuments(candidates),
	})

	references := a.resolveReferences(answer, req.ContextLaw)
	conf := a.scorer.Score(question, foundDocuments(candidates), answerQuality(candidates, references))

	resp := &Response{
		Answer:     answer,
		References: references,
		Intent:     &in,
		Confidence: conf,
	}

	if in.SuggestedAction == intent.ActionAcknowledgeAndRecord {
		a.recordFeedback(ctx, question, in)
	}
	if a.config.ReviewQueueEnabled() && confidence.RequiresHumanReview(conf) {
		resp.ReviewID = a.enqueueReview(ctx, question, resp)
	}

	a.logger.Info("question answered",
		zap.String("intent", string(in.Type)),
		zap.String("category", in.Category),
		zap.Int("ranked", len(ranked)),
		zap.Int("references", len(references)),
		zap.String("confidence", string(conf.Level)))
	return resp, nil
}

func (a *Assistant) generate(ctx context.Context, req *GenerateRequest) string {
	answer, err := a.generator.Generate(ctx, req)
	if err == nil && strings.TrimSpace(answer) != "" {
		return answer
	}
	if err != nil {
		a.logger.Warn("answer generator failed, using heuristic answer", zap.Error(err))
	} else {
		a.logger.Warn("answer generator returned an empty answer, using heuristic answer")
	}
	answer, _ = a.fallback.Generate(ctx, req)
	return answer
}

// sourceDocuments returns the ranked documents, or the first corpus documents
// when nothing ranked.
func (a *Assistant) sourceDocuments(candidates []*models.SearchResult) []*models.Document {
	if len(candidates) == 0 {
		docs := a.store.Documents()
		if len(docs) > fallbackDocuments {
			docs = docs[:fallbackDocuments]
		}
		return docs
	}
	docs := make([]*models.Document, len(candidates))
	for i, r := range candidates {
		docs[i] = r.Document
	}
	return docs
}

// resolveReferences turns the answer's citation markers into references.
// Unknown ids are dropped. The context law, when it resolves, comes first and
// does not count toward the reference limit.
func (a *Assistant) resolveReferences(answer string, contextLaw *ContextLaw) []models.LawReference {
	snap := a.store.Snapshot()
	limit := a.config.ReferenceLimit()

	var contextID string
	references := make([]models.LawReference, 0)
	if contextLaw != nil {
		if doc, err := snap.Get(contextLaw.ID); err == nil {
			contextID = doc.ID
			references = append(references, lawReference(doc))
		}
	}

	cited := 0
	for _, id := range entity.CitationIDs(answer) {
		if limit > 0 && cited == limit {
			break
		}
		doc, err := snap.Get(id)
		if err != nil {
			continue
		}
		cited++
		if doc.ID == contextID {
			continue
		}
		references = append(references, lawReference(doc))
	}
	return references
}

func lawReference(doc *models.Document) models.LawReference {
	return models.LawReference{
		LawID:          doc.ID,
		Title:          doc.Title,
		LegalReference: doc.LegalReference,
		Excerpt:        utils.Prefix(doc.Content, excerptLength),
	}
}

func foundDocuments(results []*models.SearchResult) []confidence.FoundDocument {
	docs := make([]confidence.FoundDocument, len(results))
	for i, r := range results {
		docs[i] = confidence.FoundDocument{
			ID:          r.Document.ID,
			Score:       r.RelevanceScore.Unit(),
			LastUpdated: r.Document.LastUpdated,
		}
	}
	return docs
}

// answerQuality describes the answer: a direct match is a top result matched
// on its title; any other match type is semantic.
func answerQuality(results []*models.SearchResult, references []models.LawReference) confidence.Quality {
	q := confidence.Quality{
		MultipleMatches:    len(results) > 1,
		CitationsProvided:  len(references) > 0,
		DisclaimerIncluded: true,
	}
	if len(results) > 0 {
		q.HasDirectMatch = results[0].MatchType == models.MatchTitle
	}
	for _, r := range results {
		if r.MatchType != models.MatchTitle {
			q.HasSemanticMatch = true
			break
		}
	}
	return q
}

func (a *Assistant) recordFeedback(ctx context.Context, question string, in intent.Intent) {
	if a.storage == nil {
		return
	}
	err := a.storage.CreateFeedback(ctx, &models.Feedback{Message: question, Category: in.Category})
	if err != nil {
		a.logger.Warn("failed to record feedback", zap.Error(err))
	}
}

func (a *Assistant) enqueueReview(ctx context.Context, question string, resp *Response) string {
	if a.storage == nil {
		return ""
	}
	ids := make([]string, len(resp.References))
	for i, ref := range resp.References {
		ids[i] = ref.LawID
	}
	review := &models.Review{
		Question:        question,
		Answer:          resp.Answer,
		LawIDs:          ids,
		ConfidenceScore: resp.Confidence.OverallScore,
		ConfidenceLevel: string(resp.Confidence.Level),
	}
	if err := a.storage.CreateReview(ctx, review); err != nil {
		a.logger.Warn("failed to queue answer for review", zap.Error(err))
		return ""
	}
	return review.ID
}
