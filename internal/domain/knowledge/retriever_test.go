package knowledge

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/roles"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeSearcher struct {
	chunks       []ChunkMatch
	chunksErr    error
	docsByCat    map[string][]Document
	docsErr      error
	chunkQueries []ChunkQuery
	docQueries   []DocumentQuery
}

func (f *fakeSearcher) MatchChunks(_ context.Context, q ChunkQuery) ([]ChunkMatch, error) {
	f.chunkQueries = append(f.chunkQueries, q)
	if f.chunksErr != nil {
		return nil, f.chunksErr
	}
	return f.chunks, nil
}

func (f *fakeSearcher) SearchDocumentsByRole(_ context.Context, q DocumentQuery) ([]Document, error) {
	f.docQueries = append(f.docQueries, q)
	if f.docsErr != nil {
		return nil, f.docsErr
	}
	return f.docsByCat[q.Category], nil
}

func newTestRetriever(searcher *fakeSearcher) *Retriever {
	return NewRetriever(&fakeEmbedder{}, searcher, RetrieverConfig{})
}

func TestRetrieveStewardFormatsCitations(t *testing.T) {
	searcher := &fakeSearcher{
		chunks: []ChunkMatch{
			{Content: "Клуб основан в 2023 году.", Path: "docs/about.md", ChunkIdx: 2, Similarity: 0.91},
			{Content: "Флот состоит из пяти яхт.", Path: "docs/fleet.md", ChunkIdx: 0, Similarity: 0.84},
		},
	}
	r := newTestRetriever(searcher)

	got := r.Retrieve(context.Background(), "Когда основан клуб?", assistant.TypeSteward, roles.TierPassenger, "ru")

	if got.ChunksUsed != 2 {
		t.Fatalf("ChunksUsed = %d, want 2", got.ChunksUsed)
	}
	if !strings.Contains(got.Context, "[1] Клуб основан в 2023 году.") {
		t.Errorf("context missing first numbered chunk:\n%s", got.Context)
	}
	if !strings.Contains(got.Context, "(Источник: docs/about.md, релевантность: 91%)") {
		t.Errorf("context missing source annotation:\n%s", got.Context)
	}
	if len(got.Citations) != 2 || got.Citations[0].DocID != "docs/about.md" || got.Citations[0].ChunkIdx != 2 {
		t.Errorf("citations = %+v", got.Citations)
	}
	if got.AccessLevel != "passenger" {
		t.Errorf("AccessLevel = %q, want passenger", got.AccessLevel)
	}
}

func TestRetrieveStewardRolesPassedThrough(t *testing.T) {
	searcher := &fakeSearcher{}
	r := newTestRetriever(searcher)

	r.Retrieve(context.Background(), "вопрос", assistant.TypeSteward, roles.TierSailor, "ru")

	if len(searcher.chunkQueries) != 1 {
		t.Fatalf("expected 1 chunk query, got %d", len(searcher.chunkQueries))
	}
	q := searcher.chunkQueries[0]
	if !reflect.DeepEqual(q.Roles, []string{"sailor", "public"}) {
		t.Errorf("roles = %v, want [sailor public]", q.Roles)
	}
	if q.MatchCount != 5 || q.MinSimilarity != 0.7 {
		t.Errorf("query bounds = %d/%v, want 5/0.7", q.MatchCount, q.MinSimilarity)
	}
}

func TestRetrieveByCategoryMergesDedupesAndTruncates(t *testing.T) {
	shared := Document{ID: "doc-1", Title: "Узлы", Content: "Булинь", Similarity: 0.95}
	searcher := &fakeSearcher{
		docsByCat: map[string][]Document{
			"sailing_basics": {shared, {ID: "doc-2", Title: "Паруса", Content: "Грот", Similarity: 0.75}},
			"navigation":     {shared, {ID: "doc-3", Title: "Карты", Content: "Лоции", Similarity: 0.85}},
			"weather":        {{ID: "doc-4", Title: "Ветер", Content: "Шкалы", Similarity: 0.72}},
			"equipment":      {{ID: "doc-5", Title: "Такелаж", Content: "Фалы", Similarity: 0.9}},
		},
	}
	r := newTestRetriever(searcher)

	got := r.Retrieve(context.Background(), "как вязать узлы", assistant.TypeNavigator, roles.TierPassenger, "ru")

	// 6 rows fetched, doc-1 deduped, top 3 by similarity kept.
	if got.ChunksUsed != 3 {
		t.Fatalf("ChunksUsed = %d, want 3", got.ChunksUsed)
	}
	wantOrder := []string{"doc-1", "doc-5", "doc-3"}
	for i, want := range wantOrder {
		if got.Citations[i].DocID != want {
			t.Errorf("citation %d = %q, want %q", i, got.Citations[i].DocID, want)
		}
	}
	if !strings.Contains(got.Context, "Контекст из базы знаний (уровень доступа: passenger):") {
		t.Errorf("context header missing:\n%s", got.Context)
	}
	if len(searcher.docQueries) != 4 {
		t.Errorf("expected one query per category, got %d", len(searcher.docQueries))
	}
	for _, q := range searcher.docQueries {
		if !reflect.DeepEqual(q.AccessibleRoles, []string{"public", "passenger"}) {
			t.Errorf("accessible roles = %v, want [public passenger]", q.AccessibleRoles)
		}
	}
}

func TestRetrieveEmbeddingErrorDegradesToEmpty(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewRetriever(&fakeEmbedder{err: errors.New("api down")}, searcher, RetrieverConfig{})

	got := r.Retrieve(context.Background(), "вопрос", assistant.TypeSteward, roles.TierInterested, "ru")

	if got.Context != "" || got.ChunksUsed != 0 || len(got.Citations) != 0 {
		t.Errorf("expected empty context on embedding failure, got %+v", got)
	}
	if len(searcher.chunkQueries) != 0 {
		t.Error("no search should run when embedding fails")
	}
}

func TestRetrieveSearchErrorDegradesToEmpty(t *testing.T) {
	r := newTestRetriever(&fakeSearcher{chunksErr: errors.New("db down")})

	got := r.Retrieve(context.Background(), "вопрос", assistant.TypeSteward, roles.TierInterested, "ru")

	if got.Context != "" || got.ChunksUsed != 0 {
		t.Errorf("expected empty context on search failure, got %+v", got)
	}
	if got.AccessLevel != "public" {
		t.Errorf("AccessLevel = %q, want public", got.AccessLevel)
	}
}

func TestRetrieveCategoryErrorDegradesToEmpty(t *testing.T) {
	r := newTestRetriever(&fakeSearcher{docsErr: errors.New("db down")})

	got := r.Retrieve(context.Background(), "вопрос", assistant.TypeNavigator, roles.TierInterested, "ru")

	if got.Context != "" || got.ChunksUsed != 0 {
		t.Errorf("expected empty context when every category fails, got %+v", got)
	}
}

func TestRetrieveEmptyQuestion(t *testing.T) {
	searcher := &fakeSearcher{}
	r := newTestRetriever(searcher)

	got := r.Retrieve(context.Background(), "   ", assistant.TypeSteward, roles.TierInterested, "ru")

	if got.ChunksUsed != 0 || len(searcher.chunkQueries) != 0 {
		t.Errorf("blank question must not trigger retrieval, got %+v", got)
	}
}
