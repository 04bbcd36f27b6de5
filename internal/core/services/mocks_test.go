package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
	"github.com/synqanun/synqanun-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockConnector implements driven.Connector over an in-memory corpus.
type mockConnector struct {
	files       map[domain.DocType]map[string]string
	validateErr error
	listErr     error
	fetchErrs   map[string]error
}

func newMockConnector() *mockConnector {
	return &mockConnector{
		files:     make(map[domain.DocType]map[string]string),
		fetchErrs: make(map[string]error),
	}
}

func (m *mockConnector) add(docType domain.DocType, path, content string) {
	if m.files[docType] == nil {
		m.files[docType] = make(map[string]string)
	}
	m.files[docType][path] = content
}

func (m *mockConnector) Validate(_ context.Context) error {
	return m.validateErr
}

func (m *mockConnector) List(_ context.Context, docType domain.DocType) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	paths := make([]string, 0, len(m.files[docType]))
	for p := range m.files[docType] {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *mockConnector) Fetch(_ context.Context, path string, docType domain.DocType) (*domain.RawDocument, error) {
	if err := m.fetchErrs[path]; err != nil {
		return nil, err
	}
	content, ok := m.files[docType][path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileRead, path)
	}
	return &domain.RawDocument{Path: path, Type: docType, Content: []byte(content)}, nil
}

// mockNormaliser implements driven.NormaliserRegistry by passing bytes through.
type mockNormaliser struct {
	errs map[string]error
}

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (string, error) {
	if err := m.errs[raw.Path]; err != nil {
		return "", err
	}
	return string(raw.Content), nil
}

func (m *mockNormaliser) Register(_ driven.Normaliser) {}

func (m *mockNormaliser) Extensions() []string {
	return []string{".txt"}
}

// linePipeline implements driven.PostProcessorPipeline with one chunk per paragraph.
type linePipeline struct {
	strategy domain.Strategy
	err      error
}

func (p *linePipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	var chunks []domain.Chunk
	for _, para := range domain.Paragraphs(doc.Content) {
		chunks = append(chunks, domain.NewChunk(doc, para, p.strategy))
	}
	return chunks, nil
}

func linePipelines() map[domain.DocType]driven.PostProcessorPipeline {
	return map[domain.DocType]driven.PostProcessorPipeline{
		domain.DocTypeLaw:      &linePipeline{strategy: domain.StrategyStructuralArticle},
		domain.DocTypeJudgment: &linePipeline{strategy: domain.StrategyParagraphAware},
		domain.DocTypeFatwa:    &linePipeline{strategy: domain.StrategyParagraphAware},
	}
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are [len(text), 1] so they are distinct and deterministic.
type mockEmbeddingService struct {
	mu        sync.Mutex
	batches   [][]string
	queries   []string
	embedErr  error
	queryErr  error
	short     bool
	queryVec  []float32
	dimension int
}

func (m *mockEmbeddingService) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batches = append(m.batches, texts)
	n := len(texts)
	if m.short && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{float32(len(texts[i])), 1}
	}
	return vectors, nil
}

func (m *mockEmbeddingService) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.queries = append(m.queries, text)
	if m.queryVec != nil {
		return m.queryVec, nil
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dimension == 0 {
		return 2
	}
	return m.dimension
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.embedErr }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	records   []domain.VectorRecord
	hits      []domain.Hit
	lastK     int
	searchErr error
	addErr    error
	saveErr   error
	loadErr   error
	loadInto  []domain.VectorRecord
	saved     int
	loaded    int
}

func (m *mockVectorIndex) Add(_ context.Context, records []domain.VectorRecord) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.Hit, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Save(_ context.Context) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	return nil
}

func (m *mockVectorIndex) Load(_ context.Context) error {
	m.loaded++
	if m.loadErr != nil {
		return m.loadErr
	}
	m.records = append(m.records[:0], m.loadInto...)
	return nil
}

func (m *mockVectorIndex) Len() int { return len(m.records) }

func (m *mockVectorIndex) Dimension() int {
	if len(m.records) == 0 {
		return 0
	}
	return len(m.records[0].Vector)
}

func (m *mockVectorIndex) Close() error { return nil }

// mockIngestService implements driving.IngestService for testing.
type mockIngestService struct {
	runs   int
	runErr error
}

func (m *mockIngestService) Run(_ context.Context) (*domain.IngestReport, error) {
	m.runs++
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &domain.IngestReport{}, nil
}

// hit builds a search hit for a chunk of source.
func hit(source string, docType domain.DocType, content string, score float64) domain.Hit {
	return domain.Hit{
		ID: source + ":" + content,
		Chunk: domain.Chunk{
			Content: content,
			Metadata: domain.ChunkMetadata{
				Source:   source,
				Type:     docType,
				Strategy: domain.StrategyParagraphAware,
			},
		},
		Score: score,
	}
}
