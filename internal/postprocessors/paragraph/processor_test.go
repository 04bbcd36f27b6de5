package paragraph

import (
	"context"
	"strings"
	"testing"

	"github.com/synqanun/synqanun-cli/internal/core/domain"
)

func newDoc(content string) *domain.Document {
	doc := domain.NewDocument("judgments/case.docx", domain.DocTypeJudgment, content)
	return &doc
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.ChunkSize() != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.ChunkSize())
		}
		if p.Overlap() != 0 {
			t.Errorf("expected overlap 0, got %d", p.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100))
		if p.ChunkSize() != 500 || p.Overlap() != 100 {
			t.Errorf("unexpected settings %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	t.Run("overlap not below chunk size disabled", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(100))
		if p.Overlap() != 0 {
			t.Errorf("expected overlap 0, got %d", p.Overlap())
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.ChunkSize() != DefaultChunkSize || p.Overlap() != 0 {
			t.Errorf("expected defaults, got %d/%d", p.ChunkSize(), p.Overlap())
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "paragraph" {
		t.Errorf("expected name 'paragraph', got %q", New().Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	chunks, err := New().Process(context.Background(), newDoc(" \n \n"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for blank content, got %d", len(chunks))
	}
}

// TestProcessor_Process_LargeParagraphExample checks the documented budget example.
func TestProcessor_Process_LargeParagraphExample(t *testing.T) {
	large := strings.Repeat("X", 1500)
	doc := newDoc(strings.Join([]string{"short1", "short2", large, "short3"}, "\n"))

	chunks, err := New(WithChunkSize(1000)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		content  string
		strategy domain.Strategy
	}{
		{"short1\nshort2", domain.StrategyParagraphAware},
		{large, domain.StrategyLargeParagraph},
		{"short3", domain.StrategyParagraphAware},
	}

	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Content != w.content {
			t.Errorf("chunk %d: unexpected content %q", i, chunks[i].Content)
		}
		if chunks[i].Metadata.Strategy != w.strategy {
			t.Errorf("chunk %d: expected strategy %s, got %s", i, w.strategy, chunks[i].Metadata.Strategy)
		}
		if chunks[i].Metadata.Source != "case.docx" || chunks[i].Metadata.Type != domain.DocTypeJudgment {
			t.Errorf("chunk %d: unexpected metadata %+v", i, chunks[i].Metadata)
		}
	}
}

func TestProcessor_Process_FlushesAtBudget(t *testing.T) {
	a := strings.Repeat("a", 6)
	b := strings.Repeat("b", 4)
	c := strings.Repeat("c", 5)
	doc := newDoc(a + "\n" + b + "\n" + c)

	chunks, err := New(WithChunkSize(11)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a+b is 6+4 = 10 <= 11 before the separator; adding c gives 11+5 > 11.
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != a+"\n"+b {
		t.Errorf("unexpected first chunk %q", chunks[0].Content)
	}
	if chunks[1].Content != c {
		t.Errorf("unexpected second chunk %q", chunks[1].Content)
	}
}

func TestProcessor_Process_ExactBudgetParagraphIsNotLarge(t *testing.T) {
	exact := strings.Repeat("x", 10)

	chunks, err := New(WithChunkSize(10)).Process(context.Background(), newDoc(exact), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Metadata.Strategy != domain.StrategyParagraphAware {
		t.Fatalf("expected one paragraph_aware chunk, got %+v", chunks)
	}
}

// TestProcessor_Process_CountsCharactersNotBytes checks Arabic paragraphs are
// measured in characters.
func TestProcessor_Process_CountsCharactersNotBytes(t *testing.T) {
	para := strings.Repeat("ق", 8) // 8 characters, 16 bytes

	chunks, err := New(WithChunkSize(10)).Process(context.Background(), newDoc(para), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Metadata.Strategy != domain.StrategyParagraphAware {
		t.Fatalf("expected one paragraph_aware chunk, got %+v", chunks)
	}
}

func TestProcessor_Process_ContentPreserving(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 60; i++ {
		paragraphs = append(paragraphs, strings.Repeat(string(rune('a'+i%26)), 1+(i*37)%90))
	}
	doc := newDoc(strings.Join(paragraphs, "\n\n"))

	chunks, err := New(WithChunkSize(120)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rebuilt []string
	for _, c := range chunks {
		if c.Content == "" {
			t.Fatal("empty chunk emitted")
		}
		rebuilt = append(rebuilt, domain.Paragraphs(c.Content)...)
		if c.Metadata.Strategy == domain.StrategyParagraphAware && c.Len() > 121 {
			t.Errorf("packed chunk exceeds budget: %d", c.Len())
		}
	}

	if strings.Join(rebuilt, "\n") != strings.Join(paragraphs, "\n") {
		t.Error("chunks do not reproduce the paragraph sequence")
	}
}

func TestProcessor_Process_Overlap(t *testing.T) {
	doc := newDoc("aaaa\nbbbb\ncccc\ndddd")

	// Budget 14 holds three paragraphs; overlap 4 carries one paragraph back.
	chunks, err := New(WithChunkSize(14), WithOverlap(4)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "aaaa\nbbbb\ncccc" {
		t.Errorf("unexpected first chunk %q", chunks[0].Content)
	}
	if chunks[1].Content != "cccc\ndddd" {
		t.Errorf("unexpected second chunk %q", chunks[1].Content)
	}
}

func TestProcessor_Process_OverlapSkippedWhenItWouldOverflow(t *testing.T) {
	doc := newDoc("aaaa\nbbbb\n" + strings.Repeat("c", 9))

	chunks, err := New(WithChunkSize(10), WithOverlap(4)).Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Content != strings.Repeat("c", 9) {
		t.Errorf("expected no overlap seed, got %q", chunks[1].Content)
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	existing := []domain.Chunk{{Content: "should be ignored"}}

	chunks, err := New().Process(context.Background(), newDoc("new content"), existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "new content" {
		t.Errorf("expected existing chunks to be ignored, got %+v", chunks)
	}
}
