package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-readtime/pkg/interfaces"
)

func recordStage(name string) interfaces.Transformer {
	return interfaces.TransformerFunc{
		StageName: name,
		Fn: func(_ context.Context, doc *interfaces.Document) error {
			order, _ := doc.Metadata["order"].([]string)
			doc.Metadata["order"] = append(order, name)
			return nil
		},
	}
}

func TestProcess_RunsStagesInOrder(t *testing.T) {
	p, err := New([]interfaces.Transformer{recordStage("toc"), recordStage("reading-time"), recordStage("collapse")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc := &interfaces.Document{FilePath: "a.md", Metadata: interfaces.Metadata{}}
	if err := p.Process(context.Background(), doc); err != nil {
		t.Fatalf("Process: %v", err)
	}

	got := fmt.Sprint(doc.Metadata["order"])
	if got != "[toc reading-time collapse]" {
		t.Fatalf("unexpected stage order %s", got)
	}
	if fmt.Sprint(p.Stages()) != "[toc reading-time collapse]" {
		t.Fatalf("unexpected Stages %v", p.Stages())
	}
}

func TestProcess_StopsAtFailingStage(t *testing.T) {
	failing := interfaces.TransformerFunc{
		StageName: "broken",
		Fn: func(context.Context, *interfaces.Document) error {
			return errors.New("boom")
		},
	}
	p, err := New([]interfaces.Transformer{failing, recordStage("after")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc := &interfaces.Document{FilePath: "a.md", Metadata: interfaces.Metadata{}}
	err = p.Process(context.Background(), doc)
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if _, ran := doc.Metadata["order"]; ran {
		t.Fatal("expected later stages to be skipped")
	}
}

func TestProcess_HonoursCancellation(t *testing.T) {
	p, err := New([]interfaces.Transformer{recordStage("one")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &interfaces.Document{Metadata: interfaces.Metadata{}}
	if err := p.Process(ctx, doc); err == nil {
		t.Fatal("expected cancellation error")
	}
	if _, ran := doc.Metadata["order"]; ran {
		t.Fatal("expected no stage to run after cancellation")
	}
}

func TestProcess_NilDocument(t *testing.T) {
	p, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Process(context.Background(), nil); err != nil {
		t.Fatalf("expected nil document to be ignored, got %v", err)
	}
}

func TestNew_RejectsInvalidStages(t *testing.T) {
	if _, err := New([]interfaces.Transformer{nil}); !errors.Is(err, ErrStageRequired) {
		t.Fatalf("expected ErrStageRequired, got %v", err)
	}
	if _, err := New([]interfaces.Transformer{recordStage("x"), recordStage("x")}); !errors.Is(err, ErrDuplicateStage) {
		t.Fatalf("expected ErrDuplicateStage, got %v", err)
	}
}

func TestProcessAll_TransformsEveryDocument(t *testing.T) {
	var calls atomic.Int64
	counter := interfaces.TransformerFunc{
		StageName: "count",
		Fn: func(_ context.Context, doc *interfaces.Document) error {
			calls.Add(1)
			doc.Metadata["seen"] = true
			return nil
		},
	}
	p, err := New([]interfaces.Transformer{counter}, WithWorkers(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	docs := make([]*interfaces.Document, 25)
	for i := range docs {
		docs[i] = &interfaces.Document{FilePath: fmt.Sprintf("%d.md", i), Metadata: interfaces.Metadata{}}
	}

	if err := p.ProcessAll(context.Background(), docs); err != nil {
		t.Fatalf("ProcessAll: %v", err)
	}
	if calls.Load() != int64(len(docs)) {
		t.Fatalf("expected %d calls, got %d", len(docs), calls.Load())
	}
	for _, doc := range docs {
		if doc.Metadata["seen"] != true {
			t.Fatalf("document %s not transformed", doc.FilePath)
		}
	}
}

func TestProcessAll_ReturnsFirstError(t *testing.T) {
	failing := interfaces.TransformerFunc{
		StageName: "fail-on-b",
		Fn: func(_ context.Context, doc *interfaces.Document) error {
			if doc.FilePath == "b.md" {
				return errors.New("bad document")
			}
			return nil
		},
	}
	p, err := New([]interfaces.Transformer{failing}, WithWorkers(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	docs := []*interfaces.Document{{FilePath: "a.md"}, {FilePath: "b.md"}, {FilePath: "c.md"}}
	if err := p.ProcessAll(context.Background(), docs); err == nil {
		t.Fatal("expected error from failing document")
	}
}
