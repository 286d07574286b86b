// Package graph assembles the project import graph from discovered sources.
package graph

import (
	"context"
	"runtime"

	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports"
	"go.trai.ch/smelt/internal/engine/importer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Builder parses discovered sources and connects their import edges.
// Parsing is independent per file, so it fans out across a bounded worker
// pool.
type Builder struct {
	importer *importer.Importer
	reader   ports.SourceReader
	workers  int
}

// NewBuilder creates a Builder. workers caps the parse fan-out; zero means
// one per CPU.
func NewBuilder(imp *importer.Importer, reader ports.SourceReader, workers int) *Builder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{importer: imp, reader: reader, workers: workers}
}

// Build parses every path concurrently and assembles the connected graph.
// Files whose digest hits the parse memo are not read at all. The first
// parse or read failure cancels the remaining workers.
func (b *Builder) Build(ctx context.Context, paths []string) (*domain.Graph, error) {
	files := make([]domain.SourceFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sf, err := b.parseOne(p)
			if err != nil {
				return err
			}
			files[i] = sf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := domain.NewGraph()
	for _, sf := range files {
		if _, err := graph.Add(sf); err != nil {
			return nil, err
		}
	}
	if err := graph.Connect(); err != nil {
		return nil, err
	}
	return graph, nil
}

func (b *Builder) parseOne(path string) (domain.SourceFile, error) {
	hash, err := b.reader.Hash(path)
	if err != nil {
		return domain.SourceFile{}, zerr.Wrap(err, "hashing source")
	}
	if sf, ok := b.importer.ParseCached(path, hash); ok {
		return sf, nil
	}
	content, err := b.reader.Read(path)
	if err != nil {
		return domain.SourceFile{}, zerr.Wrap(err, "reading source")
	}
	return b.importer.Parse(path, hash, content)
}
