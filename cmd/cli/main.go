package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/adapters/repository/sqlstore"
	"github.com/Team-NaBang/Bang-Backend/pkg/config"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
	"github.com/Team-NaBang/Bang-Backend/pkg/logger"
	"github.com/Team-NaBang/Bang-Backend/pkg/ports"
)

// Files ending in zstdSuffix are zstd-compressed.
const zstdSuffix = ".zst"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportFile := exportCmd.String("file", "", "output file (stdout if empty, zstd if it ends in .zst)")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import (zstd if it ends in .zst)")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	repo, err := sqlstore.NewRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to db", zap.Error(err))
	}
	defer repo.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := doExport(ctx, repo, *exportFile, log); err != nil {
			log.Fatal("Export failed", zap.Error(err))
		}
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := doImport(ctx, repo, *importFile, log); err != nil {
			log.Fatal("Import failed", zap.Error(err))
		}
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(ctx context.Context, repo ports.PostRepository, filename string, log *zap.Logger) error {
	var out io.Writer = os.Stdout
	if filename != "" {
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	n, err := exportPosts(ctx, repo, out, strings.HasSuffix(filename, zstdSuffix))
	if err != nil {
		return err
	}
	log.Info("Exported posts", zap.Int("count", n), zap.String("file", filename))
	return nil
}

// exportPosts writes every post, likes and timestamps included, as a JSON array.
func exportPosts(ctx context.Context, repo ports.PostRepository, w io.Writer, compress bool) (int, error) {
	posts, err := repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	if compress {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return 0, err
		}
		if err := encode(zw, posts); err != nil {
			zw.Close()
			return 0, err
		}
		return len(posts), zw.Close()
	}
	return len(posts), encode(w, posts)
}

func encode(w io.Writer, posts []domain.Post) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(posts)
}

func doImport(ctx context.Context, repo ports.PostRepository, filename string, log *zap.Logger) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	imported, skipped, err := importPosts(ctx, repo, file, strings.HasSuffix(filename, zstdSuffix), log)
	if err != nil {
		return err
	}
	log.Info("Imported posts", zap.Int("imported", imported), zap.Int("skipped", skipped))
	return nil
}

// importPosts restores posts keeping their ids. Ids already present are skipped.
func importPosts(ctx context.Context, repo ports.PostRepository, r io.Reader, compressed bool, log *zap.Logger) (imported, skipped int, err error) {
	if compressed {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return 0, 0, err
		}
		defer zr.Close()
		r = zr
	}

	var posts []domain.Post
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}

	for i := range posts {
		p := &posts[i]
		if err := validateImported(p); err != nil {
			log.Warn("Skipping invalid post", zap.String("id", p.ID), zap.Error(err))
			skipped++
			continue
		}

		_, err := repo.GetByID(ctx, p.ID)
		if err == nil {
			log.Info("Skipping existing post", zap.String("id", p.ID))
			skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return imported, skipped, err
		}

		if err := repo.Restore(ctx, p); err != nil {
			log.Warn("Failed to import post", zap.String("id", p.ID), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

func validateImported(p *domain.Post) error {
	if p.ID == "" {
		return domain.NewValidationError("id", "is required")
	}
	if p.CreatedAt.IsZero() {
		return domain.NewValidationError("created_at", "is required")
	}
	if p.Likes < 0 {
		return domain.NewValidationError("likes_count", "must not be negative")
	}
	draft := domain.PostDraft{
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Category:  p.Category,
		Thumbnail: p.Thumbnail,
	}
	return draft.Validate()
}
