package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/embedding/ollama"
	"docqa/internal/embedding/openai"
	"docqa/internal/engine"
	"docqa/internal/extract"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: docqa [--config=config.yaml] document.pdf")
		os.Exit(1)
	}
	docPath := args[0]

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The provider is constructed lazily: the model is only loaded when the
	// first embedding is requested.
	load := providerLoader(cfg)
	svc := embedding.NewService(load)

	ch := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	eng := engine.New(ch, svc)

	pages, err := extract.NewPDFExtractor().Pages(docPath)
	if err != nil {
		log.Fatalf("extract failed: %v", err)
	}

	log.Printf("embedding %d pages of %s", len(pages), docPath)
	_, err = eng.LoadDocument(context.Background(), pages, func(done, total int) {
		log.Printf("embedded page %d/%d", done, total)
	})
	if err != nil {
		log.Fatalf("load failed: %v", err)
	}
	if eng.Index().Len() == 0 {
		log.Fatalf("no text found in %s", docPath)
	}

	m := tui.New(eng, filepath.Base(docPath), cfg.Search.TopK)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func providerLoader(cfg *config.AppConfig) embedding.LoadFunc {
	return func(ctx context.Context) (embedding.Provider, error) {
		switch cfg.Embedder.Type {
		case "ollama", "":
			oc := cfg.Embedder.Ollama
			if oc == nil {
				oc = &config.OllamaEmbedderConfig{Model: "nomic-embed-text"}
			}
			return ollama.New(ollama.Config{
				BaseURL: oc.BaseURL,
				Model:   oc.Model,
				Timeout: time.Duration(oc.TimeoutSecs) * time.Second,
			})
		case "openai":
			oc := cfg.Embedder.OpenAI
			if oc == nil {
				oc = &config.OpenAIEmbedderConfig{}
			}
			return openai.New(openai.Config{
				APIKeyEnv: oc.APIKeyEnv,
				Model:     oc.Model,
			})
		default:
			return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
		}
	}
}
