package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dmorenop/ludoteca/internal/assistant"
	"github.com/dmorenop/ludoteca/internal/auth"
	"github.com/dmorenop/ludoteca/internal/catalog"
	"github.com/dmorenop/ludoteca/internal/httpapi"
	"github.com/dmorenop/ludoteca/internal/ollama"
)

const defaultModel = "lfm2.5-thinking:1.2b"

func main() {
	var (
		addr        = flag.String("addr", ":4000", "HTTP listen address")
		dbPath      = flag.String("db", "./data/ludoteca.db", "path to SQLite database file (overrides LUDOTECA_DB env var)")
		catalogPath = flag.String("catalog", "./datos.json", "path to the categories/platforms data file")
	)
	flag.Parse()

	if port := os.Getenv("PORT"); port != "" {
		*addr = ":" + port
	}
	if env := os.Getenv("LUDOTECA_DB"); env != "" && *dbPath == "./data/ludoteca.db" {
		*dbPath = env
	}

	secret := os.Getenv("JWT_SECRET")
	if strings.TrimSpace(secret) == "" {
		log.Fatal("JWT_SECRET is required")
	}
	tokenTTL := 8 * time.Hour
	if raw := os.Getenv("TOKEN_EXPIRES_IN"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid TOKEN_EXPIRES_IN %q: %v", raw, err)
		}
		tokenTTL = ttl
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	shutdownTracing := setupTracing(ctx)
	defer shutdownTracing()

	store, err := catalog.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open catalog store (%s): %v", *dbPath, err)
	}
	defer store.Close()
	log.Printf("using sqlite store at %s", *dbPath)

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if err := store.EnsureAdmin(ctx, "admin", "admin@demo.com", adminHash); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	catalogFile, err := catalog.LoadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatalf("failed to load catalog file (%s): %v", *catalogPath, err)
	}

	authManager, err := auth.NewManager(secret, tokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = defaultModel
	}
	numCtx := 0
	if raw := os.Getenv("OLLAMA_NUM_CTX"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Fatalf("OLLAMA_NUM_CTX must be a non-negative integer, got %q", raw)
		}
		numCtx = n
	}
	client := ollama.NewClient(os.Getenv("OLLAMA_BASE_URL"), model, numCtx)
	log.Printf("assistant model=%s base_url=%s", model, os.Getenv("OLLAMA_BASE_URL"))

	guard := assistant.NewScopeGuard(splitMarkers(os.Getenv("ASSISTANT_META_MARKERS")))
	orch := assistant.NewOrchestrator(client, guard)
	engine := assistant.NewService(snapshotFunc(store, catalogFile), orch)

	handler := httpapi.NewServer(store, catalogFile, authManager, engine)

	log.Printf("ludoteca-server listening on %s", *addr)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// snapshotFunc adapts store rows to the assistant's view of the catalog,
// resolving category and platform IDs to display names.
func snapshotFunc(store *catalog.Store, catalogFile *catalog.CatalogFile) assistant.SnapshotFunc {
	return func(ctx context.Context) ([]assistant.Game, error) {
		rows, err := store.AssistantSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		games := make([]assistant.Game, 0, len(rows))
		for _, row := range rows {
			g := assistant.Game{
				ID:          row.ID,
				Nombre:      row.Nombre,
				Descripcion: row.Descripcion,
				Precio:      row.Precio,
				Likes:       row.Likes,
				Dislikes:    row.Dislikes,
				Categorias:  catalog.MapNames(row.CategoriaIDs, catalogFile.Categorias),
				Plataformas: catalog.MapNames(row.PlataformaIDs, catalogFile.Plataformas),
			}
			if row.Compania != nil {
				g.Compania = *row.Compania
			}
			if row.FechaLanzamiento != nil {
				g.FechaLanzamiento = *row.FechaLanzamiento
			}
			games = append(games, g)
		}
		return games, nil
	}
}

func splitMarkers(raw string) []string {
	markers := []string{}
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			markers = append(markers, v)
		}
	}
	return markers
}

// setupTracing installs an OTLP trace exporter when an endpoint is
// configured; otherwise spans stay in-process and are dropped.
func setupTracing(ctx context.Context) func() {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", "ludoteca-server"),
	))
	if err != nil {
		log.Printf("tracing resource: %v", err)
		res = resource.Default()
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		exporter, err := otlptracehttp.New(ctx)
		if err != nil {
			log.Printf("tracing exporter: %v", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exporter))
			log.Printf("tracing exporter endpoint=%s", endpoint)
		}
	}

	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}
}
