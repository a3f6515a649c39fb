// Package main provides the iris CLI for querying the search chain and
// inspecting stored conversations.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/chat"
	"github.com/bull/iris-search/internal/config"
	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/render"
	"github.com/bull/iris-search/internal/search"
	"github.com/bull/iris-search/internal/storage"
)

var (
	flagSource       string
	flagCollection   string
	flagConversation string
	flagSave         bool
	flagPlain        bool
)

var rootCmd = &cobra.Command{
	Use:   "iris",
	Short: "IRIS search and conversation tool",
	Long:  "CLI for asking the IRIS search chain and managing saved conversations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// CLI output owns stdout; logs go to stderr.
		slog.SetDefault(logging.New(cfg, os.Stderr))
		return nil
	},
	SilenceUsage: true,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question",
	Long: `Runs the question through the search chain and prints the answer.

The chain tries, in order:
1. The document RAG service (when RAG_URL is set and documents are requested)
2. The summarize backend via GET, then POST (when TIDE_BACKEND_URL is set)
3. Built-in mock content

With --save or --conversation the exchange is recorded in conversation storage.

Environment variables:
  TIDE_BACKEND_URL  Summarize backend base URL (optional)
  RAG_URL           Document RAG service URL (optional)
  STORAGE_DRIVER    file, redis or memory (default: file)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var collectionsCmd = &cobra.Command{
	Use:   "collections [id]",
	Short: "List document collections, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollections,
}

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Inspect saved conversations",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations, most recently updated first",
	Args:  cobra.NoArgs,
	RunE:  runConversationsList,
}

var conversationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print every message of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsDelete,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "omit headings and rules")

	askCmd.Flags().StringVarP(&flagSource, "source", "s", string(search.FilterAll), "source filter: all, jira, confluence, documents")
	askCmd.Flags().StringVarP(&flagCollection, "collection", "c", "", "document collection id")
	askCmd.Flags().StringVar(&flagConversation, "conversation", "", "append to an existing conversation")
	askCmd.Flags().BoolVar(&flagSave, "save", false, "record the exchange as a new conversation")

	conversationsCmd.AddCommand(conversationsListCmd, conversationsShowCmd, conversationsDeleteCmd)
	rootCmd.AddCommand(askCmd, collectionsCmd, conversationsCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func renderer() *render.Renderer {
	return render.New(!flagPlain)
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// openStore returns the store and a close func for its backend.
func openStore(ctx context.Context, cfg config.Config) (*conversation.Store, func() error, error) {
	backend, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open conversation storage: %w", err)
	}
	store, err := conversation.NewStore(ctx, backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return store, backend.Close, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	orchestrator := search.FromConfig(cfg, cat, &http.Client{}, slog.Default())
	filter := search.ParseFilter(flagSource)

	if !flagSave && flagConversation == "" {
		resp, err := orchestrator.Search(ctx, search.Request{
			Query:      question,
			Filter:     filter,
			Collection: flagCollection,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderer().Answer(resp))
		return nil
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := chat.NewService(store, orchestrator, slog.Default())
	var thread *conversation.Thread
	if flagConversation != "" {
		thread, err = svc.Ask(ctx, flagConversation, question, filter)
	} else {
		thread, err = svc.Start(ctx, question, flagCollection, filter)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer().Thread(thread))
	return nil
}

func runCollections(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprint(cmd.OutOrStdout(), renderer().Collections(cat.Collections()))
		return nil
	}
	col, err := cat.Collection(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer().Collection(col))
	return nil
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := storeFromEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Fprint(cmd.OutOrStdout(), renderer().Conversations(store.ListConversations()))
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := storeFromEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	thread, ok := store.GetConversation(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", chat.ErrConversationNotFound, args[0])
	}
	fmt.Fprint(cmd.OutOrStdout(), renderer().Thread(thread))
	return nil
}

func runConversationsDelete(cmd *cobra.Command, args []string) error {
	store, closeStore, err := storeFromEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	if !store.DeleteConversation(cmd.Context(), args[0]) {
		return fmt.Errorf("%w: %s", chat.ErrConversationNotFound, args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func storeFromEnv(ctx context.Context) (*conversation.Store, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return openStore(ctx, cfg)
}
