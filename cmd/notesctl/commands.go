package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gonotes/internal/notes/client"
	"gonotes/internal/notes/config"
	"gonotes/internal/notes/domain/entities"
	"gonotes/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrInvalidID     = "invalid note id"
	ErrInitLogger    = "failed to initialize logger"
	ErrNothingToShow = "page is empty"
)

// session связывает команды с синхронизатором списка.
type session struct {
	configPath string
	baseURL    string

	out   *renderer
	store *client.ListStore
}

// newRootCommand собирает дерево команд, вывод которых идет в out.
func newRootCommand(out io.Writer) *cobra.Command {
	s := &session{out: newRenderer(out)}

	root := &cobra.Command{
		Use:           "notesctl",
		Short:         "Command line client for the notes API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if s.store != nil {
				s.store.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", os.Getenv(config.ClientPathEnv), "path to the client configuration file")
	root.PersistentFlags().StringVar(&s.baseURL, "base-url", "", "API base URL, overrides configuration")

	root.AddCommand(
		s.listCommand(),
		s.getCommand(),
		s.createCommand(),
		s.updateCommand(),
		s.toggleCommand(),
		s.deleteCommand(),
	)
	return root
}

func (s *session) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.LoadClient(ctx, s.configPath)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(logger.Production, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrInitLogger, err)
	}
	logger.SetGlobalLogger(log)

	baseURL := cfg.BaseURL
	if s.baseURL != "" {
		baseURL = s.baseURL
	}
	log.Debug(ctx, "client configured",
		zap.String("base_url", baseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("page_size", cfg.PageSize))

	s.store = client.NewListStore(client.NewHTTPAPI(baseURL, cfg.Timeout), client.WithPageSize(cfg.PageSize))
	return nil
}

// listFlags - фильтры и номер страницы, общие для команд, которые работают со страницей.
type listFlags struct {
	page     int
	category string
	search   string
	favorite bool
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", entities.DefaultPage, "page number")
	cmd.Flags().StringVar(&f.category, "category", "", "exact category")
	cmd.Flags().StringVar(&f.search, "search", "", "substring of title or content")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "only favorite notes")
}

func (f *listFlags) filters() *client.Filters {
	return &client.Filters{Category: f.category, Search: f.search, FavoriteOnly: f.favorite}
}

// noteFlags - поля заметки для create и update.
type noteFlags struct {
	title    string
	content  string
	category string
	favorite bool
}

func (f *noteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "note title")
	cmd.Flags().StringVar(&f.content, "content", "", "note content")
	cmd.Flags().StringVar(&f.category, "category", "", "note category")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "mark as favorite")
}

func (f *noteFlags) input() entities.NoteInput {
	favorite := f.favorite
	return entities.NoteInput{Title: f.title, Content: f.content, Category: f.category, IsFavorite: &favorite}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func (s *session) listCommand() *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.store.FetchPage(cmd.Context(), flags.filters(), flags.page); err != nil {
				return s.fail(err)
			}
			return s.out.page(s.store.Snapshot())
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := s.store.Get(cmd.Context(), id)
			if err != nil {
				return s.fail(err)
			}
			return s.out.note(note)
		},
	}
}

func (s *session) createCommand() *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			note, err := s.store.Create(cmd.Context(), flags.input())
			return s.afterMutation(note, err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) updateCommand() *cobra.Command {
	var flags noteFlags
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace all fields of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := s.store.Update(cmd.Context(), id, flags.input())
			return s.afterMutation(note, err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) toggleCommand() *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip the favorite flag of a note on the given page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := s.store.FetchPage(cmd.Context(), flags.filters(), flags.page); err != nil {
				return s.fail(err)
			}
			note, err := s.store.ToggleFavorite(cmd.Context(), id)
			return s.afterMutation(note, err)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (s *session) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			note, err := s.store.Delete(cmd.Context(), id)
			return s.afterMutation(note, err)
		},
	}
}

// afterMutation печатает измененную заметку и перезагруженную страницу.
// Неудачная перезагрузка не отменяет изменение, о ней только сообщается.
func (s *session) afterMutation(note *entities.Note, err error) error {
	if err != nil && !errors.Is(err, client.ErrRefresh) {
		return s.fail(err)
	}
	if printErr := s.out.note(note); printErr != nil {
		return printErr
	}
	if err != nil {
		s.out.warn(err)
		return nil
	}
	return s.out.page(s.store.Snapshot())
}

func (s *session) fail(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		s.out.fieldErrors(apiErr.Fields)
	}
	return err
}
