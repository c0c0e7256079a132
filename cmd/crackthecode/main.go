package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crackthecode/internal/config"
	"crackthecode/internal/game"
	"crackthecode/internal/localstore"
	"crackthecode/internal/logger"
	"crackthecode/internal/service"
	"crackthecode/internal/tui"
)

//go:embed phrases.tsv
var builtinPhrases string

func main() {
	tsvPath := flag.String("tsv", "", "seed the phrase bank from a TSV file (sentence<TAB>category<TAB>hint)")
	dbPath := flag.String("db", "crackthecode.db", "sqlite file for phrases and scores")
	mode := flag.String("mode", string(game.ModeEndless), "endless or category")
	category := flag.String("category", "", "category to play in category mode (default: first one)")
	player := flag.String("player", os.Getenv("USER"), "name scores are saved under")
	flag.Parse()

	m, err := game.ParseMode(*mode)
	if err == nil {
		err = run(*tsvPath, *dbPath, m, *category, *player)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "crackthecode:", err)
		os.Exit(1)
	}
}

func run(tsvPath, dbPath string, mode game.ModeName, category, player string) error {
	// терминал занят игрой, логи только в файл
	var logOut io.Writer = io.Discard
	if path := os.Getenv("CRACK_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger.InitWriter(logOut, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") == "json")

	if mode != game.ModeEndless && mode != game.ModeCategory {
		return fmt.Errorf("mode %q is not available offline", mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := localstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer store.Close()

	if err := seed(ctx, store, tsvPath); err != nil {
		return err
	}

	if mode == game.ModeCategory && category == "" {
		cats, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(cats) == 0 {
			return fmt.Errorf("phrase bank has no categories")
		}
		category = cats[0].Name
	}

	play := service.NewPlayService(
		config.LoadEngine(),
		service.NewPoolSource(store),
		service.NewCategoryService(store),
		nil,
		service.NewHintService(store.Hints()),
		service.NewReporter(store, nil, store),
	)
	req := service.PlayRequest{Mode: mode, Category: category}
	req.Player.Username = strings.TrimSpace(player)

	err = tui.Run(ctx, func(listener func([]game.Event)) (*game.Sequencer, error) {
		return play.NewRun(ctx, req, game.WithListener(listener))
	})
	if err != nil {
		return err
	}
	printBest(store, req.Player.Username)
	return nil
}

// printBest выводит лучшие забеги игрока после выхода из игры
func printBest(store *localstore.Store, username string) {
	if username == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	best, err := store.Best(ctx, username, 5)
	if err != nil || len(best) == 0 {
		return
	}
	fmt.Printf("Best runs for %s:\n", username)
	for i, s := range best {
		fmt.Printf("%2d. %4d  %s\n", i+1, s.Score, s.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
}

// seed заполняет банк из TSV; пустой банк получает встроенный набор
func seed(ctx context.Context, store *localstore.Store, tsvPath string) error {
	var rows []localstore.Row
	var err error
	switch {
	case tsvPath != "":
		rows, err = localstore.LoadTSV(tsvPath)
	default:
		n, cerr := store.Count(ctx)
		if cerr != nil {
			return cerr
		}
		if n > 0 {
			return nil
		}
		rows, err = localstore.ParseTSV(strings.NewReader(builtinPhrases))
	}
	if err != nil {
		return fmt.Errorf("read phrases: %w", err)
	}

	added, err := store.Seed(ctx, rows)
	if err != nil {
		return fmt.Errorf("seed phrases: %w", err)
	}
	logger.Info("phrase bank seeded", "added", added, "rows", len(rows))
	return nil
}
