package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/qxword/alphabet"
	"github.com/domino14/qxword/config"
	"github.com/domino14/qxword/game"
	"github.com/domino14/qxword/lexicon"
	"github.com/domino14/qxword/shell"
)

var (
	GitVersion string
)

var (
	configFile = flag.String("config", "", "path to a YAML config file")
	autoplay   = flag.Int("autoplay", 0, "play this many turns unattended, then exit")
)

//go:embed qxword.txt
var banner string

func setupLogging(level string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func main() {
	flag.Parse()
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := cfg.Load(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	ld := alphabet.EnglishLetterDistribution()
	if cfg.DistributionPath != "" {
		var err error
		ld, err = alphabet.LoadDistribution(cfg.DistributionPath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load letter distribution")
		}
	}
	lex := lexicon.LoadOrFallback(cfg.LexiconPath, ld)

	if *autoplay > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := selfPlay(ctx, cfg, lex, ld, *autoplay); err != nil {
			log.Fatal().Err(err).Msg("self-play failed")
		}
		return
	}

	fmt.Println(banner)
	if GitVersion != "" {
		fmt.Println(GitVersion)
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg, lex, ld)
	go sc.Loop(sig)
	<-idleConnsClosed
	sc.Cleanup()
}

// selfPlay lets move search play turns unattended. A turn that does not
// reach a submittable play is recalled and the rack shuffled.
func selfPlay(ctx context.Context, cfg *config.Config, lex lexicon.Lexicon,
	ld *alphabet.LetterDistribution, turns int) error {

	g, err := game.NewGame(cfg, lex, ld)
	if err != nil {
		return err
	}
	log.Info().Uint64("seed", g.Seed()).Str("mode", string(g.Mode())).Msg("self-play started")
	for i := 0; i < turns && !g.Over(); i++ {
		res, err := g.AutoPlay(ctx)
		if err != nil {
			return err
		}
		if !res.Legal {
			if err := g.Recall(ctx); err != nil {
				return err
			}
			g.Shuffle()
			log.Info().Int("attempt", i+1).Msg("no play found")
			continue
		}
		tr, err := g.Submit(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("submit failed")
			if err := g.Recall(ctx); err != nil {
				return err
			}
			continue
		}
		log.Info().Int("attempt", i+1).Int("points", tr.Total).Int("score", g.Score()).
			Msg("self-play turn")
	}
	fmt.Println(g.ToDisplayText())
	st := g.Stats()
	fmt.Printf("Final score %d over %d turns; best word %s (%d)\n",
		g.Score(), st.Turns, st.BestWord, st.BestWordScore)
	if err := game.WriteScoreHistogram(os.Stdout, st.TurnScores); err != nil {
		log.Debug().Err(err).Msg("no score histogram")
	}
	return nil
}
