package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"storybuddy/internal/adapter"
	"storybuddy/internal/adapter/llm"
	"storybuddy/internal/cache"
	"storybuddy/internal/config"
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/img"
	"storybuddy/internal/logger"
	"storybuddy/internal/service"
	"storybuddy/internal/validation"
	"syscall"

	"go.uber.org/zap"
)

const (
	modeStory   = "story"
	modeQuiz    = "quiz"
	modeExplain = "explain"
)

type options struct {
	mode      string
	text      string
	imagePath string
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.mode, "mode", modeStory, "story, quiz or explain")
	fs.StringVar(&opts.text, "text", "", "input text; read from stdin when \"-\"")
	fs.StringVar(&opts.imagePath, "image", "", "path to an image file (explain only)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case modeStory, modeQuiz, modeExplain:
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.mode)
	}
	if opts.imagePath != "" && opts.mode != modeExplain {
		return options{}, errors.New("-image is only supported with -mode explain")
	}
	return opts, nil
}

// run executes one generation and writes the same JSON body the HTTP API would return.
func run(ctx context.Context, opts options, svc service.GenerationService, validator *validation.Validator, stdin io.Reader, stdout io.Writer) error {
	text := opts.text
	if text == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	var out interface{}
	switch opts.mode {
	case modeStory:
		story, err := svc.TellStory(ctx, text)
		if err != nil {
			return err
		}
		out = dto.TextResponse{Response: story}
	case modeQuiz:
		quiz, err := svc.GenerateQuiz(ctx, text)
		if err != nil {
			return err
		}
		out = dto.QuizResponse{Response: quiz}
	case modeExplain:
		req := dto.ExplainRequest{Text: text}
		if opts.imagePath != "" {
			data, err := os.ReadFile(opts.imagePath)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			req.Image = base64.StdEncoding.EncodeToString(data)
		}
		genReq, err := validator.ValidateExplainRequest(req)
		if err != nil {
			return err
		}
		explanation, err := svc.Explain(ctx, genReq)
		if err != nil {
			return err
		}
		out = dto.TextResponse{Response: explanation}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: generate -mode story|quiz|explain -text TEXT [-image PATH]: %v\n", err)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger might not be initialized yet
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logger.Get().Fatal("Failed to create language model", zap.Error(err))
	}
	if closer, ok := model.(io.Closer); ok {
		defer closer.Close()
	}

	var responseCache domain.Cache
	if cfg.Cache.Enabled(cfg.Redis) {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Get().Warn("Redis unavailable, running without response cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			responseCache = adapter.NewRedisCacheAdapter(redisClient)
		}
	}

	svc := service.NewGenerationService(model, service.NewGenerationCacheService(responseCache, cfg.Cache.TTL))
	validator := validation.NewValidator(img.Limits{MaxWidth: cfg.Image.MaxWidth, MaxPixels: cfg.Image.MaxPixels})

	if err := run(ctx, opts, svc, validator, os.Stdin, os.Stdout); err != nil {
		logger.Get().Error("Generation failed", zap.String("mode", opts.mode), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
