package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/dyluth/easel/internal/config"
	"github.com/dyluth/easel/internal/miro"
	"github.com/dyluth/easel/internal/poller"
	"github.com/dyluth/easel/internal/printer"
	"github.com/dyluth/easel/internal/tagindex"
	"github.com/dyluth/easel/pkg/board"
)

// session is everything a command needs to talk to one board.
type session struct {
	cfg    *config.Config
	client *miro.Client
	tags   tagindex.Index
	loader *poller.Loader
}

func (s *session) Close() {
	if s.tags != nil {
		s.tags.Close()
	}
}

// loadConfig reads the config and turns failures into printed errors.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{
				"Create a config file:\n  easel init",
				"Or set MIRO_BOARD_ID, MIRO_API_TOKEN and GEMINI_API_KEY in the environment",
			},
		)
	}
	return cfg, nil
}

// openSession loads config and connects to the board API and the tag index.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := miro.NewClient(miro.Options{
		BaseURL:   cfg.Board.APIURL,
		BoardID:   cfg.Board.ID,
		Token:     cfg.Board.Token,
		PageLimit: cfg.Board.PageLimit,
	})
	if err != nil {
		return nil, printer.Error("failed to create board client", err.Error(), nil)
	}

	tags, err := tagindex.Open(ctx, tagindex.Options{
		Backend:  cfg.Tags.Backend,
		BoardID:  cfg.Board.ID,
		DBPath:   cfg.Tags.DBPath,
		RedisURL: cfg.Tags.RedisURL,
	})
	if err != nil {
		return nil, printer.ErrorWithContext(
			"tag index unavailable",
			err.Error(),
			map[string]string{
				"Backend": cfg.Tags.Backend,
				"Board":   cfg.Board.ID,
			},
			[]string{
				"Check tags.db_path is writable",
				"For the redis backend, check REDIS_URL and that Redis is running",
			},
		)
	}

	return &session{
		cfg:    cfg,
		client: client,
		tags:   tags,
		loader: poller.NewLoader(client, tags),
	}, nil
}

// snapshot fetches the board and reports API failures with suggestions.
func (s *session) snapshot(ctx context.Context) (*board.Snapshot, error) {
	snap, err := s.loader.LoadSnapshot(ctx)
	if err == nil {
		return snap, nil
	}

	var apiErr *miro.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return nil, printer.Error(
				"board access denied",
				fmt.Sprintf("The API rejected the token (HTTP %d).", apiErr.StatusCode),
				[]string{"Check MIRO_API_TOKEN has boards:read and boards:write scopes"},
			)
		case 404:
			return nil, printer.Error(
				"board not found",
				fmt.Sprintf("No board with id '%s'.", s.cfg.Board.ID),
				[]string{"Check board.id in easel.yml or MIRO_BOARD_ID"},
			)
		}
	}
	if miro.IsTransport(err) {
		return nil, printer.Error(
			"board API unreachable",
			err.Error(),
			[]string{"Check network access to " + s.cfg.Board.APIURL},
		)
	}
	return nil, printer.Error("failed to load board", err.Error(), nil)
}
