package api

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"

	"github.com/JaimeStill/landmark/internal/accounts"
	"github.com/JaimeStill/landmark/internal/config"
	"github.com/JaimeStill/landmark/internal/discrepancy"
	"github.com/JaimeStill/landmark/internal/geocode"
	"github.com/JaimeStill/landmark/internal/prompts"
	"github.com/JaimeStill/landmark/internal/roles"
	"github.com/JaimeStill/landmark/internal/submissions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Gate        *roles.Gate
	Accounts    accounts.System
	Prompts     prompts.System
	Submissions submissions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(ctx context.Context, cfg *config.Config, runtime *Runtime) (*Domain, error) {
	policy := roles.NewPolicy(&cfg.Roles)

	gate, err := roles.NewGate(runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("review gate: %w", err)
	}

	db := runtime.Database.Connection()

	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)

	accountsSystem := accounts.New(
		db,
		policy,
		gate,
		runtime.Logger,
		runtime.Pagination,
	)

	checker, err := newChecker(ctx, runtime, promptsSystem)
	if err != nil {
		return nil, err
	}

	submissionsSystem := submissions.New(
		submissions.NewPostgresStore(db),
		geocode.NewStub(runtime.Review.DiscrepancyMarker),
		checker,
		gate,
		runtime.Events,
		runtime.Logger,
		runtime.Pagination,
		submissions.Timeouts{
			Reference: runtime.Review.ReferenceTimeoutDuration(),
			Check:     runtime.Review.CheckTimeoutDuration(),
		},
	)

	return &Domain{
		Gate:        gate,
		Accounts:    accountsSystem,
		Prompts:     promptsSystem,
		Submissions: submissionsSystem,
	}, nil
}

func newChecker(ctx context.Context, runtime *Runtime, source discrepancy.PromptSource) (discrepancy.Checker, error) {
	if !runtime.Agent.UsesModel() {
		runtime.Logger.Info("discrepancy checker", "provider", runtime.Agent.Provider)
		return discrepancy.NewComparisonChecker(), nil
	}

	chat, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: runtime.Agent.BaseURL,
		APIKey:  runtime.Agent.APIKey,
		Model:   runtime.Agent.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	runtime.Logger.Info(
		"discrepancy checker",
		"provider", runtime.Agent.Provider,
		"model", runtime.Agent.Model,
	)
	return discrepancy.NewModelChecker(chat, source, runtime.Logger), nil
}
